package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
)

// Header aliases, including the column names of common Turkish mizan exports.
var accountColumns = map[string]string{
	"code":           "code",
	"hesap_kodu":     "code",
	"name":           "name",
	"hesap_adi":      "name",
	"hesap_adı":      "name",
	"debit_total":    "debit_total",
	"borc":           "debit_total",
	"borç":           "debit_total",
	"credit_total":   "credit_total",
	"alacak":         "credit_total",
	"debit_balance":  "debit_balance",
	"borc_bakiye":    "debit_balance",
	"borç_bakiye":    "debit_balance",
	"credit_balance": "credit_balance",
	"alacak_bakiye":  "credit_balance",
	"balance":        "balance",
	"bakiye":         "balance",
}

var bankColumns = map[string]string{
	"date":        "date",
	"tarih":       "date",
	"description": "description",
	"aciklama":    "description",
	"açıklama":    "description",
	"amount":      "amount",
	"tutar":       "amount",
	"balance":     "balance",
	"bakiye":      "balance",
}

// Date layouts accepted for bank records.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// table is a CSV file with named columns.
type table struct {
	file    string
	columns map[string]int
	rows    [][]string
}

// readTable reads a CSV file whose first row names the columns. Semicolon
// separated exports are detected from the header.
func readTable(file string, aliases map[string]string, required ...string) (*table, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	content := strings.TrimPrefix(string(data), "\ufeff")
	header, _, _ := strings.Cut(content, "\n")

	r := csv.NewReader(strings.NewReader(content))
	if strings.Count(header, ";") > strings.Count(header, ",") {
		r.Comma = ';'
	}
	r.TrimLeadingSpace = true
	// Every row must be as wide as the header. An unquoted "1.234,56" in a comma
	// separated file would otherwise lose its decimals without notice.
	r.FieldsPerRecord = 0

	records, err := r.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			if errors.Is(perr.Err, csv.ErrFieldCount) {
				return nil, NewParseError(file, perr.Line, "",
					fmt.Errorf("%w; quote amounts written with a decimal comma or separate columns with ';'", perr.Err))
			}
			return nil, NewParseError(file, perr.Line, "", perr.Err)
		}
		return nil, NewParseError(file, 0, "", err)
	}
	if len(records) == 0 {
		return nil, NewParseError(file, 0, "", io.ErrUnexpectedEOF)
	}

	t := &table{file: file, columns: make(map[string]int), rows: records[1:]}
	for i, name := range records[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		if canonical, ok := aliases[key]; ok {
			t.columns[canonical] = i
		}
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, NewParseError(file, 1, name, errors.New("missing column"))
		}
	}
	return t, nil
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

func (t *table) cell(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) amount(row []string, line int, column string) (decimal.Decimal, error) {
	d, err := ledger.ParseAmount(t.cell(row, column))
	if err != nil {
		return decimal.Zero, NewParseError(t.file, line, column, err)
	}
	return d, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// readAccounts loads a trial balance export. A single signed balance column may
// stand in for the debit and credit balance pair.
func readAccounts(file string) ([]ledger.Account, error) {
	t, err := readTable(file, accountColumns, "code")
	if err != nil {
		return nil, err
	}

	var accounts []ledger.Account
	for i, row := range t.rows {
		line := i + 2
		if blank(row) {
			continue
		}

		a := ledger.Account{Code: t.cell(row, "code"), Name: t.cell(row, "name")}
		fields := []struct {
			column string
			dst    *decimal.Decimal
		}{
			{"debit_total", &a.DebitTotal},
			{"credit_total", &a.CreditTotal},
			{"debit_balance", &a.DebitBalance},
			{"credit_balance", &a.CreditBalance},
		}
		for _, f := range fields {
			if *f.dst, err = t.amount(row, line, f.column); err != nil {
				return nil, err
			}
		}

		if t.has("balance") && !t.has("debit_balance") && !t.has("credit_balance") {
			balance, err := t.amount(row, line, "balance")
			if err != nil {
				return nil, err
			}
			if balance.IsNegative() {
				a.CreditBalance = balance.Neg()
			} else {
				a.DebitBalance = balance
			}
		}

		accounts = append(accounts, a)
	}
	return accounts, nil
}

// readBank loads a bank statement export. Seq follows the row order.
func readBank(file string) ([]reconcile.BankTransaction, error) {
	t, err := readTable(file, bankColumns, "date", "balance")
	if err != nil {
		return nil, err
	}

	var txns []reconcile.BankTransaction
	for i, row := range t.rows {
		line := i + 2
		if blank(row) {
			continue
		}

		date, err := parseDate(t.cell(row, "date"))
		if err != nil {
			return nil, NewParseError(file, line, "date", err)
		}
		amount, err := t.amount(row, line, "amount")
		if err != nil {
			return nil, err
		}
		balance, err := t.amount(row, line, "balance")
		if err != nil {
			return nil, err
		}

		txns = append(txns, reconcile.BankTransaction{
			Seq:         len(txns) + 1,
			Date:        date,
			Description: t.cell(row, "description"),
			Amount:      amount,
			Balance:     balance,
		})
	}
	return txns, nil
}
