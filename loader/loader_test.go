package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/risk"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLoadInlineYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "acme.yaml", `
client_id: acme
period: 2024-03
accounts:
  - code: "100"
    name: Kasa
    debit_total: 60000
    credit_total: 10000
    debit_balance: 50000
  - code: "391"
    name: Hesaplanan KDV
    credit_total: "36000.00"
    credit_balance: 36000
declared:
  vat_calculated: 36000
prior:
  revenue: 190000.50
bank:
  - date: 2024-03-31
    amount: 100
    balance: 150000
  - date: 30.03.2024
    description: EFT
    amount: -5
    balance: 149900
signals:
  kurgan:
    supplier_vtr_listed: true
    ba_bs_mismatch:
      value: false
      evidence: Ba/Bs mutabakatı tamam
    supplier_sector_mismatch: null
domains: [kurgan, radar]
`)

	result, err := New().Load(context.Background(), path)
	assert.NoError(t, err)

	in := result.Input
	assert.Equal(t, "acme", in.ClientID)
	assert.Equal(t, "2024-03", in.Period)
	assert.Equal(t, 2, len(in.Accounts))
	assert.True(t, in.Accounts[0].DebitBalance.Equal(dec("50000")))
	assert.True(t, in.Accounts[1].CreditBalance.Equal(dec("36000")))
	assert.True(t, in.Declared[engine.DeclaredVATCalculated].Equal(dec("36000")))
	assert.True(t, in.Prior[engine.PriorRevenue].Equal(dec("190000.5")))

	assert.Equal(t, 2, len(in.BankTransactions))
	assert.Equal(t, 1, in.BankTransactions[0].Seq)
	assert.Equal(t, "2024-03-30", in.BankTransactions[1].Date.Format("2006-01-02"))
	assert.Equal(t, "EFT", in.BankTransactions[1].Description)

	kurgan := in.Signals[risk.DomainKurgan]
	assert.Equal(t, risk.True, kurgan["supplier_vtr_listed"].Value)
	assert.Equal(t, risk.Observe(risk.False, "Ba/Bs mutabakatı tamam"), kurgan["ba_bs_mismatch"])
	assert.Equal(t, risk.Unknown, kurgan["supplier_sector_mismatch"].Value)
	assert.Equal(t, []string{"kurgan", "radar"}, in.Domains)

	abs, err := filepath.Abs(path)
	assert.NoError(t, err)
	assert.Equal(t, abs, result.Root)
	assert.Equal(t, []string{abs}, result.Paths())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "beta.json", `{
  "client_id": "beta",
  "period": "2024-Q1",
  "accounts": [{"code": "102", "name": "Bankalar", "debit_balance": "1250.75"}],
  "declared": {"bank_ending_balance": 1250.75},
  "signals": {"radar": {"high_cash_balance": {"value": true, "evidence": "manuel"}, "reversed_balances": false}},
  "ledger_version": "mizan-v3"
}`)

	result, err := New().Load(context.Background(), path)
	assert.NoError(t, err)

	in := result.Input
	assert.Equal(t, "beta", in.ClientID)
	assert.True(t, in.Accounts[0].DebitBalance.Equal(dec("1250.75")))
	assert.True(t, in.Declared[engine.DeclaredBankEnding].Equal(dec("1250.75")))
	assert.Equal(t, risk.Observe(risk.True, "manuel"), in.Signals[risk.DomainRadar]["high_cash_balance"])
	assert.Equal(t, risk.False, in.Signals[risk.DomainRadar]["reversed_balances"].Value)
	assert.Equal(t, "mizan-v3", in.LedgerVersion)
}

func TestLoadCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "exports/mizan.csv", "Hesap Kodu;Hesap Adı;Borç;Alacak;Borç Bakiye;Alacak Bakiye\n"+
		"100;Kasa;60.000,00;10.000,00;50.000,00;0\n"+
		"\n"+
		"320;Satıcılar;;118.000,00;;118.000,00\n")
	writeFile(t, dir, "exports/banka.csv", "tarih,açıklama,tutar,bakiye\n"+
		"2024-03-31,Kira,-1000,149000\n"+
		"2024-03-30,Tahsilat,20000,150000\n")
	path := writeFile(t, dir, "acme.yaml", `
client_id: acme
accounts_file: exports/mizan.csv
bank_file: exports/banka.csv
`)

	result, err := New().Load(context.Background(), path)
	assert.NoError(t, err)

	accounts := result.Input.Accounts
	assert.Equal(t, 2, len(accounts))
	assert.Equal(t, "Kasa", accounts[0].Name)
	assert.True(t, accounts[0].DebitTotal.Equal(dec("60000")))
	assert.True(t, accounts[0].DebitBalance.Equal(dec("50000")))
	assert.Equal(t, "320", accounts[1].Code)
	assert.True(t, accounts[1].DebitTotal.IsZero())
	assert.True(t, accounts[1].CreditBalance.Equal(dec("118000")))

	txns := result.Input.BankTransactions
	assert.Equal(t, 2, len(txns))
	assert.Equal(t, 2, txns[1].Seq)
	assert.Equal(t, "Tahsilat", txns[1].Description)
	assert.True(t, txns[0].Amount.Equal(dec("-1000")))

	assert.Equal(t, []string{
		filepath.Join(filepath.Dir(result.Root), "exports", "mizan.csv"),
		filepath.Join(filepath.Dir(result.Root), "exports", "banka.csv"),
	}, result.Files)
}

func TestLoadSignedBalanceColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mizan.csv", "code,name,balance\n100,Kasa,\"(2.500,00)\"\n102,Bankalar,7500\n")
	path := writeFile(t, dir, "b.yaml", "accounts_file: mizan.csv\n")

	result, err := New().Load(context.Background(), path)
	assert.NoError(t, err)

	accounts := result.Input.Accounts
	assert.True(t, accounts[0].CreditBalance.Equal(dec("2500")))
	assert.True(t, accounts[0].DebitBalance.IsZero())
	assert.True(t, accounts[1].DebitBalance.Equal(dec("7500")))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		bundle  string
		opts    []Option
		wantErr string
	}{
		{
			name:    "unsupported format",
			bundle:  "b.toml",
			files:   map[string]string{"b.toml": "client_id = 1"},
			wantErr: `unsupported bundle format "toml"`,
		},
		{
			name:    "malformed yaml",
			bundle:  "b.yaml",
			files:   map[string]string{"b.yaml": "accounts: [\n"},
			wantErr: "b.yaml: ",
		},
		{
			name:    "unknown key in strict mode",
			bundle:  "b.yaml",
			files:   map[string]string{"b.yaml": "client: acme\n"},
			opts:    []Option{WithStrict()},
			wantErr: "field client not found",
		},
		{
			name:    "unknown key in strict json",
			bundle:  "b.json",
			files:   map[string]string{"b.json": `{"client": "acme"}`},
			opts:    []Option{WithStrict()},
			wantErr: `unknown field "client"`,
		},
		{
			name:    "bad signal value",
			bundle:  "b.yaml",
			files:   map[string]string{"b.yaml": "signals:\n  radar:\n    high_cash_balance: maybe\n"},
			wantErr: `invalid signal value "maybe"`,
		},
		{
			name:    "missing accounts file",
			bundle:  "b.yaml",
			files:   map[string]string{"b.yaml": "accounts_file: absent.csv\n"},
			wantErr: "failed to read",
		},
		{
			name:   "missing code column",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "accounts_file: mizan.csv\n",
				"mizan.csv": "name,debit_balance\nKasa,1\n",
			},
			wantErr: `mizan.csv:1: column "code": missing column`,
		},
		{
			name:   "bad amount",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "accounts_file: mizan.csv\n",
				"mizan.csv": "code,debit_balance\n100,1\n102,abc\n",
			},
			wantErr: `mizan.csv:3: column "debit_balance": invalid amount value "abc"`,
		},
		{
			name:   "unquoted decimal comma",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "accounts_file: mizan.csv\n",
				"mizan.csv": "code,name,balance\n100,Kasa,1.234,56\n",
			},
			wantErr: `mizan.csv:2: wrong number of fields; quote amounts`,
		},
		{
			name:   "short row",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "accounts_file: mizan.csv\n",
				"mizan.csv": "code;name;borç bakiye\n100;Kasa\n",
			},
			wantErr: `mizan.csv:2: wrong number of fields`,
		},
		{
			name:   "bad bank date",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "bank_file: banka.csv\n",
				"banka.csv": "date,balance\n31-03-2024,5\n",
			},
			wantErr: `banka.csv:2: column "date": invalid date "31-03-2024"`,
		},
		{
			name:    "bad inline bank date",
			bundle:  "b.yaml",
			files:   map[string]string{"b.yaml": "bank:\n  - date: yesterday\n    balance: 1\n"},
			wantErr: `record 1: invalid date "yesterday"`,
		},
		{
			name:   "accounts twice",
			bundle: "b.yaml",
			files: map[string]string{
				"b.yaml":    "accounts_file: mizan.csv\naccounts:\n  - code: \"100\"\n",
				"mizan.csv": "code\n100\n",
			},
			wantErr: "accounts and accounts_file are mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			_, err := New(tt.opts...).Load(context.Background(), filepath.Join(dir, tt.bundle))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseErrorUnwraps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mizan.csv", "code,debit_balance\n100,x\n")
	path := writeFile(t, dir, "b.yaml", "accounts_file: mizan.csv\n")

	_, err := New().Load(context.Background(), path)

	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "debit_balance", perr.Column)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "client_id: b\n")
	writeFile(t, dir, "a.json", `{"client_id": "a"}`)
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "nested/c.yaml", "client_id: c\n")

	results, err := New().LoadDir(context.Background(), dir)
	assert.NoError(t, err)

	var clients []string
	for _, r := range results {
		clients = append(clients, r.Input.ClientID)
	}
	assert.Equal(t, []string{"a", "b"}, clients)
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "b.yaml", "client_id: b\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Load(ctx, path)
	assert.IsError(t, err, context.Canceled)
}

func TestLoadBytes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "mizan.csv", "code,debit_balance\n100,5\n")

	result, err := New().LoadBytes(context.Background(), "<stdin>", []byte(`{"client_id": "stdin", "accounts_file": "mizan.csv"}`))
	assert.NoError(t, err)
	assert.Equal(t, "stdin", result.Input.ClientID)
	assert.Equal(t, 1, len(result.Input.Accounts))
	assert.Equal(t, "<stdin>", result.Root)
}
