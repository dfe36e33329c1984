package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/evidence"
	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/output"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeHeading(w io.Writer, s *output.Styles, title string) {
	_, _ = fmt.Fprintf(w, "\n%s\n", s.Keyword(title))
}

// writeReport renders a full analysis report as text.
func writeReport(w io.Writer, s *output.Styles, r *engine.Report) {
	title := strings.TrimSpace(r.ClientID + " " + r.Period)
	if title == "" {
		title = "(unnamed)"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", s.Keyword(title), s.Dim(r.ID.String()))
	if r.Cached {
		_, _ = fmt.Fprintln(w, s.Dim("(önbellekten)"))
	}

	writeHeading(w, s, "Mizan")
	writeTrialBalance(w, s, r.TrialBalance)
	writeViolations(w, s, r.Violations)

	writeHeading(w, s, "Mutabakat")
	writeReconciliations(w, s, r.Reconciliations)

	for _, score := range r.Scores {
		writeHeading(w, s, strings.ToUpper(score.Domain))
		writeScore(w, s, score)
	}
}

func writeTrialBalance(w io.Writer, s *output.Styles, tb reconcile.Result) {
	_, _ = fmt.Fprintf(w, "%s %s\n", s.Severity(string(tb.Status), statusLabel(tb.Status)), tb.Explanation)
}

func writeViolations(w io.Writer, s *output.Styles, violations []ledger.Violation) {
	if len(violations) == 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", s.Success(statusLabel(reconcile.StatusOK)), "Ters veya eksi bakiye veren hesap yok")
		return
	}

	t := output.NewTable(output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignLeft)
	for _, v := range violations {
		t.Add(string(v.Severity), v.Code, ledger.FormatAmount(v.Amount), v.Message)
	}
	for i, row := range t.Rows() {
		v := violations[i]
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			s.Severity(string(v.Severity), row[0]), s.Account(row[1]), s.Amount(row[2]), strings.TrimRight(row[3], " "))
	}
}

func writeReconciliations(w io.Writer, s *output.Styles, results []reconcile.Result) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, s.Dim("Karşılaştırma yok"))
		return
	}

	t := output.NewTable(output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignRight)
	for _, res := range results {
		t.Add(res.Check, statusLabel(res.Status), optionalAmount(res.ValueA), optionalAmount(res.ValueB), percentLabel(res.PercentDifference))
	}
	for i, row := range t.Rows() {
		res := results[i]
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			row[0], s.Severity(string(res.Status), row[1]), s.Amount(row[2]), s.Amount(row[3]), row[4])
		if res.Mismatch() {
			_, _ = fmt.Fprintf(w, "    %s\n", s.Dim(res.Explanation))
			if res.LegalReference != "" {
				_, _ = fmt.Fprintf(w, "    %s\n", s.Dim(res.LegalReference))
			}
		}
	}
}

func writeScore(w io.Writer, s *output.Styles, r risk.Result) {
	_, _ = fmt.Fprintf(w, "Skor %s/%d  %s  %s\n",
		s.Severity(string(r.Level), strconv.Itoa(r.Score)), risk.MaxScore,
		s.Severity(string(r.Level), r.Level.Turkish()), s.Dim(r.TableVersion))

	for _, reason := range r.Reasons {
		sign := "+"
		if reason.Effect == evidence.Decreasing {
			sign = "-"
		}
		_, _ = fmt.Fprintf(w, "  %s %s %s\n", sign, s.Keyword(reason.Signal), s.Dim(impactLabel(reason)))
		_, _ = fmt.Fprintf(w, "    %s\n", reason.Evidence)
		_, _ = fmt.Fprintf(w, "    %s %s\n", infoSymbol, reason.Suggestion)
	}

	if len(r.Missing) > 0 {
		_, _ = fmt.Fprintf(w, "  %s %s\n", s.Dim("Veri yok:"), s.Dim(strings.Join(r.Missing, ", ")))
	}
}

func statusLabel(status reconcile.Status) string {
	return strings.ToUpper(status.Turkish())
}

func optionalAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return ledger.FormatAmount(*d)
}

func percentLabel(p *decimal.Decimal) string {
	if p == nil {
		return "-"
	}
	return "%" + strings.ReplaceAll(p.StringFixed(2), ".", ",")
}

func impactLabel(r evidence.Reason) string {
	return fmt.Sprintf("(%s puan)", strconv.FormatFloat(r.Impact, 'f', -1, 64))
}
