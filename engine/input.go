package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

// Keys of Input.Declared and Input.Prior read by the built-in checks.
const (
	DeclaredVATCalculated = "vat_calculated"
	DeclaredVATDeductible = "vat_deductible"
	DeclaredWithholding   = "withholding"
	DeclaredBankEnding    = "bank_ending_balance"
	PriorRevenue          = "revenue"
)

// Input is one client and period as handed to the engine. Every field is read only.
type Input struct {
	ClientID string `json:"client_id" yaml:"client_id"`
	Period   string `json:"period" yaml:"period"`

	Accounts         []ledger.Account                       `json:"accounts" yaml:"accounts"`
	// Declared holds figures from tax filings, keyed by the Declared* constants.
	Declared         map[string]decimal.Decimal             `json:"declared,omitempty" yaml:"declared,omitempty"`
	// Prior holds figures of the previous period, keyed by the Prior* constants.
	Prior            map[string]decimal.Decimal             `json:"prior,omitempty" yaml:"prior,omitempty"`
	BankTransactions []reconcile.BankTransaction            `json:"bank_transactions,omitempty" yaml:"bank_transactions,omitempty"`
	// Signals holds externally resolved signals per scoring domain.
	Signals          map[string]map[string]risk.Observation `json:"signals,omitempty" yaml:"signals,omitempty"`

	// Domains restricts scoring; empty scores every registered domain.
	Domains []string `json:"domains,omitempty" yaml:"domains,omitempty"`

	// Versions identify the inputs for caching. Empty versions are derived from
	// content.
	LedgerVersion   string `json:"ledger_version,omitempty" yaml:"ledger_version,omitempty"`
	DeclaredVersion string `json:"declared_version,omitempty" yaml:"declared_version,omitempty"`
	SignalVersion   string `json:"signal_version,omitempty" yaml:"signal_version,omitempty"`
}

// Label names the input in logs and errors.
func (in Input) Label() string {
	switch {
	case in.ClientID == "" && in.Period == "":
		return "(unnamed)"
	case in.Period == "":
		return in.ClientID
	case in.ClientID == "":
		return in.Period
	}
	return in.ClientID + " " + in.Period
}

// Report is the outcome of one analysis.
type Report struct {
	ID       uuid.UUID `json:"id"`
	ClientID string    `json:"client_id"`
	Period   string    `json:"period"`

	Violations      []ledger.Violation          `json:"violations"`
	TrialBalance    reconcile.Result            `json:"trial_balance"`
	Reconciliations []reconcile.Result          `json:"reconciliations"`
	DerivedSignals  map[string]risk.Observation `json:"derived_signals"`
	Scores          []risk.Result               `json:"scores"`

	Fingerprint string `json:"fingerprint"`
	// Cached is set when the report was served from the cache.
	Cached bool `json:"cached"`
}

// Score returns the result for a domain.
func (r *Report) Score(domain string) (risk.Result, bool) {
	for _, s := range r.Scores {
		if s.Domain == domain {
			return s, true
		}
	}
	return risk.Result{}, false
}

// Mismatches returns the reconciliations that ended in a warning or an error,
// the trial balance included.
func (r *Report) Mismatches() []reconcile.Result {
	var out []reconcile.Result
	if r.TrialBalance.Mismatch() {
		out = append(out, r.TrialBalance)
	}
	for _, res := range r.Reconciliations {
		if res.Mismatch() {
			out = append(out, res)
		}
	}
	return out
}

// HighestSeverity returns the most serious severity among violations and
// reconciliations, or info when there is nothing to report.
func (r *Report) HighestSeverity() ledger.Severity {
	highest := ledger.SeverityInfo
	raise := func(s ledger.Severity) {
		if s.Rank() > highest.Rank() {
			highest = s
		}
	}
	for _, v := range r.Violations {
		raise(v.Severity)
	}
	raise(r.TrialBalance.Severity)
	for _, res := range r.Reconciliations {
		raise(res.Severity)
	}
	return highest
}

// clone returns a deep copy that shares no slices, maps or amounts with r.
func (r *Report) clone() *Report {
	out := *r
	out.Violations = slices.Clone(r.Violations)
	out.TrialBalance = cloneResult(r.TrialBalance)
	if r.Reconciliations != nil {
		out.Reconciliations = make([]reconcile.Result, len(r.Reconciliations))
		for i, res := range r.Reconciliations {
			out.Reconciliations[i] = cloneResult(res)
		}
	}
	if r.Scores != nil {
		out.Scores = make([]risk.Result, len(r.Scores))
		for i, s := range r.Scores {
			s.Reasons = slices.Clone(s.Reasons)
			s.Missing = slices.Clone(s.Missing)
			out.Scores[i] = s
		}
	}
	if r.DerivedSignals != nil {
		out.DerivedSignals = make(map[string]risk.Observation, len(r.DerivedSignals))
		for k, v := range r.DerivedSignals {
			out.DerivedSignals[k] = v
		}
	}
	return &out
}

func cloneResult(res reconcile.Result) reconcile.Result {
	res.ValueA = cloneAmount(res.ValueA)
	res.ValueB = cloneAmount(res.ValueB)
	res.PercentDifference = cloneAmount(res.PercentDifference)
	return res
}

func cloneAmount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := d.Copy()
	return &c
}
