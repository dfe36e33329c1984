// Package engine runs the full analysis of one client and period: balance
// validation, trial-balance equality, cross-source reconciliation, signal
// derivation and risk scoring.
//
// The engine is the only layer that logs, records metrics or caches; the packages
// it drives stay pure. An Engine holds read-only configuration and is safe for
// concurrent use, which Batch relies on.
//
// Example usage:
//
//	eng, err := engine.New(engine.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	report, err := eng.Analyze(ctx, input)
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mizanlab/mizan/config"
	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/logger"
	"github.com/mizanlab/mizan/metrics"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
	"github.com/mizanlab/mizan/telemetry"
)

// DefaultHighCashRatio is the share of current assets above which cash on hand is
// reported as high.
var DefaultHighCashRatio = decimal.RequireFromString("0.20")

// Engine analyses client periods.
type Engine struct {
	rules            *ledger.RuleTable
	registry         *risk.Registry
	checks           []reconcile.Check
	balanceTolerance decimal.Decimal
	trialTolerance   decimal.Decimal
	highCashRatio    decimal.Decimal

	log     logrus.FieldLogger
	metrics *metrics.Metrics
	cache   *Cache
	newID   func() uuid.UUID

	// settings identifies everything above that changes results.
	settings string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the chart-of-accounts rule table.
func WithRules(rules *ledger.RuleTable) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithRegistry replaces the weight table registry.
func WithRegistry(registry *risk.Registry) Option {
	return func(e *Engine) { e.registry = registry }
}

// WithChecks replaces the reconciliation checks. Every check must be one of the
// built-in names, which determine the figures compared.
func WithChecks(checks []reconcile.Check) Option {
	return func(e *Engine) { e.checks = append([]reconcile.Check(nil), checks...) }
}

// WithBalanceTolerance sets the tolerance of the balance validators.
func WithBalanceTolerance(tolerance decimal.Decimal) Option {
	return func(e *Engine) { e.balanceTolerance = tolerance }
}

// WithTrialBalanceTolerance sets the accepted debit/credit difference.
func WithTrialBalanceTolerance(tolerance decimal.Decimal) Option {
	return func(e *Engine) { e.trialTolerance = tolerance }
}

// WithHighCashRatio sets the cash share that raises high_cash_balance.
func WithHighCashRatio(ratio decimal.Decimal) Option {
	return func(e *Engine) { e.highCashRatio = ratio }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics records analyses into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCache serves repeated analyses of unchanged inputs from c.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// New returns an engine with the built-in rules, checks and weight tables unless
// overridden by options.
func New(opts ...Option) (*Engine, error) {
	rules, err := ledger.NewRuleTable(ledger.DefaultRules())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		rules:            rules,
		registry:         risk.DefaultRegistry(),
		checks:           reconcile.DefaultChecks(),
		balanceTolerance: ledger.DefaultBalanceTolerance,
		trialTolerance:   reconcile.DefaultTrialBalanceTolerance,
		highCashRatio:    DefaultHighCashRatio,
		log:              logger.Discard(),
		newID:            uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := reconcile.ValidateChecks(e.checks); err != nil {
		return nil, err
	}
	for _, c := range e.checks {
		if _, ok := bindings[c.Name]; !ok {
			return nil, reconcile.NewInvalidCheckError(c.Name, "no figures are bound to this check")
		}
	}

	e.settings, err = settingsHash(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FromConfig builds an engine from loaded configuration. Options are applied after
// the configuration.
func FromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	rules, err := cfg.RuleTable()
	if err != nil {
		return nil, err
	}
	checks, err := cfg.ReconcileChecks()
	if err != nil {
		return nil, err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithRules(rules),
		WithChecks(checks),
		WithRegistry(registry),
		WithBalanceTolerance(cfg.BalanceTolerance),
		WithTrialBalanceTolerance(cfg.TrialBalanceTolerance),
		WithHighCashRatio(cfg.HighCashRatio),
	}
	return New(append(base, opts...)...)
}

// Rules returns the engine's rule table.
func (e *Engine) Rules() *ledger.RuleTable {
	return e.rules
}

// Registry returns the engine's weight table registry.
func (e *Engine) Registry() *risk.Registry {
	return e.registry
}

// Checks returns a copy of the engine's reconciliation checks.
func (e *Engine) Checks() []reconcile.Check {
	return append([]reconcile.Check(nil), e.checks...)
}

// Analyze runs every stage over one input. Structural problems (malformed accounts,
// unknown domains or signals) fail the analysis; everything else is reported.
func (e *Engine) Analyze(ctx context.Context, in Input) (report *Report, err error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordAnalysis(time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := e.log.WithFields(logrus.Fields{"client": in.ClientID, "period": in.Period})

	ctx, timer := telemetry.StartTimer(ctx, "analyze "+in.Label())
	defer timer.End()

	fingerprint, err := e.Fingerprint(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Label(), err)
	}

	if e.cache != nil {
		cached, ok := e.cache.Get(fingerprint)
		e.metrics.RecordCacheLookup(ok)
		if ok {
			log.WithField("fingerprint", fingerprint).Debug("Serving cached report")
			cached.ID = e.newID()
			cached.Cached = true
			return cached, nil
		}
	}

	report = &Report{
		ID:          e.newID(),
		ClientID:    in.ClientID,
		Period:      in.Period,
		Fingerprint: fingerprint,
	}

	if err := e.validate(ctx, in, report, log); err != nil {
		return nil, fmt.Errorf("%s: %w", in.Label(), err)
	}
	e.reconcile(ctx, in, report, log)
	report.DerivedSignals = e.deriveSignals(in, report)
	if err := e.score(ctx, in, report, log); err != nil {
		return nil, fmt.Errorf("%s: %w", in.Label(), err)
	}

	log.WithFields(logrus.Fields{
		"violations": len(report.Violations),
		"mismatches": len(report.Mismatches()),
		"severity":   report.HighestSeverity(),
	}).Info("Analysis complete")

	if e.cache != nil {
		e.cache.Put(fingerprint, report)
	}
	return report, nil
}

func (e *Engine) validate(ctx context.Context, in Input, r *Report, log logrus.FieldLogger) error {
	_, timer := telemetry.StartTimer(ctx, "engine.validate")
	defer timer.End()

	if err := ledger.CheckAccounts(in.Accounts); err != nil {
		return err
	}

	r.Violations = ledger.Validate(in.Accounts, e.rules, ledger.WithTolerance(e.balanceTolerance))
	if r.Violations == nil {
		r.Violations = []ledger.Violation{}
	}
	for _, v := range r.Violations {
		e.metrics.RecordViolation(string(v.Kind), string(v.Severity))
		log.WithFields(logrus.Fields{"code": v.Code, "kind": v.Kind, "severity": v.Severity}).Debug(v.Message)
	}

	if len(in.Accounts) == 0 {
		r.TrialBalance = reconcile.ReconcileOptional(trialBalanceCheck, nil, nil)
	} else {
		r.TrialBalance = reconcile.CheckAccountsTrialBalance(in.Accounts, e.trialTolerance)
	}
	e.metrics.RecordReconciliation(r.TrialBalance.Check, string(r.TrialBalance.Status))
	if r.TrialBalance.Status == reconcile.StatusError {
		log.Warn(r.TrialBalance.Explanation)
	}

	return nil
}

var trialBalanceCheck = reconcile.Check{
	Name:   reconcile.TrialBalanceCheck,
	LabelA: "Toplam borç",
	LabelB: "Toplam alacak",
}

func (e *Engine) reconcile(ctx context.Context, in Input, r *Report, log logrus.FieldLogger) {
	_, timer := telemetry.StartTimer(ctx, "engine.reconcile")
	defer timer.End()

	r.Reconciliations = make([]reconcile.Result, 0, len(e.checks))
	for _, check := range e.checks {
		a, b := bindings[check.Name](in)
		res := reconcile.ReconcileOptional(check, a, b)

		e.metrics.RecordReconciliation(res.Check, string(res.Status))
		if res.Mismatch() {
			log.WithFields(logrus.Fields{"check": res.Check, "status": res.Status}).Debug(res.Explanation)
		}
		r.Reconciliations = append(r.Reconciliations, res)
	}
}

func (e *Engine) score(ctx context.Context, in Input, r *Report, log logrus.FieldLogger) error {
	ctx, timer := telemetry.StartTimer(ctx, "engine.score")
	defer timer.End()

	domains := in.Domains
	if len(domains) == 0 {
		domains = e.registry.Domains()
	}

	seen := make(map[string]bool, len(domains))
	r.Scores = make([]risk.Result, 0, len(domains))
	for _, domain := range domains {
		if seen[domain] {
			continue
		}
		seen[domain] = true

		res, err := e.scoreDomain(ctx, domain, in.Signals[domain], r.DerivedSignals)
		if err != nil {
			return err
		}

		e.metrics.RecordScore(domain, res.Score, len(res.Missing))
		log.WithFields(logrus.Fields{
			"domain":  domain,
			"score":   res.Score,
			"level":   res.Level,
			"missing": len(res.Missing),
		}).Debug("Scored domain")
		r.Scores = append(r.Scores, res)
	}
	return nil
}

func (e *Engine) scoreDomain(ctx context.Context, domain string, external, derived map[string]risk.Observation) (risk.Result, error) {
	_, timer := telemetry.StartTimer(ctx, domain)
	defer timer.End()

	scorer, err := e.registry.Scorer(domain)
	if err != nil {
		return risk.Result{}, err
	}
	return scorer.Score(mergeSignals(scorer, external, derived))
}

// mergeSignals layers the known derived signals the domain defines over the
// external ones. An unknown derived value never hides an external observation.
func mergeSignals(scorer *risk.Scorer, external, derived map[string]risk.Observation) map[string]risk.Observation {
	out := make(map[string]risk.Observation, len(external)+len(derived))
	for name, obs := range external {
		out[name] = obs
	}
	for name, obs := range derived {
		if obs.Value.Known() && scorer.Known(name) {
			out[name] = obs
		}
	}
	return out
}
