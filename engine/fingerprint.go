package engine

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// fingerprintKey is what a cached report depends on. Client and period are part of
// it because a report carries them. decimal.Decimal has no exported fields, so
// amounts enter the hash as strings.
type fingerprintKey struct {
	Client   string
	Period   string
	Ledger   string
	Declared string
	Signals  string
	Tables   map[string]string
	Domains  []string
	Settings string
}

type accountKey struct {
	Code, Name                                           string
	DebitTotal, CreditTotal, DebitBalance, CreditBalance string
}

type bankKey struct {
	Seq                          int
	Date, Amount, Balance, About string
}

type declaredKey struct {
	Declared map[string]string
	Prior    map[string]string
	Bank     []bankKey
}

// Fingerprint identifies an input together with the weight table versions it is
// scored against. Inputs without explicit versions are identified by content.
func Fingerprint(in Input, tableVersions map[string]string) (string, error) {
	return fingerprint(in, tableVersions, "")
}

// Fingerprint is the cache key of an input under this engine's configuration.
func (e *Engine) Fingerprint(in Input) (string, error) {
	return fingerprint(in, e.registry.Versions(), e.settings)
}

func fingerprint(in Input, tableVersions map[string]string, settings string) (string, error) {
	key := fingerprintKey{
		Client:   in.ClientID,
		Period:   in.Period,
		Ledger:   in.LedgerVersion,
		Declared: in.DeclaredVersion,
		Signals:  in.SignalVersion,
		Tables:   tableVersions,
		Domains:  in.Domains,
		Settings: settings,
	}

	var err error
	if key.Ledger == "" {
		if key.Ledger, err = hashOf(accountKeys(in)); err != nil {
			return "", err
		}
	}
	if key.Declared == "" {
		if key.Declared, err = hashOf(declaredKeys(in)); err != nil {
			return "", err
		}
	}
	if key.Signals == "" {
		if key.Signals, err = hashOf(signalKeys(in)); err != nil {
			return "", err
		}
	}

	return hashOf(key)
}

func hashOf(v interface{}) (string, error) {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint input: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}

func accountKeys(in Input) []accountKey {
	keys := make([]accountKey, len(in.Accounts))
	for i, a := range in.Accounts {
		keys[i] = accountKey{
			Code:          a.Code,
			Name:          a.Name,
			DebitTotal:    a.DebitTotal.String(),
			CreditTotal:   a.CreditTotal.String(),
			DebitBalance:  a.DebitBalance.String(),
			CreditBalance: a.CreditBalance.String(),
		}
	}
	return keys
}

func declaredKeys(in Input) declaredKey {
	key := declaredKey{
		Declared: make(map[string]string, len(in.Declared)),
		Prior:    make(map[string]string, len(in.Prior)),
		Bank:     make([]bankKey, len(in.BankTransactions)),
	}
	for k, v := range in.Declared {
		key.Declared[k] = v.String()
	}
	for k, v := range in.Prior {
		key.Prior[k] = v.String()
	}
	for i, t := range in.BankTransactions {
		key.Bank[i] = bankKey{
			Seq:     t.Seq,
			Date:    t.Date.Format("2006-01-02T15:04:05Z07:00"),
			Amount:  t.Amount.String(),
			Balance: t.Balance.String(),
			About:   t.Description,
		}
	}
	return key
}

func signalKeys(in Input) map[string]map[string]string {
	keys := make(map[string]map[string]string, len(in.Signals))
	for domain, signals := range in.Signals {
		m := make(map[string]string, len(signals))
		for name, obs := range signals {
			m[name] = obs.Value.String() + "|" + obs.Evidence
		}
		keys[domain] = m
	}
	return keys
}

type ruleKey struct {
	Prefix, Name, Direction, Group string
	AllowNegative                  bool
}

type checkKey struct {
	Name, LabelA, LabelB, Reference string
	Absolute, Warn, Error           string
}

type settingsKey struct {
	Rules            []ruleKey
	Checks           []checkKey
	BalanceTolerance string
	TrialTolerance   string
	HighCashRatio    string
}

// settingsHash identifies the engine configuration that changes results. Weight
// tables are covered by their versions.
func settingsHash(e *Engine) (string, error) {
	key := settingsKey{
		BalanceTolerance: e.balanceTolerance.String(),
		TrialTolerance:   e.trialTolerance.String(),
		HighCashRatio:    e.highCashRatio.String(),
	}
	for _, r := range e.rules.Rules() {
		key.Rules = append(key.Rules, ruleKey{
			Prefix:        r.CodePrefix,
			Name:          r.Name,
			Direction:     string(r.Direction),
			Group:         string(r.Group),
			AllowNegative: r.AllowNegative,
		})
	}
	for _, c := range e.checks {
		key.Checks = append(key.Checks, checkKey{
			Name:      c.Name,
			LabelA:    c.LabelA,
			LabelB:    c.LabelB,
			Reference: c.LegalReference,
			Absolute:  c.Tolerance.Absolute.String(),
			Warn:      c.Tolerance.WarnPercent.String(),
			Error:     c.Tolerance.ErrorPercent.String(),
		})
	}
	return hashOf(key)
}
