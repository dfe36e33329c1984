// Package config loads engine settings from YAML or TOML files.
//
// Every setting has a built-in default, so an empty file (or no file) yields the
// standard rule table, reconciliation checks and weight tables. Files only need to
// name what they change.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

// Config holds engine settings.
type Config struct {
	// BalanceTolerance is how far a balance may sit on the wrong side unreported.
	BalanceTolerance decimal.Decimal `yaml:"balance_tolerance" toml:"balance_tolerance"`
	// TrialBalanceTolerance is the largest accepted debit/credit difference.
	TrialBalanceTolerance decimal.Decimal `yaml:"trial_balance_tolerance" toml:"trial_balance_tolerance"`
	// HighCashRatio flags a cash balance above this share of current assets.
	HighCashRatio decimal.Decimal `yaml:"high_cash_ratio" toml:"high_cash_ratio"`
	// Workers bounds batch concurrency; zero means one per CPU.
	Workers int `yaml:"workers" toml:"workers"`

	Checks  map[string]CheckTolerance `yaml:"checks,omitempty" toml:"checks"`
	Rules   []ledger.Rule             `yaml:"rules,omitempty" toml:"rules"`
	Domains map[string]risk.Override  `yaml:"domains,omitempty" toml:"domains"`
	Tables  []risk.WeightTable        `yaml:"tables,omitempty" toml:"tables"`

	Log LogConfig `yaml:"log" toml:"log"`
}

// CheckTolerance overrides parts of a built-in check's tolerance band.
type CheckTolerance struct {
	Absolute     *decimal.Decimal `yaml:"absolute,omitempty" toml:"absolute"`
	WarnPercent  *decimal.Decimal `yaml:"warn_percent,omitempty" toml:"warn_percent"`
	ErrorPercent *decimal.Decimal `yaml:"error_percent,omitempty" toml:"error_percent"`
}

func (o CheckTolerance) apply(t reconcile.Tolerance) reconcile.Tolerance {
	if o.Absolute != nil {
		t.Absolute = *o.Absolute
	}
	if o.WarnPercent != nil {
		t.WarnPercent = *o.WarnPercent
	}
	if o.ErrorPercent != nil {
		t.ErrorPercent = *o.ErrorPercent
	}
	return t
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BalanceTolerance:      ledger.DefaultBalanceTolerance,
		TrialBalanceTolerance: reconcile.DefaultTrialBalanceTolerance,
		HighCashRatio:         decimal.RequireFromString("0.20"),
		Log:                   LogConfig{Level: "info"},
	}
}

// Load reads a config file; the format follows the extension (.yaml, .yml, .toml).
// Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data in the given format ("yaml", "yml" or "toml") over the
// defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()

	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid yaml config: %w", err)
		}
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid toml config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("invalid toml config: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the settings as YAML that Parse reads back. Amounts are written as
// quoted decimal strings.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// Validate checks every setting, building the rule table, checks and registry so
// configuration defects surface at load time.
func (c *Config) Validate() error {
	switch {
	case c.BalanceTolerance.IsNegative():
		return fmt.Errorf("balance_tolerance must not be negative")
	case c.TrialBalanceTolerance.IsNegative():
		return fmt.Errorf("trial_balance_tolerance must not be negative")
	case !c.HighCashRatio.IsPositive():
		return fmt.Errorf("high_cash_ratio must be positive")
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative")
	}

	if _, err := c.RuleTable(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if _, err := c.ReconcileChecks(); err != nil {
		return fmt.Errorf("checks: %w", err)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("domains: %w", err)
	}
	return nil
}

// RuleTable returns the default chart of accounts with the configured rules layered
// on top.
func (c *Config) RuleTable() (*ledger.RuleTable, error) {
	base, err := ledger.NewRuleTable(ledger.DefaultRules())
	if err != nil {
		return nil, err
	}
	if len(c.Rules) == 0 {
		return base, nil
	}
	return base.Merge(c.Rules)
}

// ReconcileChecks returns the built-in checks with tolerance overrides applied.
// Overrides for unknown checks are rejected.
func (c *Config) ReconcileChecks() ([]reconcile.Check, error) {
	checks := reconcile.DefaultChecks()
	applied := make(map[string]bool, len(c.Checks))

	for i := range checks {
		if o, ok := c.Checks[checks[i].Name]; ok {
			checks[i].Tolerance = o.apply(checks[i].Tolerance)
			applied[checks[i].Name] = true
		}
	}
	for name := range c.Checks {
		if !applied[name] {
			return nil, reconcile.NewInvalidCheckError(name, "unknown check")
		}
	}

	if err := reconcile.ValidateChecks(checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// Registry returns the built-in weight tables with overrides applied plus any
// additional tables.
func (c *Config) Registry() (*risk.Registry, error) {
	return risk.WithOverrides(risk.BuiltinTables(), c.Domains, c.Tables)
}
