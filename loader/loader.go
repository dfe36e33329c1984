// Package loader reads analysis inputs from bundle files.
//
// A bundle is a YAML or JSON document describing one client and period: accounts
// (inline or from a CSV export), declared and prior-period figures, bank records
// (inline or from a CSV statement) and resolved signals per scoring domain. Files a
// bundle refers to are resolved relative to the bundle's directory.
//
// Example usage:
//
//	ldr := loader.New(loader.WithStrict())
//	result, err := ldr.Load(ctx, "acme-2024-03.yaml")
//	if err != nil {
//	    return err
//	}
//	report, err := eng.Analyze(ctx, result.Input)
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

// Bundle is the on-disk form of an engine.Input.
type Bundle struct {
	ClientID string `json:"client_id" yaml:"client_id"`
	Period   string `json:"period" yaml:"period"`

	AccountsFile string           `json:"accounts_file,omitempty" yaml:"accounts_file,omitempty"`
	Accounts     []ledger.Account `json:"accounts,omitempty" yaml:"accounts,omitempty"`

	Declared map[string]decimal.Decimal `json:"declared,omitempty" yaml:"declared,omitempty"`
	Prior    map[string]decimal.Decimal `json:"prior,omitempty" yaml:"prior,omitempty"`

	BankFile string       `json:"bank_file,omitempty" yaml:"bank_file,omitempty"`
	Bank     []BankRecord `json:"bank,omitempty" yaml:"bank,omitempty"`

	Signals map[string]map[string]risk.Observation `json:"signals,omitempty" yaml:"signals,omitempty"`
	Domains []string                               `json:"domains,omitempty" yaml:"domains,omitempty"`

	LedgerVersion   string `json:"ledger_version,omitempty" yaml:"ledger_version,omitempty"`
	DeclaredVersion string `json:"declared_version,omitempty" yaml:"declared_version,omitempty"`
	SignalVersion   string `json:"signal_version,omitempty" yaml:"signal_version,omitempty"`
}

// BankRecord is one inline bank statement line. Dates are written as
// 2006-01-02 or 02.01.2006.
type BankRecord struct {
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Balance     decimal.Decimal `json:"balance" yaml:"balance"`
}

// Result is a loaded bundle.
type Result struct {
	Input engine.Input
	// Root is the absolute path of the bundle.
	Root string
	// Files lists the absolute paths of the CSV files the bundle refers to.
	Files []string
}

// Paths returns the bundle and every file it refers to.
func (r *Result) Paths() []string {
	return append([]string{r.Root}, r.Files...)
}

// Loader reads bundles.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithStrict())
type Loader struct {
	// Strict rejects bundle keys the loader does not know.
	Strict bool
}

// Option configures how bundles are loaded.
type Option func(*Loader)

// WithStrict makes unknown bundle keys an error instead of ignoring them.
func WithStrict() Option {
	return func(l *Loader) {
		l.Strict = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extensions of the files treated as bundles.
var bundleExtensions = []string{".yaml", ".yml", ".json"}

// IsBundle reports whether path has a bundle extension.
func IsBundle(path string) bool {
	return slices.Contains(bundleExtensions, strings.ToLower(filepath.Ext(path)))
}

// Load reads a bundle and the files it refers to.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	bundle, err := l.Decode(data, format)
	if err != nil {
		return nil, NewParseError(filename, 0, "", err)
	}

	return l.resolve(ctx, bundle, absPath)
}

// LoadBytes loads a bundle that is already in memory, such as one read from stdin.
// The format follows the filename's extension and defaults to YAML, which also
// accepts JSON. Relative file references resolve against the working directory.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if format == "" {
		format = "yaml"
	}
	bundle, err := l.Decode(data, format)
	if err != nil {
		return nil, NewParseError(filename, 0, "", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	result, err := l.resolve(ctx, bundle, filepath.Join(cwd, filename))
	if err != nil {
		return nil, err
	}
	result.Root = filename
	return result, nil
}

// LoadDir loads every bundle in dir, ordered by file name. Subdirectories are not
// searched.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var results []*Result
	for _, entry := range entries {
		if entry.IsDir() || !IsBundle(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := l.Load(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Decode parses bundle data. The format is "yaml", "yml" or "json".
func (l *Loader) Decode(data []byte, format string) (*Bundle, error) {
	var b Bundle

	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(l.Strict)
		if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if l.Strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&b); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported bundle format %q", format)
	}

	return &b, nil
}

// resolve turns a decoded bundle into engine input, reading referenced files
// relative to the bundle's directory.
func (l *Loader) resolve(ctx context.Context, b *Bundle, root string) (*Result, error) {
	result := &Result{Root: root}
	baseDir := filepath.Dir(root)

	in := engine.Input{
		ClientID:        b.ClientID,
		Period:          b.Period,
		Accounts:        b.Accounts,
		Declared:        b.Declared,
		Prior:           b.Prior,
		Signals:         b.Signals,
		Domains:         b.Domains,
		LedgerVersion:   b.LedgerVersion,
		DeclaredVersion: b.DeclaredVersion,
		SignalVersion:   b.SignalVersion,
	}

	if b.AccountsFile != "" {
		if len(b.Accounts) > 0 {
			return nil, NewParseError(root, 0, "", errors.New("accounts and accounts_file are mutually exclusive"))
		}
		path := resolvePath(baseDir, b.AccountsFile)
		accounts, err := readAccounts(path)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", root, err)
		}
		in.Accounts = accounts
		result.Files = append(result.Files, path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case b.BankFile != "" && len(b.Bank) > 0:
		return nil, NewParseError(root, 0, "", errors.New("bank and bank_file are mutually exclusive"))
	case b.BankFile != "":
		path := resolvePath(baseDir, b.BankFile)
		txns, err := readBank(path)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", root, err)
		}
		in.BankTransactions = txns
		result.Files = append(result.Files, path)
	default:
		for i, rec := range b.Bank {
			date, err := parseDate(rec.Date)
			if err != nil {
				return nil, NewParseError(root, 0, "bank", fmt.Errorf("record %d: %w", i+1, err))
			}
			in.BankTransactions = append(in.BankTransactions, reconcile.BankTransaction{
				Seq:         i + 1,
				Date:        date,
				Description: rec.Description,
				Amount:      rec.Amount,
				Balance:     rec.Balance,
			})
		}
	}

	result.Input = in
	return result, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
