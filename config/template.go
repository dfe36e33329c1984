package config

import (
	"io"
)

// Template is the annotated file written by "mizan config init". Every active
// value equals its built-in default.
const Template = `# mizan configuration

# Amount a balance may sit on the wrong side before it is reported.
balance_tolerance: 1

# Largest accepted difference between total debit and total credit.
trial_balance_tolerance: 0.01

# Cash (100) above this share of current assets raises high_cash_balance.
high_cash_ratio: 0.20

# Concurrent analyses in batch mode; 0 uses one per CPU.
workers: 0

log:
  level: info
  file: ""

# Per-check tolerance overrides. Unset fields keep the built-in band.
# checks:
#   vat_calculated:
#     absolute: 50
#     warn_percent: 2
#   revenue_trend:
#     error_percent: 40

# Extra or replacement chart-of-accounts rules.
# rules:
#   - code_prefix: "159"
#     name: Verilen Sipariş Avansları
#     expected_direction: debit
#     allow_negative: false
#     group: current_asset

# Weight table overrides. A new version is required.
# domains:
#   kurgan:
#     version: kurgan-2024.1-local
#     weights:
#       vat_declaration_mismatch: 15
`

// WriteDefault writes the annotated default configuration.
func WriteDefault(w io.Writer) error {
	_, err := io.WriteString(w, Template)
	return err
}
