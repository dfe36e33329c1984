package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/risk"
)

const cleanBundle = `client_id: acme
period: 2024-03
accounts:
  - {code: "100", name: Kasa, debit_total: 60000, credit_total: 10000, debit_balance: 50000}
  - {code: "102", name: Bankalar, debit_total: 200000, credit_total: 50000, debit_balance: 150000}
  - {code: "153", name: Ticari Mallar, debit_total: 100000, debit_balance: 100000}
  - {code: "191", name: İndirilecek KDV, debit_total: 18000, debit_balance: 18000}
  - {code: "320", name: Satıcılar, credit_total: 118000, credit_balance: 118000}
  - {code: "391", name: Hesaplanan KDV, credit_total: 36000, credit_balance: 36000}
  - {code: "500", name: Sermaye, credit_total: 100000, credit_balance: 100000}
  - {code: "600", name: Yurtiçi Satışlar, credit_total: 200000, credit_balance: 200000}
  - {code: "770", name: Genel Yönetim Giderleri, debit_total: 136000, debit_balance: 136000}
declared:
  vat_calculated: 36000
  vat_deductible: 18000
  bank_ending_balance: 150000
prior:
  revenue: 190000
`

const problemBundle = `client_id: beta
period: 2024-03
accounts:
  - {code: "100", name: Kasa, credit_total: 50000, credit_balance: 50000}
  - {code: "102", name: Bankalar, debit_total: 400000, debit_balance: 400000}
  - {code: "153", name: Ticari Mallar, credit_total: 100000, credit_balance: 100000}
  - {code: "500", name: Sermaye, credit_total: 250000, credit_balance: 250000}
declared:
  bank_ending_balance: 400000
`

// execute runs the command line in-process and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var app Commands
	var stdout, stderr bytes.Buffer
	parser, err := kong.New(&app,
		kong.Name("mizan"),
		kong.Writers(&stdout, &stderr),
		kong.Bind(&app.Globals),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(append([]string{"--log-level=error"}, args...))
	if err != nil {
		return stdout.String(), stderr.String(), err
	}
	err = ctx.Run()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func exitCode(err error) int {
	return ResultOf(err).ExitCode
}

func TestCheckCmd(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"clean.yaml":   cleanBundle,
		"problem.yaml": problemBundle,
		"broken.yaml":  "accounts:\n  - {code: \"1x0\", name: Kasa}\n",
		"empty.yaml":   "client_id: acme\n",
	})

	t.Run("CleanLedgerPasses", func(t *testing.T) {
		stdout, _, err := execute(t, "check", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Mizan dengede")
		assert.Contains(t, stdout, "Check passed")
	})

	t.Run("ViolationsExitWithOne", func(t *testing.T) {
		stdout, stderr, err := execute(t, "check", filepath.Join(dir, "problem.yaml"))
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, stdout, "100 Kasa hesabı borç bakiye vermesi gerekirken")
		assert.Contains(t, stdout, "153")
		assert.Contains(t, stderr, "balance violation(s) found")
	})

	t.Run("MalformedAccountIsRendered", func(t *testing.T) {
		_, stderr, err := execute(t, "check", filepath.Join(dir, "broken.yaml"))
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, stderr, "malformed account code")
		assert.Contains(t, stderr, "invalid trial balance")
	})

	t.Run("NoAccountsWarns", func(t *testing.T) {
		_, stderr, err := execute(t, "check", filepath.Join(dir, "empty.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stderr, "no accounts")
	})
}

func TestReconcileCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:    "WithinAbsoluteTolerance",
			args:    []string{"reconcile", "1000", "1050"},
			wantOut: "ok",
		},
		{
			name:     "TurkishAmountsErrorBand",
			args:     []string{"reconcile", "10.000,00", "8.000,00"},
			wantCode: 1,
			wantOut:  `"status": "error"`,
		},
		{
			name:    "WarningDoesNotFail",
			args:    []string{"reconcile", "--absolute=0", "100", "95"},
			wantOut: `"status": "warning"`,
		},
		{
			name:    "Sums",
			args:    []string{"reconcile", "30.000,00 + 6.000,00", "36000"},
			wantOut: `"difference": "0"`,
		},
		{
			name:    "NamedCheck",
			args:    []string{"reconcile", "--check=revenue_trend", "200000", "190000"},
			wantOut: `"check": "revenue_trend"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append(tt.args, "--json")...)
			assert.Equal(t, tt.wantCode, exitCode(err))
			assert.Contains(t, stdout, tt.wantOut)
		})
	}

	t.Run("UnknownCheck", func(t *testing.T) {
		_, _, err := execute(t, "reconcile", "--check=nope", "1", "2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown check")
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		_, _, err := execute(t, "reconcile", "abc", "2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "first figure")
	})

	t.Run("InvertedBand", func(t *testing.T) {
		_, _, err := execute(t, "reconcile", "--warn=20", "--error=10", "1", "2")
		assert.Error(t, err)
	})
}

func TestScoreCmd(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"signals.yaml": "supplier_vtr_listed: true\nba_bs_mismatch: {value: true, evidence: Ba formu 3 faturada farklı}\npayment_not_via_bank: false\n",
		"unknown.yaml": "not_a_signal: true\n",
	})

	t.Run("ScoresKnownSignals", func(t *testing.T) {
		stdout, _, err := execute(t, "score", "kurgan", filepath.Join(dir, "signals.yaml"), "--json")
		assert.NoError(t, err)

		var result risk.Result
		assert.NoError(t, json.Unmarshal([]byte(stdout), &result))
		// 20 + 8, less a quarter of 7 for the bank payment.
		assert.Equal(t, 26, result.Score)
		assert.Equal(t, risk.LevelLow, result.Level)
		assert.Equal(t, 3, len(result.Reasons))
	})

	t.Run("TextOutput", func(t *testing.T) {
		stdout, _, err := execute(t, "score", "kurgan", filepath.Join(dir, "signals.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Skor 26/100")
		assert.Contains(t, stdout, "Ba formu 3 faturada farklı")
	})

	t.Run("UnknownSignal", func(t *testing.T) {
		_, stderr, err := execute(t, "score", "kurgan", filepath.Join(dir, "unknown.yaml"))
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, stderr, "not_a_signal")
	})

	t.Run("UnknownDomain", func(t *testing.T) {
		_, _, err := execute(t, "score", "vergi", filepath.Join(dir, "signals.yaml"))
		assert.Error(t, err)
	})
}

func TestAnalyzeCmd(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"clean.yaml":   cleanBundle,
		"problem.yaml": problemBundle,
	})

	t.Run("JSONReport", func(t *testing.T) {
		stdout, _, err := execute(t, "analyze", "--format=json", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)

		var report engine.Report
		assert.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, "acme", report.ClientID)
		assert.Equal(t, reconcile.StatusOK, report.TrialBalance.Status)
		assert.Equal(t, 0, len(report.Violations))
		assert.Equal(t, 3, len(report.Scores))
		assert.NotZero(t, report.Fingerprint)
	})

	t.Run("TextReport", func(t *testing.T) {
		stdout, _, err := execute(t, "analyze", filepath.Join(dir, "problem.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stdout, "beta 2024-03")
		assert.Contains(t, stdout, "RADAR")
		assert.Contains(t, stdout, "cash_reversed_balance")
	})

	t.Run("FailOnSeverity", func(t *testing.T) {
		_, _, err := execute(t, "analyze", "--fail-on=critical", filepath.Join(dir, "problem.yaml"))
		assert.Equal(t, 1, exitCode(err))

		_, _, err = execute(t, "analyze", "--fail-on=critical", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
	})

	t.Run("UnknownFailOn", func(t *testing.T) {
		_, _, err := execute(t, "analyze", "--fail-on=severe", filepath.Join(dir, "clean.yaml"))
		assert.Error(t, err)
	})

	t.Run("MetricsFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mizan.prom")
		_, _, err := execute(t, "analyze", "--metrics-file="+path, filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Contains(t, string(data), "mizan_")
	})

	t.Run("Telemetry", func(t *testing.T) {
		_, stderr, err := execute(t, "--telemetry", "analyze", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stderr, "analyze clean.yaml")
		assert.Contains(t, stderr, "engine.validate")
	})
}

func TestBatchCmd(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a-clean.yaml":   cleanBundle,
		"b-problem.yaml": problemBundle,
		"notes.txt":      "ignored",
	})

	t.Run("Summary", func(t *testing.T) {
		stdout, stderr, err := execute(t, "batch", "--workers=2", dir)
		assert.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		assert.Equal(t, 3, len(lines))
		assert.Contains(t, lines[0], "KURGAN")
		assert.Contains(t, lines[1], "a-clean.yaml")
		assert.Contains(t, lines[2], "b-problem.yaml")
		assert.Contains(t, lines[2], "critical")
		assert.Contains(t, stderr, "Analysed 2 bundle(s)")
	})

	t.Run("JSON", func(t *testing.T) {
		stdout, _, err := execute(t, "batch", "--format=json", dir)
		assert.NoError(t, err)

		var entries []batchEntry
		assert.NoError(t, json.Unmarshal([]byte(stdout), &entries))
		assert.Equal(t, 2, len(entries))
		assert.Equal(t, "acme", entries[0].Report.ClientID)
		assert.Equal(t, "beta", entries[1].Report.ClientID)
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		_, stderr, err := execute(t, "batch", t.TempDir())
		assert.NoError(t, err)
		assert.Contains(t, stderr, "No bundles found")
	})
}

func TestRulesCmd(t *testing.T) {
	stdout, _, err := execute(t, "rules", "10")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Kasa")
	assert.Contains(t, stdout, "Bankalar")
	assert.NotContains(t, stdout, "Satıcılar")
}

func TestConfigInitCmd(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		stdout, _, err := execute(t, "config", "init", "-")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "balance_tolerance")
	})

	t.Run("WritesFileAndLoadsIt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mizan.yaml")
		_, _, err := execute(t, "config", "init", path)
		assert.NoError(t, err)

		stdout, _, err := execute(t, "--config="+path, "rules", "100")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Kasa")
	})

	t.Run("AsksBeforeOverwriting", func(t *testing.T) {
		var asked string
		confirmOverwrite = func(question string) (bool, error) {
			asked = question
			return false, nil
		}
		t.Cleanup(func() { confirmOverwrite = promptYesNo })

		path := filepath.Join(t.TempDir(), "mizan.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

		_, _, err := execute(t, "config", "init", path)
		assert.Equal(t, 1, exitCode(err))
		assert.Contains(t, asked, "exists")

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, "workers: 2\n", string(data))

		_, _, err = execute(t, "config", "init", "--force", path)
		assert.NoError(t, err)
	})
}

func TestDoctorCmd(t *testing.T) {
	dir := writeFiles(t, map[string]string{"clean.yaml": cleanBundle})

	t.Run("Dump", func(t *testing.T) {
		stdout, _, err := execute(t, "doctor", "dump", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
		assert.Contains(t, stdout, "acme")
		assert.Contains(t, stdout, "Yurtiçi Satışlar")
	})

	t.Run("Config", func(t *testing.T) {
		stdout, _, err := execute(t, "doctor", "config")
		assert.NoError(t, err)
		assert.Contains(t, stdout, `balance_tolerance: "1"`)
		assert.Contains(t, stdout, "level: info")
	})

	t.Run("ConfigWithPartialCheckOverride", func(t *testing.T) {
		cfgDir := writeFiles(t, map[string]string{"cfg.yaml": "checks:\n  revenue_trend:\n    warn_percent: 2\n"})

		stdout, _, err := execute(t, "--config", filepath.Join(cfgDir, "cfg.yaml"), "doctor", "config")
		assert.NoError(t, err)
		assert.Contains(t, stdout, "revenue_trend:")
		assert.Contains(t, stdout, `warn_percent: "2"`)
		assert.NotContains(t, stdout, "absolute")
	})

	t.Run("HashIsStable", func(t *testing.T) {
		first, _, err := execute(t, "doctor", "hash", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
		second, _, err := execute(t, "doctor", "hash", filepath.Join(dir, "clean.yaml"))
		assert.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 17, len(first))
	})
}
