package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/loader"
	"github.com/mizanlab/mizan/metrics"
	"github.com/mizanlab/mizan/output"
)

// AnalyzeCmd runs the full analysis of one bundle.
type AnalyzeCmd struct {
	File        FileOrStdin `help:"Bundle filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Format      string      `help:"Output format." enum:"text,json" default:"text" short:"f"`
	Strict      bool        `help:"Reject unknown bundle keys."`
	FailOn      string      `help:"Exit with code 1 when a finding reaches this severity (low, medium, high, critical)." placeholder:"SEVERITY"`
	Watch       bool        `help:"Re-run the analysis whenever the bundle or its files change." short:"w"`
	MetricsFile string      `help:"Write Prometheus metrics in text format to this file." type:"path"`
}

func (cmd *AnalyzeCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	switch ledger.Severity(cmd.FailOn) {
	case "", ledger.SeverityLow, ledger.SeverityMedium, ledger.SeverityHigh, ledger.SeverityCritical:
	default:
		return fmt.Errorf("--fail-on: unknown severity %q", cmd.FailOn)
	}
	if cmd.Watch && cmd.File.IsStdin() {
		return errors.New("--watch needs a bundle file, not stdin")
	}

	var m *metrics.Metrics
	if cmd.MetricsFile != "" {
		m = metrics.New()
	}
	opts := []engine.Option{engine.WithMetrics(m)}
	if cmd.Watch {
		opts = append(opts, engine.WithCache(engine.NewCache(engine.DefaultCacheSize)))
	}

	cfg, log, err := globals.setup()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg, log, opts...)
	if err != nil {
		return err
	}

	var ldrOpts []loader.Option
	if cmd.Strict {
		ldrOpts = append(ldrOpts, loader.WithStrict())
	}
	ldr := loader.New(ldrOpts...)

	runCtx, reportTelemetry := globals.startTelemetry(context.Background(), ctx.Stderr,
		fmt.Sprintf("analyze %s", filepath.Base(cmd.File.Filename)))

	report, paths, err := cmd.analyze(runCtx, ctx, eng, ldr)
	reportTelemetry()
	if err != nil && !cmd.Watch {
		return err
	}
	if err := cmd.writeMetrics(m); err != nil {
		return err
	}

	if !cmd.Watch {
		if cmd.failed(report) {
			return NewCommandError(1)
		}
		return nil
	}
	if len(paths) == 0 {
		paths = []string{cmd.File.GetAbsoluteFilename()}
	}

	watchCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reloads may overlap with a slow analysis; keep output whole.
	var mu sync.Mutex
	watcher, err := newFileWatcher(log, func(reloadCtx context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()

		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stdout, "Change detected, re-running analysis")
		_, paths, err := cmd.analyze(reloadCtx, ctx, eng, ldr)
		if werr := cmd.writeMetrics(m); werr != nil {
			log.WithError(werr).Warn("Failed to write metrics")
		}
		return paths, err
	})
	if err != nil {
		return err
	}
	watcher.watch(paths)

	printInfof(ctx.Stderr, "Watching %d file(s); press Ctrl+C to stop", len(paths))
	watcher.run(watchCtx)
	return nil
}

// analyze loads and analyses the bundle and prints the report. Load and analysis
// errors are rendered; in watch mode they are not fatal.
func (cmd *AnalyzeCmd) analyze(runCtx context.Context, ctx *kong.Context, eng *engine.Engine, ldr *loader.Loader) (*engine.Report, []string, error) {
	result, err := cmd.File.LoadBundle(runCtx, ldr)
	if err != nil {
		return nil, nil, cmd.failure(ctx, err, "load error")
	}
	paths := result.Paths()
	if cmd.File.IsStdin() {
		paths = result.Files
	}

	report, err := eng.Analyze(runCtx, result.Input)
	if err != nil {
		return nil, paths, cmd.failure(ctx, err, "analysis failed")
	}

	if cmd.Format == "json" {
		if err := writeJSON(ctx.Stdout, report); err != nil {
			return nil, paths, err
		}
	} else {
		writeReport(ctx.Stdout, output.NewStyles(ctx.Stdout), report)
	}
	return report, paths, nil
}

func (cmd *AnalyzeCmd) failure(ctx *kong.Context, err error, summary string) error {
	rendered := renderFailure(ctx, cmd.File.Contents, err, summary)
	if cmd.Watch {
		return err
	}
	return rendered
}

func (cmd *AnalyzeCmd) failed(r *engine.Report) bool {
	if cmd.FailOn == "" {
		return false
	}
	return r.HighestSeverity().Rank() >= ledger.Severity(cmd.FailOn).Rank()
}

func (cmd *AnalyzeCmd) writeMetrics(m *metrics.Metrics) error {
	if m == nil {
		return nil
	}
	if err := m.WriteTextfile(cmd.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
