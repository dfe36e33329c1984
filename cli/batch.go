package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/loader"
	"github.com/mizanlab/mizan/metrics"
	"github.com/mizanlab/mizan/output"
)

// BatchCmd analyses every bundle in a directory concurrently.
type BatchCmd struct {
	Dir         string `arg:"" help:"Directory of bundle files (.yaml, .yml, .json)." type:"existingdir"`
	Workers     int    `help:"Concurrent analyses; zero uses the configuration, then one per CPU." default:"0"`
	Format      string `help:"Output format." enum:"text,json" default:"text" short:"f"`
	Strict      bool   `help:"Reject unknown bundle keys."`
	MetricsFile string `help:"Write Prometheus metrics in text format to this file." type:"path"`
}

type batchEntry struct {
	File   string         `json:"file"`
	Report *engine.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (cmd *BatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, log, err := globals.setup()
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cmd.MetricsFile != "" {
		m = metrics.New()
	}
	eng, err := newEngine(cfg, log, engine.WithMetrics(m))
	if err != nil {
		return err
	}

	runCtx, reportTelemetry := globals.startTelemetry(context.Background(), ctx.Stderr,
		fmt.Sprintf("batch %s", filepath.Base(cmd.Dir)))
	defer reportTelemetry()

	var ldrOpts []loader.Option
	if cmd.Strict {
		ldrOpts = append(ldrOpts, loader.WithStrict())
	}
	loaded, err := loader.New(ldrOpts...).LoadDir(runCtx, cmd.Dir)
	if err != nil {
		return renderFailure(ctx, nil, err, "load error")
	}
	if len(loaded) == 0 {
		printWarning(ctx.Stderr, fmt.Sprintf("No bundles found in %s", pathStyle.Render(cmd.Dir)))
		return nil
	}

	inputs := make([]engine.Input, len(loaded))
	for i, r := range loaded {
		inputs[i] = r.Input
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	results, err := eng.Batch(runCtx, inputs, workers)
	if err != nil {
		return err
	}

	entries := make([]batchEntry, len(results))
	failures := 0
	for i, res := range results {
		entries[i] = batchEntry{File: filepath.Base(loaded[i].Root), Report: res.Report}
		if res.Err != nil {
			entries[i].Error = res.Err.Error()
			failures++
		}
	}

	if m != nil {
		if err := m.WriteTextfile(cmd.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if cmd.Format == "json" {
		if err := writeJSON(ctx.Stdout, entries); err != nil {
			return err
		}
	} else {
		writeBatchSummary(ctx, entries, eng.Registry().Domains())
	}

	if failures > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d of %d analyses failed", failures, len(entries)))
		return NewCommandError(1)
	}
	printSuccess(ctx.Stderr, fmt.Sprintf("Analysed %d bundle(s)", len(entries)))
	return nil
}

func writeBatchSummary(ctx *kong.Context, entries []batchEntry, domains []string) {
	s := output.NewStyles(ctx.Stdout)

	aligns := []output.Align{output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight}
	header := []string{"FILE", "CLIENT", "TRIAL", "VIOLATIONS", "MISMATCHES"}
	for _, d := range domains {
		aligns = append(aligns, output.AlignRight)
		header = append(header, strings.ToUpper(d))
	}
	aligns = append(aligns, output.AlignLeft)
	header = append(header, "SEVERITY")

	t := output.NewTable(aligns...).MaxWidth(32)
	t.Add(header...)
	for _, e := range entries {
		if e.Report == nil {
			row := []string{e.File, "-", "-", "-", "-"}
			for range domains {
				row = append(row, "-")
			}
			t.Add(append(row, "failed")...)
			continue
		}
		r := e.Report
		row := []string{
			e.File,
			strings.TrimSpace(r.ClientID + " " + r.Period),
			string(r.TrialBalance.Status),
			strconv.Itoa(len(r.Violations)),
			strconv.Itoa(len(r.Mismatches())),
		}
		for _, d := range domains {
			if score, ok := r.Score(d); ok {
				row = append(row, fmt.Sprintf("%d %s", score.Score, score.Level))
			} else {
				row = append(row, "-")
			}
		}
		t.Add(append(row, string(r.HighestSeverity()))...)
	}

	for i, row := range t.Rows() {
		line := strings.TrimRight(strings.Join(row, "  "), " ")
		switch {
		case i == 0:
			line = s.Keyword(line)
		case entries[i-1].Report == nil:
			line = s.Error(line)
		}
		_, _ = fmt.Fprintln(ctx.Stdout, line)
	}

	for _, e := range entries {
		if e.Error != "" {
			_, _ = fmt.Fprintf(ctx.Stderr, "%s: %s\n", s.FilePath(e.File), e.Error)
		}
	}
}
