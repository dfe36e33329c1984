package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mizanlab/mizan/config"
	"github.com/mizanlab/mizan/engine"
	"github.com/mizanlab/mizan/logger"
	"github.com/mizanlab/mizan/output"
	"github.com/mizanlab/mizan/telemetry"
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry  bool   `help:"Show timing telemetry for operations."`
	ConfigFile string `name:"config" help:"Configuration file (.yaml, .yml or .toml)." short:"c" type:"path" env:"MIZAN_CONFIG"`
	LogLevel   string `help:"Log level (debug, info, warn, error); overrides the configuration."`
	LogFile    string `help:"Also write logs to this file; overrides the configuration." type:"path"`
}

type Commands struct {
	Globals

	Check     CheckCmd     `cmd:"" help:"Validate account balances and the trial balance of a bundle."`
	Reconcile ReconcileCmd `cmd:"" help:"Compare two figures with a tolerance band."`
	Score     ScoreCmd     `cmd:"" help:"Score a set of signals for one domain."`
	Analyze   AnalyzeCmd   `cmd:"" help:"Run the full analysis of a bundle."`
	Batch     BatchCmd     `cmd:"" help:"Analyse every bundle in a directory."`
	Rules     RulesCmd     `cmd:"" help:"Print the chart-of-accounts rule table."`
	Config    ConfigCmd    `cmd:"" help:"Configuration utilities."`
	Doctor    DoctorCmd    `cmd:"" help:"Doctor utilities for debugging inputs."`
}

// loadConfig returns the configuration named by --config, or the defaults.
func (g *Globals) loadConfig() (*config.Config, error) {
	if g.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(g.ConfigFile)
}

// newLogger builds the logger from flags, falling back to the configuration.
func (g *Globals) newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, file := cfg.Log.Level, cfg.Log.File
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	if g.LogFile != "" {
		file = g.LogFile
	}
	return logger.New(level, file)
}

// setup loads the configuration and builds the logger.
func (g *Globals) setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := g.newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newEngine(cfg *config.Config, log logrus.FieldLogger, opts ...engine.Option) (*engine.Engine, error) {
	return engine.FromConfig(cfg, append([]engine.Option{engine.WithLogger(log)}, opts...)...)
}

// startTelemetry attaches a collector with a root timer when --telemetry is set.
// The returned function ends the timer and prints the report once.
func (g *Globals) startTelemetry(ctx context.Context, w io.Writer, name string) (context.Context, func()) {
	if !g.Telemetry {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector()
	ctx = telemetry.WithCollector(ctx, collector)
	ctx, timer := telemetry.StartTimer(ctx, name)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			timer.End()
			_, _ = fmt.Fprintln(w)
			collector.Report(w, output.NewStyles(w))
		})
	}
}
