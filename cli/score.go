package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/mizanlab/mizan/output"
	"github.com/mizanlab/mizan/risk"
)

// ScoreCmd scores a signal file against one domain's weight table.
type ScoreCmd struct {
	Domain string      `arg:"" help:"Scoring domain (kurgan, smiyb, radar or a configured one)."`
	File   FileOrStdin `arg:"" optional:"" help:"Signals as a YAML or JSON mapping of signal to value (use '-' for stdin)."`
	JSON   bool        `help:"Print the result as JSON."`
}

func (cmd *ScoreCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	data, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read signals: %w", err)
	}
	signals, err := decodeSignals(data)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.File.Filename, err)
	}

	result, err := registry.Score(cmd.Domain, signals)
	if err != nil {
		return renderFailure(ctx, data, err, "scoring failed")
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, result)
	}
	writeScore(ctx.Stdout, output.NewStyles(ctx.Stdout), result)
	return nil
}

// decodeSignals reads a signal mapping. YAML is a superset of JSON, so one decoder
// serves both.
func decodeSignals(data []byte) (map[string]risk.Observation, error) {
	signals := map[string]risk.Observation{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&signals); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid signals: %w", err)
	}
	return signals, nil
}
