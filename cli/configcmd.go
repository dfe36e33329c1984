package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/config"
)

// confirmOverwrite asks before replacing an existing file.
var confirmOverwrite = promptYesNo

// ConfigCmd groups configuration utilities.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write an annotated default configuration file."`
}

// ConfigInitCmd writes the default configuration.
type ConfigInitCmd struct {
	Path  string `arg:"" optional:"" default:"mizan.yaml" help:"Where to write the configuration ('-' for stdout)."`
	Force bool   `help:"Overwrite an existing file without asking."`
}

func (cmd *ConfigInitCmd) Run(ctx *kong.Context) error {
	if cmd.Path == "-" {
		return config.WriteDefault(ctx.Stdout)
	}

	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Force {
		ok, err := confirmOverwrite(fmt.Sprintf("%s exists. Overwrite?", cmd.Path))
		if err != nil {
			return err
		}
		if !ok {
			printWarning(ctx.Stderr, fmt.Sprintf("Left %s unchanged (use --force to overwrite)", pathStyle.Render(cmd.Path)))
			return NewCommandError(1)
		}
	}

	var buf bytes.Buffer
	if err := config.WriteDefault(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Path, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %s", pathStyle.Render(cmd.Path)))
	return nil
}
