package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/mizanlab/mizan/loader"
)

// DoctorCmd provides utilities for debugging inputs and configuration.
type DoctorCmd struct {
	Dump   DumpCmd         `cmd:"" help:"Show the engine input a bundle resolves to."`
	Config DoctorConfigCmd `cmd:"" help:"Show the effective configuration."`
	Hash   HashCmd         `cmd:"" help:"Show the fingerprint a bundle is cached under."`
}

// DumpCmd prints the resolved input of a bundle.
type DumpCmd struct {
	File FileOrStdin `help:"Bundle filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *DumpCmd) Run(ctx *kong.Context) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	result, err := cmd.File.LoadBundle(context.Background(), loader.New())
	if err != nil {
		return renderFailure(ctx, cmd.File.Contents, err, "load error")
	}

	for _, f := range result.Files {
		_, _ = fmt.Fprintf(ctx.Stdout, "# %s\n", f)
	}
	repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(result.Input)
	return nil
}

// DoctorConfigCmd prints the configuration after defaults and validation, in the
// same YAML form a config file uses.
type DoctorConfigCmd struct{}

func (cmd *DoctorConfigCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	return cfg.Write(ctx.Stdout)
}

// HashCmd prints the fingerprint of a bundle under the effective configuration.
type HashCmd struct {
	File FileOrStdin `help:"Bundle filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *HashCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, log, err := globals.setup()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	result, err := cmd.File.LoadBundle(context.Background(), loader.New())
	if err != nil {
		return renderFailure(ctx, cmd.File.Contents, err, "load error")
	}

	hash, err := eng.Fingerprint(result.Input)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stdout, hash)
	return nil
}
