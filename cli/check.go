package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/loader"
	"github.com/mizanlab/mizan/output"
	"github.com/mizanlab/mizan/reconcile"
	"github.com/mizanlab/mizan/telemetry"
)

type CheckCmd struct {
	File   FileOrStdin `help:"Bundle filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Strict bool        `help:"Reject unknown bundle keys."`
}

// Run validates account balances and the trial balance. Findings exit with code 1.
func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	rules, err := cfg.RuleTable()
	if err != nil {
		return err
	}

	runCtx, reportTelemetry := globals.startTelemetry(context.Background(), ctx.Stderr,
		fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
	defer reportTelemetry()

	var opts []loader.Option
	if cmd.Strict {
		opts = append(opts, loader.WithStrict())
	}

	_, loadTimer := telemetry.StartTimer(runCtx, "loader.load")
	result, err := cmd.File.LoadBundle(runCtx, loader.New(opts...))
	loadTimer.End()
	if err != nil {
		return renderFailure(ctx, cmd.File.Contents, err, "load error")
	}

	accounts := result.Input.Accounts
	if err := ledger.CheckAccounts(accounts); err != nil {
		return renderFailure(ctx, cmd.File.Contents, err, "invalid trial balance")
	}

	if len(accounts) == 0 {
		printWarning(ctx.Stderr, "Bundle has no accounts; nothing to check")
		return nil
	}

	_, validateTimer := telemetry.StartTimer(runCtx, "ledger.validate")
	violations := ledger.Validate(accounts, rules, ledger.WithTolerance(cfg.BalanceTolerance))
	trial := reconcile.CheckAccountsTrialBalance(accounts, cfg.TrialBalanceTolerance)
	validateTimer.End()

	styles := output.NewStyles(ctx.Stdout)
	writeTrialBalance(ctx.Stdout, styles, trial)
	writeViolations(ctx.Stdout, styles, violations)
	_, _ = fmt.Fprintln(ctx.Stdout)

	if len(violations) > 0 || !trial.OK() {
		printError(ctx.Stderr, fmt.Sprintf("%d balance violation(s) found", len(violations)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, "Check passed")
	return nil
}

// renderFailure prints err with source context and returns exit code 1.
func renderFailure(ctx *kong.Context, source []byte, err error, summary string) error {
	errs := Flatten(err)
	renderer := NewErrorRenderer(source)
	_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(errs))

	_, _ = fmt.Fprintln(ctx.Stderr)
	if len(errs) > 1 {
		summary = fmt.Sprintf("%s: %d error(s)", summary, len(errs))
	}
	printError(ctx.Stderr, summary)
	return NewCommandError(1)
}
