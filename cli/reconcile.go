package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/mizanlab/mizan/ledger"
	"github.com/mizanlab/mizan/output"
	"github.com/mizanlab/mizan/reconcile"
)

// ReconcileCmd compares two figures ad hoc.
type ReconcileCmd struct {
	A string `arg:"" help:"First figure; 1.234,56 and 1234.56 are both accepted, as are sums such as '36.000,00 + 1.250,50'."`
	B string `arg:"" help:"Second figure."`

	Check    string `help:"Use the labels and tolerance of a configured check." placeholder:"NAME"`
	LabelA   string `help:"Label of the first figure." default:"A"`
	LabelB   string `help:"Label of the second figure." default:"B"`
	Absolute string `help:"Absolute tolerance; overrides the check's."`
	Warn     string `help:"Warning threshold in percent; overrides the check's."`
	Error    string `help:"Error threshold in percent; overrides the check's."`
	JSON     bool   `help:"Print the result as JSON."`
}

func (cmd *ReconcileCmd) Run(ctx *kong.Context, globals *Globals) error {
	a, err := ledger.EvaluateAmount(cmd.A)
	if err != nil {
		return fmt.Errorf("first figure: %w", err)
	}
	b, err := ledger.EvaluateAmount(cmd.B)
	if err != nil {
		return fmt.Errorf("second figure: %w", err)
	}

	check, err := cmd.resolveCheck(globals)
	if err != nil {
		return err
	}

	result := reconcile.Reconcile(check, a, b)

	if cmd.JSON {
		if err := writeJSON(ctx.Stdout, result); err != nil {
			return err
		}
	} else {
		writeReconciliations(ctx.Stdout, output.NewStyles(ctx.Stdout), []reconcile.Result{result})
		_, _ = fmt.Fprintln(ctx.Stdout, result.Explanation)
	}

	if result.Status == reconcile.StatusError {
		return NewCommandError(1)
	}
	return nil
}

func (cmd *ReconcileCmd) resolveCheck(globals *Globals) (reconcile.Check, error) {
	check := reconcile.Check{
		Name:      "adhoc",
		LabelA:    cmd.LabelA,
		LabelB:    cmd.LabelB,
		Tolerance: reconcile.DefaultTolerance,
	}

	if cmd.Check != "" {
		cfg, err := globals.loadConfig()
		if err != nil {
			return check, err
		}
		checks, err := cfg.ReconcileChecks()
		if err != nil {
			return check, err
		}
		found := false
		for _, c := range checks {
			if c.Name == cmd.Check {
				check, found = c, true
				break
			}
		}
		if !found {
			return check, reconcile.NewInvalidCheckError(cmd.Check, "unknown check")
		}
	}

	overrides := []struct {
		value  string
		target *decimal.Decimal
		name   string
	}{
		{cmd.Absolute, &check.Tolerance.Absolute, "absolute"},
		{cmd.Warn, &check.Tolerance.WarnPercent, "warn"},
		{cmd.Error, &check.Tolerance.ErrorPercent, "error"},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		d, err := ledger.ParseAmount(o.value)
		if err != nil {
			return check, fmt.Errorf("--%s: %w", o.name, err)
		}
		*o.target = d
	}

	if err := reconcile.ValidateChecks([]reconcile.Check{check}); err != nil {
		return check, err
	}
	return check, nil
}
