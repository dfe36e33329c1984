package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mizanlab/mizan/output"
)

// RulesCmd prints the effective chart-of-accounts rules.
type RulesCmd struct {
	Prefix string `arg:"" optional:"" help:"Only show rules whose prefix starts with this."`
	JSON   bool   `help:"Print the rules as JSON."`
}

func (cmd *RulesCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	table, err := cfg.RuleTable()
	if err != nil {
		return renderFailure(ctx, nil, err, "invalid rules")
	}

	rules := table.Rules()[:0:0]
	for _, r := range table.Rules() {
		if strings.HasPrefix(r.CodePrefix, cmd.Prefix) {
			rules = append(rules, r)
		}
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, rules)
	}

	s := output.NewStyles(ctx.Stdout)
	t := output.NewTable(output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft, output.AlignLeft)
	for _, r := range rules {
		negative := ""
		if r.AllowNegative {
			negative = "eksi olabilir"
		}
		t.Add(r.CodePrefix, r.Name, r.Direction.Turkish(), string(r.Group), negative)
	}
	for _, row := range t.Rows() {
		_, _ = fmt.Fprintf(ctx.Stdout, "%s  %s  %s  %s  %s\n",
			s.Account(row[0]), row[1], row[2], s.Dim(row[3]), strings.TrimRight(row[4], " "))
	}
	return nil
}
