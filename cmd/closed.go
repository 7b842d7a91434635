package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/coinfolio/renderer"
)

type closedCmd struct {
	currency string
	details  bool
	json     bool
}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "display closed positions and their realized P&L" }
func (*closedCmd) Usage() string {
	return `coin closed [-c <currency>] [-details] [-json]

  Displays the trading cycles that went back to zero, grouped by asset, most
  recently closed first.
`
}

func (c *closedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency used to format amounts. Defaults to report.currency.")
	f.BoolVar(&c.details, "details", false, "List every cycle of each asset.")
	f.BoolVar(&c.json, "json", false, "Print the groups as JSON.")
}

func (c *closedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return exitStatus(err)
	}
	defer a.close()

	report, err := a.as.Report(ctx)
	if err != nil {
		return exitStatus(err)
	}
	if c.json {
		return exitStatus(printJSON(report.Groups))
	}
	printMarkdown(renderer.ClosedMarkdown(report.Groups, currencyOr(c.currency, a.cfg.Report.Currency), c.details))
	return subcommands.ExitSuccess
}
