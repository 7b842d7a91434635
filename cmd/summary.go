package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/coinfolio/renderer"
)

type summaryCmd struct {
	currency string
	full     bool
	json     bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio P&L" }
func (*summaryCmd) Usage() string {
	return `coin summary [-c <currency>] [-full] [-json]

  Displays the total value, unrealized and realized P&L across all assets.
  With -full, holdings and closed positions follow.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency used to format amounts. Defaults to report.currency.")
	f.BoolVar(&c.full, "full", false, "Also display holdings and closed positions.")
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		if c.full {
			return exitStatus(printJSON(report))
		}
		return exitStatus(printJSON(report.Summary))
	}

	currency := currencyOr(c.currency, a.cfg.Report.Currency)
	if c.full {
		printMarkdown(renderer.ReportMarkdown(report, currency))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SummaryMarkdown(report.Summary, currency))
	return subcommands.ExitSuccess
}
