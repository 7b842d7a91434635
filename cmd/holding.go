package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/coinfolio/renderer"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	currency string
	json     bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the open positions valued at current prices" }
func (*holdingCmd) Usage() string {
	return `coin holding [-c <currency>] [-json]

  Displays the open positions, their weighted-average cost basis and their
  unrealized P&L. Assets missing from the price file are not listed.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency used to format amounts. Defaults to report.currency.")
	f.BoolVar(&c.json, "json", false, "Print the holdings as JSON.")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		return exitStatus(printJSON(report.Holdings))
	}
	printMarkdown(renderer.HoldingsMarkdown(report, currencyOr(c.currency, a.cfg.Report.Currency)))
	return subcommands.ExitSuccess
}

func currencyOr(override, cfg string) string {
	if override != "" {
		return override
	}
	return cfg
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
