package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/coinfolio"
	"github.com/etnz/coinfolio/renderer"
)

// tradeCmd records a buy or a sell.
type tradeCmd struct {
	typ    coinfolio.TxType
	asset  string
	amount string
	price  string
	date   string
	notes  string
}

func (c *tradeCmd) Name() string { return c.typ.String() }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("record a %s transaction", c.typ)
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`coin %s -a <asset> -q <amount> -p <price> [-d <date>] [-m <notes>]

  Records a %s of an asset. Amount and price are decimals, the price is per unit.
  A sell cannot exceed the quantity held at its date.
`, c.typ, c.typ)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "a", "", "Asset ID, e.g. BTC")
	f.StringVar(&c.amount, "q", "", "Number of units traded")
	f.StringVar(&c.price, "p", "", "Price per unit")
	f.StringVar(&c.date, "d", "", "Date of the trade (YYYY-MM-DD or RFC3339). Defaults to now.")
	f.StringVar(&c.notes, "m", "", "Free text notes")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.asset == "" || c.amount == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -a, -q and -p are required")
		return subcommands.ExitUsageError
	}
	amount, err := coinfolio.ParseQuantity(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := coinfolio.ParseMoney(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	at, err := parseTime(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx, err := coinfolio.NewTransaction(c.asset, c.typ, amount, price, at, c.notes)
	if err != nil {
		return exitStatus(err)
	}

	a, err := openApp()
	if err != nil {
		return exitStatus(err)
	}
	defer a.close()

	if err := a.as.Record(ctx, tx); err != nil {
		return exitStatus(err)
	}
	fmt.Printf("%s (%s)\n", renderer.Transaction(tx, a.cfg.Report.Currency), tx.ID)
	return subcommands.ExitSuccess
}
