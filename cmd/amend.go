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

type amendCmd struct {
	typ    string
	asset  string
	amount string
	price  string
	date   string
	notes  string
}

func (*amendCmd) Name() string     { return "amend" }
func (*amendCmd) Synopsis() string { return "edit a recorded transaction" }
func (*amendCmd) Usage() string {
	return `coin amend [-t buy|sell] [-a <asset>] [-q <amount>] [-p <price>] [-d <date>] [-m <notes>] <id>

  Replaces the fields given as flags in the transaction <id>. A unique prefix
  of the ID is enough. The edited history must still be valid.
`
}

func (c *amendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "", "New type, buy or sell")
	f.StringVar(&c.asset, "a", "", "New asset ID")
	f.StringVar(&c.amount, "q", "", "New number of units")
	f.StringVar(&c.price, "p", "", "New price per unit")
	f.StringVar(&c.date, "d", "", "New date (YYYY-MM-DD or RFC3339)")
	f.StringVar(&c.notes, "m", "", "New notes")
}

// apply returns tx with the flags that were set.
func (c *amendCmd) apply(tx coinfolio.Transaction) (coinfolio.Transaction, error) {
	if c.typ != "" {
		typ, err := coinfolio.ParseTxType(c.typ)
		if err != nil {
			return tx, err
		}
		tx.Type = typ
	}
	if c.asset != "" {
		tx.AssetID = coinfolio.NormalizeAsset(c.asset)
	}
	if c.amount != "" {
		q, err := coinfolio.ParseQuantity(c.amount)
		if err != nil {
			return tx, fmt.Errorf("invalid amount: %w", err)
		}
		tx.Amount = q
	}
	if c.price != "" {
		p, err := coinfolio.ParseMoney(c.price)
		if err != nil {
			return tx, fmt.Errorf("invalid price: %w", err)
		}
		tx.PricePerUnit = p
	}
	if c.date != "" {
		at, err := parseTime(c.date)
		if err != nil {
			return tx, err
		}
		if err := coinfolio.CheckTimestamp(at); err != nil {
			return tx, err
		}
		tx.Timestamp = at
	}
	if c.notes != "" {
		tx.Notes = c.notes
	}
	return tx, tx.Validate()
}

func (c *amendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: amend takes exactly one transaction ID")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return exitStatus(err)
	}
	defer a.close()

	tx, err := findTransaction(ctx, a.as, f.Arg(0))
	if err != nil {
		return exitStatus(err)
	}
	edited, err := c.apply(tx)
	if err != nil {
		return exitStatus(err)
	}
	if err := a.as.Record(ctx, edited); err != nil {
		return exitStatus(err)
	}
	fmt.Printf("%s (%s)\n", renderer.Transaction(edited, a.cfg.Report.Currency), edited.ID)
	return subcommands.ExitSuccess
}
