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

type txCmd struct {
	asset string
	open  bool
	head  int
	tail  int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `coin tx [-a <asset> [-open]] [-head <n>] [-tail <n>]

  Lists transactions in chronological order.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.asset, "a", "", "Only list transactions of this asset.")
	f.BoolVar(&p.open, "open", false, "Only list the transactions of the current open cycle. Requires -a.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	if p.open && p.asset == "" {
		fmt.Fprintln(os.Stderr, "Error: -open requires -a.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return exitStatus(err)
	}
	defer a.close()

	txs, err := a.as.Transactions(ctx, coinfolio.NormalizeAsset(p.asset))
	if err != nil {
		return exitStatus(err)
	}
	if p.open {
		txs = coinfolio.OpenCycle(txs)
	}
	printMarkdown(renderer.TransactionsMarkdown(limit(txs, p.head, p.tail), a.cfg.Report.Currency))
	return subcommands.ExitSuccess
}

// limit keeps the first head or the last tail elements, when set.
func limit[T any](s []T, head, tail int) []T {
	if head > 0 && head < len(s) {
		return s[:head]
	}
	if tail > 0 && tail < len(s) {
		return s[len(s)-tail:]
	}
	return s
}
