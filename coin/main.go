// Command coin keeps a ledger of crypto trades and reports their P&L.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/coinfolio/cmd"
)

func main() {
	completion().Complete("coin")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion
// (COMP_INSTALL=1 coin to install it).
func completion() *complete.Command {
	trade := &complete.Command{Flags: map[string]complete.Predictor{
		"a": predict.Nothing,
		"q": predict.Nothing,
		"p": predict.Nothing,
		"d": predict.Nothing,
		"m": predict.Nothing,
	}}
	currency := map[string]complete.Predictor{
		"c":    predict.Set{"USD", "EUR", "GBP", "JPY", "CHF"},
		"json": predict.Nothing,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
		},
		Sub: map[string]*complete.Command{
			"buy":  trade,
			"sell": trade,
			"amend": {Flags: map[string]complete.Predictor{
				"t": predict.Set{"buy", "sell"},
				"a": predict.Nothing,
				"q": predict.Nothing,
				"p": predict.Nothing,
				"d": predict.Nothing,
				"m": predict.Nothing,
			}},
			"rm": {},
			"tx": {Flags: map[string]complete.Predictor{
				"a":    predict.Nothing,
				"open": predict.Nothing,
				"head": predict.Nothing,
				"tail": predict.Nothing,
			}},
			"holding": {Flags: currency},
			"closed": {Flags: map[string]complete.Predictor{
				"c":       currency["c"],
				"json":    predict.Nothing,
				"details": predict.Nothing,
			}},
			"summary": {Flags: map[string]complete.Predictor{
				"c":    currency["c"],
				"json": predict.Nothing,
				"full": predict.Nothing,
			}},
			"serve": {Flags: map[string]complete.Predictor{"addr": predict.Nothing}},
			"help":  {},
		},
	}
}
