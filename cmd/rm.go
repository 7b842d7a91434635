package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `coin rm <id>...

  Deletes transactions. A unique prefix of the ID is enough. A buy cannot be
  deleted while later sells depend on it.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: rm needs at least one transaction ID")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return exitStatus(err)
	}
	defer a.close()

	for _, id := range f.Args() {
		tx, err := findTransaction(ctx, a.as, id)
		if err != nil {
			return exitStatus(err)
		}
		if err := a.as.Delete(ctx, tx.ID); err != nil {
			return exitStatus(err)
		}
		fmt.Printf("Deleted %s\n", tx)
	}
	return subcommands.ExitSuccess
}
