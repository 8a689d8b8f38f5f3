package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/carteira-cli/carteira"
	"github.com/carteira-cli/carteira/renderer"
	"github.com/google/subcommands"
)

// positionCmd holds the flags for the 'position' subcommand.
type positionCmd struct {
	all bool
}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "display the current position and average price per ticker" }
func (*positionCmd) Usage() string {
	return `carteira position [-all]

  Replays the whole ledger and displays, for every ticker still held, the
  current share count and the moving-average acquisition cost.

  Transactions that would drive a position negative are skipped and reported
  on stderr; the rest of the ledger is still processed.
`
}

func (c *positionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "also list fully liquidated tickers, with their stale average")
}

func (c *positionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	book, errs := carteira.Fold(ledger)
	if errs != nil {
		fmt.Fprintln(os.Stderr, errs)
	}

	md := renderer.PositionMarkdown(ledger.NewestTransactionDate(), book.Snapshot())
	if c.all {
		md += renderer.ClosedMarkdown(book)
	}
	printMarkdown(md)

	return subcommands.ExitSuccess
}
