package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/carteira-cli/carteira"
	"github.com/google/subcommands"
)

// importCmd converts a broker CSV statement into ledger transactions.
type importCmd struct {
	input    string
	output   string
	currency string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "convert a broker CSV statement into a ledger" }
func (*importCmd) Usage() string {
	return `carteira import [-i <statement.csv>] [-o <ledger.jsonl>] [-c <currency>]

  Reads a headerless CSV statement (date, ticker, B|S, shares, price) and
  writes the equivalent ledger in JSONL format, sorted by date. With no -i it
  reads from stdin, with no -o it writes to stdout.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "CSV statement to import (defaults to stdin)")
	f.StringVar(&c.output, "o", "", "Ledger file to write (defaults to stdout)")
	f.StringVar(&c.currency, "c", carteira.DefaultCurrency, "Currency of the statement prices")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in io.Reader = os.Stdin
	if c.input != "" {
		file, err := os.Open(c.input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening statement %q: %v\n", c.input, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	ledger, err := carteira.ImportTransactions(in, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing statement: %v\n", err)
		return subcommands.ExitFailure
	}

	var out io.Writer = os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating ledger file %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	if err := carteira.EncodeLedger(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output != "" {
		fmt.Printf("Imported %d transactions into %s\n", ledger.Len(), c.output)
	}
	return subcommands.ExitSuccess
}
