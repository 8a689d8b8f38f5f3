// Package cmd implements the CLI application to manage a stock wallet.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/carteira-cli/carteira"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "ledger")
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&positionCmd{}, "reports")
	c.Register(&txCmd{}, "reports")

	c.Register(&syncCmd{}, "online")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")

// DecodeLedger loads the ledger from the app ledger file.
func DecodeLedger() (*carteira.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := carteira.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger file %q: %w", *ledgerFile, err)
	}
	return ledger, nil
}

// appendTransaction appends a transaction to the app ledger file.
func appendTransaction(tx carteira.Transaction) subcommands.ExitStatus {
	filename := *ledgerFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := carteira.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}
