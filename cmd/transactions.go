package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/carteira-cli/carteira"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	date     string
	security string
	quantity int64
	price    float64
	currency string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase to open or add to a position" }
func (*buyCmd) Usage() string {
	return `carteira buy -s <ticker> -q <shares> -p <price> [-d <date>] [-m <memo>]

  Records the purchase of shares of a security in the ledger.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", carteira.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.currency, "c", carteira.DefaultCurrency, "Currency of the price")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.quantity <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := carteira.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := carteira.NewBuy(day, c.memo, c.security, carteira.Q(c.quantity), carteira.M(c.price, c.currency))
	return appendTransaction(tx)
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	security string
	quantity int64
	price    float64
	currency string
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale to trim or close a position" }
func (*sellCmd) Usage() string {
	return `carteira sell -s <ticker> -q <shares> -p <price> [-d <date>] [-m <memo>]

  Records the sale of shares of a security in the ledger. The sale price does
  not change the average acquisition cost of the remaining shares.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", carteira.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.security, "s", "", "Security ticker")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.StringVar(&c.currency, "c", carteira.DefaultCurrency, "Currency of the price")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" || c.quantity <= 0 || c.price < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := carteira.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := carteira.NewSell(day, c.memo, c.security, carteira.Q(c.quantity), carteira.M(c.price, c.currency))
	return appendTransaction(tx)
}
