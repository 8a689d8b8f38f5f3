package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/carteira-cli/carteira"
	"github.com/google/subcommands"
)

// syncCmd uploads the ledger's trades to an investidor10 online wallet.
type syncCmd struct {
	session string
	wallet  int
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "upload the ledger's trades to an investidor10 wallet" }
func (*syncCmd) Usage() string {
	return `carteira sync -wallet <id> [-session <token>]

  Pushes every transaction in the ledger to the investidor10.com.br online
  wallet. The session token is the website's laravel_session cookie; it can
  also be provided through the INVESTIDOR10_SESSION environment variable.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.session, "session", "", "laravel session token (defaults to -investidor10-session or the environment)")
	f.IntVar(&c.wallet, "wallet", 0, "Online wallet id")
}

func (c *syncCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session := c.session
	if session == "" {
		session = carteira.Investidor10Session()
	}
	if session == "" || c.wallet == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	client := carteira.NewInvestidor10(session, c.wallet)

	var failures int
	for _, tx := range ledger.Transactions(carteira.AcceptAll) {
		if err := client.AddTrade(tx); err != nil {
			fmt.Fprintf(os.Stderr, "Error uploading %s %s on %s: %v\n", tx.What(), tx.Ticker(), tx.When(), err)
			failures++
			continue
		}
		fmt.Printf("Uploaded %s %s on %s\n", tx.What(), tx.Ticker(), tx.When())
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d transactions failed to upload.\n", failures, ledger.Len())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
