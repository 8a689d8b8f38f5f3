package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/carteira-cli/carteira/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: a no-op unless invoked by the shell's completion hook.
	completion().Complete("carteira")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "documentation")
	commander.Register(commander.FlagsCommand(), "documentation")
	commander.Register(commander.CommandsCommand(), "documentation")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	ledger := map[string]complete.Predictor{"ledger-file": predict.Files("*.jsonl")}
	return &complete.Command{
		Flags: ledger,
		Sub: map[string]*complete.Command{
			"import":   {Flags: map[string]complete.Predictor{"i": predict.Files("*.csv"), "o": predict.Files("*.jsonl"), "c": predict.Nothing}},
			"buy":      {Flags: map[string]complete.Predictor{"s": predict.Nothing, "q": predict.Nothing, "p": predict.Nothing, "d": predict.Nothing, "m": predict.Nothing}},
			"sell":     {Flags: map[string]complete.Predictor{"s": predict.Nothing, "q": predict.Nothing, "p": predict.Nothing, "d": predict.Nothing, "m": predict.Nothing}},
			"position": {Flags: map[string]complete.Predictor{"all": predict.Nothing}},
			"tx":       {Flags: map[string]complete.Predictor{"s": predict.Nothing, "head": predict.Nothing, "tail": predict.Nothing}},
			"fmt":      {},
			"sync":     {Flags: map[string]complete.Predictor{"session": predict.Nothing, "wallet": predict.Nothing}},
			"topic":    {Args: predict.Set{"readme", "average-price", "import", "sync"}},
		},
	}
}
