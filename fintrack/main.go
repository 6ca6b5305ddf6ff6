// Command fintrack keeps one ledger per counterparty and reports their balances.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/fintrack/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete()

	commander := subcommands.NewCommander(flag.CommandLine, "fintrack")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging(*cmd.Verbose)

	if flag.NArg() > 0 && !cmd.IsCommand(flag.Arg(0)) {
		if ran, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); ran {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
