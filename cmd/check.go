package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the balance of every ledger" }
func (*checkCmd) Usage() string {
	return `fintrack check

  Recomputes the balance of every ledger from its opening balance and its
  transactions, and reports the ledgers whose stored balance differs.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if err := s.book.Verify(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d ledgers, all balances are consistent\n", len(s.book.Ledgers()))
		return nil
	})
}
