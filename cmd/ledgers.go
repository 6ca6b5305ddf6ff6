package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type newCmd struct {
	contact string
	opening string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a ledger" }
func (*newCmd) Usage() string {
	return `fintrack new -contact <contact> [-opening <amount>] <name>

  Creates a ledger for a counterparty. The opening balance defaults to 0 and
  can be negative when you start out owing money.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.contact, "contact", "", "Contact of the counterparty, usually a phone number (required)")
	f.StringVar(&c.opening, "opening", "0", "Opening balance")
}

func (c *newCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 1 {
			return usagef("new takes exactly one ledger name, got %d arguments", f.NArg())
		}
		opening, err := fintrack.ParseAmount("opening balance", c.opening)
		if err != nil {
			return err
		}
		l, err := s.book.CreateLedger(ctx, f.Arg(0), c.contact, opening)
		if l != nil {
			fmt.Fprintf(stdout, "Created ledger %q (%s) with opening balance %s\n", l.Name(), l.ID(), fintrack.M(opening, s.cfg.Currency))
		}
		return err
	})
}

type ledgersCmd struct{}

func (*ledgersCmd) Name() string     { return "ledgers" }
func (*ledgersCmd) Synopsis() string { return "list ledgers and their balance" }
func (*ledgersCmd) Usage() string {
	return `fintrack ledgers

  Lists every ledger, most recently created first, with its current balance.
`
}

func (*ledgersCmd) SetFlags(*flag.FlagSet) {}

func (*ledgersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		md, err := renderer.LedgersMarkdown(s.book.Ledgers(), s.cfg.Currency)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}

type deleteCmd struct {
	force bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a ledger and all its transactions" }
func (*deleteCmd) Usage() string {
	return `fintrack delete -f <ledger>

  Deletes a ledger and all its transactions. This cannot be undone, -f
  confirms it.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "Confirm the deletion")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 1 {
			return usagef("delete takes exactly one ledger, got %d arguments", f.NArg())
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		if !c.force {
			return usagef("deleting %q removes its %d transactions, use -f to confirm", l.Name(), l.Len())
		}
		err = s.book.DeleteLedger(ctx, l.ID())
		if applied(err) {
			fmt.Fprintf(stdout, "Deleted ledger %q and its %d transactions\n", l.Name(), l.Len())
		}
		return err
	})
}

type showCmd struct {
	page int
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "show a ledger and its latest transactions" }
func (*showCmd) Usage() string {
	return fmt.Sprintf(`fintrack show [-page <n>] <ledger>

  Shows the current and opening balances of a ledger, and its transactions
  most recently entered first, %d per page.
`, fintrack.HistoryPageSize)
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "Page of transactions to show")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 1 {
			return usagef("show takes exactly one ledger, got %d arguments", f.NArg())
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		md, err := renderer.HistoryMarkdown(l, c.page, s.cfg.Currency)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}
