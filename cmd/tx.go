package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

// entryCmd records a credit or a debit, depending on kind.
type entryCmd struct {
	kind        fintrack.Kind
	date        string
	description string
}

func (c *entryCmd) Name() string { return string(c.kind) }
func (c *entryCmd) Synopsis() string {
	if c.kind == fintrack.Credit {
		return "record money received from a ledger"
	}
	return "record money paid to a ledger"
}
func (c *entryCmd) Usage() string {
	return fmt.Sprintf(`fintrack %s [-d <date>] [-m <description>] <ledger> <amount>

  Records a %s of a positive amount. The date defaults to today and can be
  in the past, not in the future.
`, c.kind, c.kind)
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transaction (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.description, "m", "", "Description")
}

func (c *entryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 2 {
			return usagef("%s takes a ledger and an amount, got %d arguments", c.kind, f.NArg())
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		amount, err := fintrack.ParseAmount("amount", f.Arg(1))
		if err != nil {
			return err
		}
		on, err := parseDate(c.date, s.book.Today())
		if err != nil {
			return err
		}
		tx, err := s.book.AddTransaction(ctx, l.ID(), fintrack.Entry{
			Kind:        c.kind,
			Amount:      amount,
			Date:        on,
			Description: c.description,
		})
		if tx.ID != "" {
			fmt.Fprintf(stdout, "%s %s on %s (%s), balance of %q is %s\n", c.kind.Title(), fintrack.M(amount, s.cfg.Currency), on, tx.ID, l.Name(), fintrack.M(l.Balance(), s.cfg.Currency))
		}
		return err
	})
}

type editCmd struct {
	kind        string
	amount      string
	date        string
	description string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a recorded transaction" }
func (*editCmd) Usage() string {
	return `fintrack edit [-type credit|debit] [-amount <amount>] [-d <date>] [-m <description>] <ledger> <transaction>

  Changes the fields given as flags, the others keep their value. The
  transaction is designated by its id or an unambiguous prefix of it.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "", "New type, credit or debit")
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.date, "d", "", "New date (YYYY-MM-DD)")
	f.StringVar(&c.description, "m", "", "New description")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 2 {
			return usagef("edit takes a ledger and a transaction, got %d arguments", f.NArg())
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		old, err := l.FindTransaction(f.Arg(1))
		if err != nil {
			return err
		}

		e := fintrack.Entry{Kind: old.Kind, Amount: old.Amount, Date: old.Date, Description: old.Description}
		set := make(map[string]bool)
		f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
		if len(set) == 0 {
			return usagef("nothing to change, use -type, -amount, -d or -m")
		}
		if set["type"] {
			if e.Kind, err = fintrack.ParseKind(c.kind); err != nil {
				return err
			}
		}
		if set["amount"] {
			if e.Amount, err = fintrack.ParseAmount("amount", c.amount); err != nil {
				return err
			}
		}
		if set["d"] {
			if e.Date, err = parseDate(c.date, s.book.Today()); err != nil {
				return err
			}
		}
		if set["m"] {
			e.Description = c.description
		}

		tx, err := s.book.EditTransaction(ctx, l.ID(), old.ID, e)
		if tx.ID != "" {
			fmt.Fprintf(stdout, "Updated %s: %s %s on %s, balance of %q is %s\n", tx.ID, tx.Kind, fintrack.M(tx.Amount, s.cfg.Currency), tx.Date, l.Name(), fintrack.M(l.Balance(), s.cfg.Currency))
		}
		return err
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a transaction" }
func (*rmCmd) Usage() string {
	return `fintrack rm <ledger> <transaction>

  Removes a transaction, designated by its id or an unambiguous prefix of it.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 2 {
			return usagef("rm takes a ledger and a transaction, got %d arguments", f.NArg())
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		tx, err := l.FindTransaction(f.Arg(1))
		if err != nil {
			return err
		}
		err = s.book.RemoveTransaction(ctx, l.ID(), tx.ID)
		if applied(err) {
			fmt.Fprintf(stdout, "Removed %s of %s on %s, balance of %q is %s\n", tx.Kind, fintrack.M(tx.Amount, s.cfg.Currency), tx.Date, l.Name(), fintrack.M(l.Balance(), s.cfg.Currency))
		}
		return err
	})
}
