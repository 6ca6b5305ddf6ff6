package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	period string
	start  string
	end    string
	format string
	output string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "statement of a ledger over a period" }
func (*reportCmd) Usage() string {
	return `fintrack report [-p month|30d|all | -s <start> -d <end>] [-format md|html] [-o <file>] <ledger>

  Prints the statement of a ledger: the balance brought forward at the start
  of the period, every transaction of the period with the running balance,
  and the closing balance.

  -s and -d select a custom range. Without -s it starts on the first day of
  the month, or on the ledger creation date if later. Without -d it ends
  today.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Period: month (this month), 30d (last 30 days) or all (complete history)")
	f.StringVar(&c.start, "s", "", "Start date of a custom range")
	f.StringVar(&c.end, "d", "", "End date of a custom range")
	f.StringVar(&c.format, "format", "md", "Output format: md or html")
	f.StringVar(&c.output, "o", "", "Write the statement to this file instead of stdout")
}

// reportRange returns the range selected by the flags.
func (c *reportCmd) reportRange(l *fintrack.Ledger, today date.Date) (date.Range, error) {
	if c.start == "" && c.end == "" {
		p, err := date.ParsePreset(c.period)
		if err != nil {
			return date.Range{}, usagef("%v", err)
		}
		return p.Range(today), nil
	}
	end, err := parseDate(c.end, today)
	if err != nil {
		return date.Range{}, err
	}
	start := date.CustomStart(date.Of(l.CreatedAt()), today)
	if c.start != "" {
		if start, err = date.Parse(c.start); err != nil {
			return date.Range{}, err
		}
	}
	return date.NewRange(start, end), nil
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 1 {
			return usagef("report takes exactly one ledger, got %d arguments", f.NArg())
		}
		if c.format != "md" && c.format != "html" {
			return usagef("unknown format %q, want md or html", c.format)
		}
		l, err := s.book.Find(f.Arg(0))
		if err != nil {
			return err
		}
		today := s.book.Today()
		r, err := c.reportRange(l, today)
		if err != nil {
			return err
		}
		st, err := l.Statement(r, today)
		if err != nil {
			return err
		}
		doc, err := renderer.StatementMarkdown(st, s.cfg.Currency)
		if err != nil {
			return err
		}
		if c.format == "html" {
			if doc, err = renderer.HTML("Statement of "+st.Name, doc); err != nil {
				return err
			}
		}

		if c.output == "" {
			if c.format == "md" {
				printMarkdown(doc)
			} else {
				fmt.Fprint(stdout, doc)
			}
			return nil
		}
		if err := os.WriteFile(c.output, []byte(doc), 0o644); err != nil {
			return &fintrack.ExportError{Op: "write", Err: err}
		}
		fmt.Fprintf(stdout, "Statement of %q for %s written to %s\n", st.Name, st.Period, c.output)
		return nil
	})
}
