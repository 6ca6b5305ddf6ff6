package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

// reportTask is a statement to publish. It is the data of the front matter template.
type reportTask struct {
	Ledger  string
	Contact string
	Period  date.Range
	Report  string // "monthly" or "all"
}

// Name returns the file name of the report, without extension.
func (t reportTask) Name() string {
	if t.Report == "all" {
		return "all"
	}
	return t.Period.From.Format("2006-01")
}

type publishCmd struct {
	outputDir      string
	frontMatterTpl string
	format         string
}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "write the monthly statements of ledgers to a directory" }
func (*publishCmd) Usage() string {
	return `fintrack publish [-o <dir>] [-frontmatter <file>] [-format md|html] [<ledger>...]

  Writes, for every ledger (or the given ones), the statement of each month
  since its first transaction and the statement of its complete history, in
  a directory tree:

    <dir>/<ledger>/2025-01.md
    <dir>/<ledger>/all.md

  The front matter template is a Go template executed with .Ledger,
  .Contact, .Report ("monthly" or "all") and .Period (.Period.From and
  .Period.To).
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "statements", "Root directory for the generated statements")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the statement front matter")
	f.StringVar(&c.format, "format", "md", "Output format: md or html")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if c.format != "md" && c.format != "html" {
			return usagef("unknown format %q, want md or html", c.format)
		}
		var frontMatter *template.Template
		if c.frontMatterTpl != "" {
			var err error
			if frontMatter, err = template.ParseFiles(c.frontMatterTpl); err != nil {
				return fmt.Errorf("failed to parse front matter template: %w", err)
			}
		}

		ledgers := s.book.Ledgers()
		if f.NArg() > 0 {
			ledgers = ledgers[:0:0]
			for _, q := range f.Args() {
				l, err := s.book.Find(q)
				if err != nil {
					return err
				}
				ledgers = append(ledgers, l)
			}
		}

		today := s.book.Today()
		n := 0
		for _, l := range ledgers {
			for _, task := range statementTasks(l, today) {
				if err := c.publish(s, l, task, frontMatter, today); err != nil {
					return err
				}
				n++
			}
		}
		fmt.Fprintf(stdout, "%d statements of %d ledgers written to %s\n", n, len(ledgers), c.outputDir)
		return nil
	})
}

// publish writes the statement of task.
func (c *publishCmd) publish(s *session, l *fintrack.Ledger, task reportTask, frontMatter *template.Template, today date.Date) error {
	st, err := l.Statement(task.Period, today)
	if err != nil {
		return err
	}
	doc, err := renderer.StatementMarkdown(st, s.cfg.Currency)
	if err != nil {
		return err
	}
	ext := ".md"
	if c.format == "html" {
		if doc, err = renderer.HTML("Statement of "+st.Name, doc); err != nil {
			return err
		}
		ext = ".html"
	}
	if frontMatter != nil {
		fm, err := renderFrontMatter(frontMatter, task)
		if err != nil {
			return fmt.Errorf("failed to render front matter for %s statement %s: %w", l.Name(), task.Name(), err)
		}
		doc = fm + "\n" + doc
	}

	file := filepath.Join(c.outputDir, slug(l), task.Name()+ext)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return &fintrack.ExportError{Op: "write", Err: err}
	}
	if err := os.WriteFile(file, []byte(doc), 0o644); err != nil {
		return &fintrack.ExportError{Op: "write", Err: err}
	}
	log.Printf("published %s statement of %q for %s", task.Report, l.Name(), task.Period)
	return nil
}

// statementTasks returns the statements of l: one per month from its first
// transaction (or its creation if earlier) to today, then its complete history.
func statementTasks(l *fintrack.Ledger, today date.Date) []reportTask {
	start := date.Of(l.CreatedAt())
	for _, tx := range l.Transactions() {
		if tx.Date.Before(start) {
			start = tx.Date
		}
	}
	var tasks []reportTask
	for _, r := range monthlyRanges(start, today) {
		tasks = append(tasks, reportTask{Ledger: l.Name(), Contact: l.Contact(), Period: r, Report: "monthly"})
	}
	return append(tasks, reportTask{Ledger: l.Name(), Contact: l.Contact(), Report: "all"})
}

// monthlyRanges returns the calendar months from start's to end's, the
// last one ending on end.
func monthlyRanges(start, end date.Date) []date.Range {
	if start.IsZero() || start.After(end) {
		return nil
	}
	var ranges []date.Range
	for from := start.FirstOfMonth(); !from.After(end); from = date.New(from.Year(), from.Month()+1, 1) {
		to := date.New(from.Year(), from.Month()+1, 0)
		if to.After(end) {
			to = end
		}
		ranges = append(ranges, date.NewRange(from, to))
	}
	return ranges
}

// slug returns the directory name of a ledger: its lower case name, dashes
// for everything else than letters and digits, and an id prefix.
func slug(l *fintrack.Ledger) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, l.Name())
	id := l.ID()
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.Trim(name, "-") + "-" + id
}

func renderFrontMatter(tpl *template.Template, task reportTask) (string, error) {
	var fmBuffer bytes.Buffer
	if err := tpl.Execute(&fmBuffer, task); err != nil {
		return "", err
	}
	return fmBuffer.String(), nil
}
