// Package cmd implements the fintrack command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/config"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/storage"
	"github.com/google/subcommands"
)

// Commands lists the subcommands with their group.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&newCmd{}, "ledgers"},
	{&ledgersCmd{}, "ledgers"},
	{&deleteCmd{}, "ledgers"},
	{&showCmd{}, "ledgers"},

	{&entryCmd{kind: fintrack.Credit}, "transactions"},
	{&entryCmd{kind: fintrack.Debit}, "transactions"},
	{&editCmd{}, "transactions"},
	{&rmCmd{}, "transactions"},

	{&reportCmd{}, "reports"},
	{&publishCmd{}, "reports"},
	{&checkCmd{}, "reports"},
	{&assistCmd{}, "reports"},

	{&importCmd{}, "data"},
	{&exportCmd{}, "data"},

	{&topicCmd{}, "help"},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the YAML configuration file (defaults to $FINTRACK_CONFIG)")
	// Verbose enables logging to stderr.
	Verbose = flag.Bool("v", false, "Log what fintrack does to stderr")
	force   = flag.Bool("force", false, "Save changes even if the stored ledgers could not be loaded, replacing them")
)

// stdout and stderr are swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetupLogging sends the log to stderr in verbose mode, and discards it otherwise.
func SetupLogging(verbose bool) {
	log.SetFlags(0)
	log.SetPrefix("fintrack: ")
	if verbose {
		log.SetOutput(stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// session is the state a command works on.
type session struct {
	cfg     *config.Config
	backend storage.Backend
	book    *fintrack.Book
}

// openSession loads the configuration and the book.
//
// Ledgers that cannot be loaded are reported on stderr, and the session
// starts with an empty book.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		SetupLogging(true)
	}
	backend, err := storage.Open(cfg.Storage.Kind, cfg.Storage.Location)
	if err != nil {
		return nil, err
	}
	log.Printf("using %s storage at %q", cfg.Storage.Kind, cfg.Storage.Location)
	book, err := fintrack.OpenBook(ctx, fintrack.NewStorage(backend))
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\nStarting with no ledgers, see 'fintrack topic storage'.\n", err)
		switch {
		case book.CanSave():
		case *force:
			book.Overwrite()
			fmt.Fprintln(stderr, "Warning: -force is set, changes replace the stored ledgers.")
		default:
			fmt.Fprintln(stderr, "Changes will not be saved, use -force to replace the stored ledgers.")
		}
	}
	return &session{cfg: cfg, backend: backend, book: book}, nil
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		log.Printf("could not close storage: %v", err)
	}
}

// withSession runs fn on a session, reporting errors on stderr.
func withSession(ctx context.Context, fn func(*session) error) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()
	if err := fn(s); err != nil {
		return reportError(err)
	}
	return subcommands.ExitSuccess
}

// usageError is returned by commands called with the wrong arguments.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error { return usageError{fmt.Sprintf(format, args...)} }

// applied reports whether a mutation that returned err changed the book.
func applied(err error) bool { return err == nil || errors.Is(err, fintrack.ErrPersistence) }

// reportError prints err and returns the matching exit status.
func reportError(err error) subcommands.ExitStatus {
	var uerr usageError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	case errors.Is(err, fintrack.ErrPersistence):
		fmt.Fprintf(stderr, "Warning: the change was applied but not saved: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return subcommands.ExitFailure
}

// parseDate parses s, today if empty.
func parseDate(s string, today date.Date) (date.Date, error) {
	if s == "" {
		return today, nil
	}
	return date.Parse(s)
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// printMarkdown prints md, rendered for the terminal when stdout is one.
func printMarkdown(md string) {
	if isTerminal() {
		out, err := renderTerminal(md)
		if err == nil {
			fmt.Fprint(stdout, out)
			return
		}
		log.Printf("could not render markdown: %v", err)
	}
	fmt.Fprint(stdout, md)
}

func renderTerminal(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
