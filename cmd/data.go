package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

var stdin io.Reader = os.Stdin

type importCmd struct {
	path    string
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import ledgers from a JSON backup" }
func (*importCmd) Usage() string {
	return `fintrack import [-path <jsonpath>] [-replace] <file>|-

  Imports ledgers from a JSON file, or from stdin with "-". The file holds
  the ledgers array, as written by export, or any document containing it:
  -path is the JSONPath of the array, or of a string holding it like a
  browser storage dump.

  Ledgers that already exist are skipped unless -replace is given.

  See 'fintrack topic import'.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "", "JSONPath of the ledgers in the document, e.g. $.fintrack_ledgers")
	f.BoolVar(&c.replace, "replace", false, "Replace the ledgers that already exist")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 1 {
			return usagef("import takes exactly one file, got %d arguments", f.NArg())
		}
		data, err := readInput(f.Arg(0))
		if err != nil {
			return err
		}
		ledgers, err := fintrack.DecodeLedgersAt(data, c.path)
		if err != nil {
			return err
		}
		n, err := s.book.Import(ctx, ledgers, c.replace)
		if applied(err) {
			fmt.Fprintf(stdout, "Imported %d of %d ledgers\n", n, len(ledgers))
		}
		return err
	})
}

// readInput reads a file, or stdin for "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all ledgers as JSON" }
func (*exportCmd) Usage() string {
	return `fintrack export [-o <file>]

  Writes every ledger and its transactions as JSON, in the format import
  reads back.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write to this file instead of stdout")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if f.NArg() != 0 {
			return usagef("export takes no arguments")
		}
		if c.output == "" {
			return fintrack.EncodeLedgers(stdout, s.book.Ledgers(), true)
		}
		out, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := fintrack.EncodeLedgers(out, s.book.Ledgers(), true); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported %d ledgers to %s\n", len(s.book.Ledgers()), c.output)
		return nil
	})
}
