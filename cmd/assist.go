package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fintrack/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask questions about your ledgers to an AI assistant" }
func (*assistCmd) Usage() string {
	return `fintrack assist [-model <model>] [<question>...]

  Starts an interactive session with an assistant that reads your ledgers.
  The words given as arguments are the first question.

  Needs a Gemini API key in GEMINI_API_KEY or GOOGLE_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model, overrides the configuration")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) error {
		if err := s.cfg.Validate("assist.apiKey"); err != nil {
			return err
		}
		model := s.cfg.Assist.Model
		if c.model != "" {
			model = c.model
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.cfg.Assist.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("initializing Gemini's client: %w", err)
		}

		accountant := agent.NewAccountant(s.book, s.cfg.Currency, model)
		a := agent.New(stdout, stdin, model, accountant)
		a.Print = func(w io.Writer, md string) { printMarkdown(md) }

		var prompts []string
		if f.NArg() > 0 {
			prompts = append(prompts, strings.Join(f.Args(), " "))
		}
		if err := a.Run(ctx, client, prompts...); err != nil {
			return fmt.Errorf("assistant failed: %w", err)
		}
		return nil
	})
}
