package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/docs"
	"github.com/etnz/fintrack/renderer"
	"google.golang.org/genai"
)

func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user keeps one ledger per counterparty, and wants to know who owes what,
			how balances evolved, and what happened over a period.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAccountant returns the expert reading the ledgers of book, amounts
// displayed in currency.
func NewAccountant(book *fintrack.Book, currency, model string) *Expert {
	lib := Accounting(book, currency)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. It reads the user's ledgers, one per counterparty,
		and knows their balances, transactions and statements over any period.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's ledgers.
				A credit is money received, it increases the balance. A debit is money paid out, it decreases it.
				Use the available tools to get information about:
				  - the list of ledgers and their current balance
				  - the statement of a ledger over a period
				  - the latest transactions of a ledger
				Pardon the approximative language of your colleagues and figure out what they meant.

				` + must(docs.Topic("balances"))}}},
		},
		Library: NewLibrary(lib),
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Accounting returns the functions reading book.
func Accounting(book *fintrack.Book, currency string) []*Func {
	ledgerParam := &genai.Schema{
		Type:        genai.TypeString,
		Description: "The ledger name, or its id or id prefix.",
	}
	dateParam := func(what string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeString,
			Description: what + " Format YYYY-MM-DD.",
		}
	}

	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_ledgers",
				Description: "list_ledgers lists every ledger with its contact, current balance, number of transactions and id.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the ledgers.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.LedgersMarkdown(book.Ledgers(), currency)
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name: "ledger_statement",
				Description: `ledger_statement returns the statement of a ledger over a period: the initial balance
				brought forward at the start, every transaction with the running balance, and the closing balance.

				` + must(docs.Topic("dates")),
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ledger": ledgerParam,
						"from":   dateParam("First day of the period, the complete history if omitted."),
						"to":     dateParam("Last day of the period, today if omitted."),
					},
					Required: []string{"ledger"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "The statement as a markdown document.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				l, err := findLedger(book, args)
				if err != nil {
					return "", err
				}
				var r date.Range
				if r.From, err = dateArg(args, "from"); err != nil {
					return "", err
				}
				if r.To, err = dateArg(args, "to"); err != nil {
					return "", err
				}
				s, err := l.Statement(r, book.Today())
				if err != nil {
					return "", err
				}
				return renderer.StatementMarkdown(s, currency)
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "ledger_history",
				Description: "ledger_history returns a page of the transactions of a ledger, most recently entered first, with the current and opening balances.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ledger": ledgerParam,
						"page": {
							Type:        genai.TypeInteger,
							Description: fmt.Sprintf("The page number, starting at 1, each page holds %d transactions.", fintrack.HistoryPageSize),
						},
					},
					Required: []string{"ledger"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "The history as a markdown document.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				l, err := findLedger(book, args)
				if err != nil {
					return "", err
				}
				page := 1
				if p, ok := args["page"].(float64); ok {
					page = int(p)
				}
				return renderer.HistoryMarkdown(l, page, currency)
			},
		},
	}
}

func findLedger(book *fintrack.Book, args map[string]any) (*fintrack.Ledger, error) {
	query, ok := args["ledger"].(string)
	if !ok {
		return nil, fmt.Errorf("argument 'ledger' is required as a string, got %T", args["ledger"])
	}
	return book.Find(query)
}

// dateArg returns the date argument name, the zero Date if it is missing.
func dateArg(args map[string]any, name string) (date.Date, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return date.Date{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	if strings.TrimSpace(s) == "" {
		return date.Date{}, nil
	}
	return date.Parse(strings.TrimSpace(s))
}
