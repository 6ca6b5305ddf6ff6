package renderer

import (
	"github.com/etnz/fintrack"
	"github.com/shopspring/decimal"
)

// statementView is the Statement with every value formatted.
type statementView struct {
	Name    string
	Contact string
	Period  string
	Rows    []rowView
	Closing string
}

type rowView struct {
	Date        string
	Type        string
	Description string
	Amount      string
	Balance     string
}

// StatementMarkdown renders a statement as a markdown document, amounts
// formatted in currency.
//
// The table starts with an "Initial Balance" row holding the balance
// brought forward at the start of the period, and ends with the closing
// balance.
func StatementMarkdown(s *fintrack.Statement, currency string) (string, error) {
	money := func(d decimal.Decimal) string { return fintrack.M(d, currency).String() }
	v := statementView{
		Name:    s.Name,
		Contact: s.Contact,
		Period:  s.Period.String(),
		Closing: money(s.Closing),
	}
	v.Rows = append(v.Rows, rowView{
		Date:        s.Period.From.String(),
		Description: "Initial Balance",
		Balance:     money(s.Opening),
	})
	for _, r := range s.Rows {
		v.Rows = append(v.Rows, rowView{
			Date:        r.Date.String(),
			Type:        r.Kind.Title(),
			Description: r.Description,
			Amount:      money(r.Amount),
			Balance:     money(r.Balance),
		})
	}
	partials := map[string]string{
		"statement_table": "statement_table.md",
	}
	md, err := renderTemplate("statement", "statement.md", partials, v)
	if err != nil {
		return "", &fintrack.ExportError{Op: "render", Err: err}
	}
	return md, nil
}
