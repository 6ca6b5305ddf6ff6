package renderer

import (
	"strconv"

	"github.com/etnz/fintrack"
)

type ledgerView struct {
	ID      string
	Name    string
	Contact string
	Balance string
	Count   string
}

// shortID returns the prefix of an id shown in lists. Book.Find accepts it.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// LedgersMarkdown renders the list of ledgers with their current balance.
func LedgersMarkdown(ledgers []*fintrack.Ledger, currency string) (string, error) {
	views := make([]ledgerView, 0, len(ledgers))
	for _, l := range ledgers {
		views = append(views, ledgerView{
			ID:      shortID(l.ID()),
			Name:    l.Name(),
			Contact: l.Contact(),
			Balance: fintrack.M(l.Balance(), currency).String(),
			Count:   strconv.Itoa(l.Len()),
		})
	}
	md, err := renderTemplate("ledgers", "ledgers.md", nil, views)
	if err != nil {
		return "", &fintrack.ExportError{Op: "render", Err: err}
	}
	return md, nil
}

type historyView struct {
	Name    string
	Contact string
	Balance string
	Opening string
	Rows    []historyRow
	Page    int
	Pages   int
}

type historyRow struct {
	ID          string
	Date        string
	Type        string
	Description string
	Amount      string
}

// HistoryMarkdown renders page n of a ledger's history, most recent entries first.
func HistoryMarkdown(l *fintrack.Ledger, page int, currency string) (string, error) {
	txs, pages := l.HistoryPage(page, fintrack.HistoryPageSize)
	v := historyView{
		Name:    l.Name(),
		Contact: l.Contact(),
		Balance: fintrack.M(l.Balance(), currency).String(),
		Opening: fintrack.M(l.TrueOpeningBalance(), currency).String(),
		Page:    min(max(page, 1), pages),
		Pages:   pages,
	}
	for _, tx := range txs {
		v.Rows = append(v.Rows, historyRow{
			ID:          shortID(tx.ID),
			Date:        tx.Date.String(),
			Type:        tx.Kind.Title(),
			Description: tx.Description,
			Amount:      fintrack.M(fintrack.SignedValue(tx), currency).SignedString(),
		})
	}
	md, err := renderTemplate("history", "history.md", nil, v)
	if err != nil {
		return "", &fintrack.ExportError{Op: "render", Err: err}
	}
	return md, nil
}
