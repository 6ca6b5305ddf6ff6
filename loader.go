package fintrack

import (
	"fmt"
	"strings"
)

// Find returns the unique ledger matching query.
//
// The query matches a ledger by exact id, by id prefix, or by name ignoring
// case. An exact id or an exact name wins over prefixes. No match is a
// *NotFoundError, several matches are an error listing them.
func (b *Book) Find(query string) (*Ledger, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("ledger", "is required")
	}
	if l, ok := b.ledgers[query]; ok {
		return l, nil
	}

	var byName, byPrefix []*Ledger
	for _, l := range b.Ledgers() {
		switch {
		case strings.EqualFold(l.name, query):
			byName = append(byName, l)
		case strings.HasPrefix(l.id, query):
			byPrefix = append(byPrefix, l)
		}
	}
	candidates := byName
	if len(candidates) == 0 {
		candidates = byPrefix
	}
	switch len(candidates) {
	case 0:
		return nil, &NotFoundError{What: "ledger", ID: query}
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, l := range candidates {
			names[i] = fmt.Sprintf("%s (%s)", l.name, l.id)
		}
		return nil, fmt.Errorf("multiple ledgers found for %q: %s", query, strings.Join(names, ", "))
	}
}

// FindTransaction returns the unique transaction of l whose id is or starts with query.
func (l *Ledger) FindTransaction(query string) (Transaction, error) {
	query = strings.TrimSpace(query)
	if tx, ok := l.txs[query]; ok {
		return tx, nil
	}
	var found []Transaction
	if query != "" {
		for _, tx := range l.txs {
			if strings.HasPrefix(tx.ID, query) {
				found = append(found, tx)
			}
		}
	}
	switch len(found) {
	case 0:
		return Transaction{}, &NotFoundError{What: "transaction", ID: query}
	case 1:
		return found[0], nil
	default:
		return Transaction{}, fmt.Errorf("multiple transactions in %q start with %q", l.name, query)
	}
}
