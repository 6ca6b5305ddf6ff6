package fintrack

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is a running account with one counterparty.
//
// A *Ledger returned by a Book is owned by that Book: its state only changes
// through Book operations, and callers must treat it as read-only.
type Ledger struct {
	id        string
	name      string
	contact   string
	createdAt time.Time

	balance decimal.Decimal // cached current balance
	opening decimal.Decimal // balance before any transaction, captured at creation or load, used by Verify
	txs     map[string]Transaction
}

func newLedger(id, name, contact string, createdAt time.Time, balance decimal.Decimal) *Ledger {
	return &Ledger{
		id:        id,
		name:      name,
		contact:   contact,
		createdAt: createdAt,
		balance:   balance,
		opening:   balance,
		txs:       make(map[string]Transaction),
	}
}

// ID returns the ledger's immutable identifier.
func (l *Ledger) ID() string { return l.id }

// Name returns the counterparty name.
func (l *Ledger) Name() string { return l.name }

// Contact returns the counterparty contact, usually a phone number.
func (l *Ledger) Contact() string { return l.contact }

// CreatedAt returns the creation time. Its date is where reports start by
// default and the nominal date of the opening balance.
func (l *Ledger) CreatedAt() time.Time { return l.createdAt }

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal { return l.balance }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.txs) }

// Transaction returns the transaction with that id.
func (l *Ledger) Transaction(id string) (Transaction, bool) {
	tx, ok := l.txs[id]
	return tx, ok
}

// Transactions returns a copy of the transactions in chronological order:
// by date, then by entry time, then by id.
func (l *Ledger) Transactions() []Transaction {
	txs := l.collect()
	slices.SortFunc(txs, chronological)
	return txs
}

// History returns a copy of the transactions, most recently entered first.
func (l *Ledger) History() []Transaction {
	txs := l.collect()
	slices.SortFunc(txs, func(a, b Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return txs
}

func (l *Ledger) collect() []Transaction {
	txs := make([]Transaction, 0, len(l.txs))
	for _, tx := range l.txs {
		txs = append(txs, tx)
	}
	return txs
}

// chronological orders transactions by business date, ties broken by entry
// time and then id so that the order is total.
func chronological(a, b Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// clone returns a deep copy of the ledger.
func (l *Ledger) clone() *Ledger {
	c := *l
	c.txs = make(map[string]Transaction, len(l.txs))
	for id, tx := range l.txs {
		c.txs[id] = tx
	}
	return &c
}

// HistoryPageSize is the number of transactions on a page of history.
const HistoryPageSize = 5

// HistoryPage returns page n, counted from 1, of the history split in pages
// of size transactions, and the number of pages. n is clamped to the
// existing pages. There is always at least one, possibly empty, page.
func (l *Ledger) HistoryPage(n, size int) ([]Transaction, int) {
	if size <= 0 {
		size = HistoryPageSize
	}
	txs := l.History()
	pages := max(1, (len(txs)+size-1)/size)
	n = min(max(n, 1), pages)
	start := (n - 1) * size
	end := min(start+size, len(txs))
	return txs[start:end], pages
}
