package fintrack

import (
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/fintrack/date"
	"github.com/shopspring/decimal"
)

// sum returns the signed sum of the transactions accepted by keep.
func (l *Ledger) sum(keep func(Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.txs {
		if keep(tx) {
			total = total.Add(SignedValue(tx))
		}
	}
	return total
}

func all(Transaction) bool { return true }

// TrueOpeningBalance returns the balance before any recorded transaction, by
// undoing every transaction from the current balance.
//
// Transactions dated before the ledger creation are undone too: the result is
// the balance before the earliest recorded transaction, not the balance on
// the creation date.
func (l *Ledger) TrueOpeningBalance() decimal.Decimal {
	return l.balance.Sub(l.sum(all))
}

// BroughtForward returns the balance immediately before cutoff: the true
// opening balance plus every transaction dated strictly before cutoff.
func (l *Ledger) BroughtForward(cutoff date.Date) decimal.Decimal {
	return l.TrueOpeningBalance().Add(l.sum(func(tx Transaction) bool { return tx.Date.Before(cutoff) }))
}

// Row is a transaction with the running balance after it.
type Row struct {
	Transaction
	Balance decimal.Decimal
}

// RunningBalance returns the transactions in r in chronological order, with
// the balance after each one, and the balance the series starts from.
//
// The series starts from the balance brought forward at r.From, or from the
// true opening balance when r.From is not set. Without r.To, the balance of
// the last row equals the current balance.
func (l *Ledger) RunningBalance(r date.Range) (start decimal.Decimal, rows []Row, err error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, nil, invalid("range", "%v", err)
	}
	start = l.TrueOpeningBalance()
	if !r.From.IsZero() {
		start = l.BroughtForward(r.From)
	}
	txs := make([]Transaction, 0, len(l.txs))
	for _, tx := range l.txs {
		if r.Contains(tx.Date) {
			txs = append(txs, tx)
		}
	}
	slices.SortFunc(txs, chronological)

	balance := start
	rows = make([]Row, 0, len(txs))
	for _, tx := range txs {
		balance = balance.Add(SignedValue(tx))
		rows = append(rows, Row{Transaction: tx, Balance: balance})
	}
	return start, rows, nil
}

// Statement is a dated running balance report of a ledger.
type Statement struct {
	Name    string
	Contact string
	// Period is the reported period. Open bounds of the requested range are
	// resolved to the ledger creation date and today.
	Period  date.Range
	Opening decimal.Decimal // the initial balance row
	Rows    []Row
	Closing decimal.Decimal // the balance of the last row
}

// Statement builds the statement of the ledger for r.
func (l *Ledger) Statement(r date.Range, today date.Date) (*Statement, error) {
	start, rows, err := l.RunningBalance(r)
	if err != nil {
		return nil, err
	}
	s := &Statement{
		Name:    l.name,
		Contact: l.contact,
		Period:  r,
		Opening: start,
		Rows:    rows,
		Closing: start,
	}
	if s.Period.From.IsZero() {
		s.Period.From = date.Of(l.createdAt)
	}
	if s.Period.To.IsZero() {
		s.Period.To = today
	}
	if len(rows) > 0 {
		s.Closing = rows[len(rows)-1].Balance
	}
	return s, nil
}

// Verify checks the cached balance against a full recomputation from the
// opening balance the ledger was created or loaded with.
func (l *Ledger) Verify() error {
	want := l.opening.Add(l.sum(all))
	if !l.balance.Equal(want) {
		return fmt.Errorf("ledger %q (%s): cached balance %s, recomputed %s", l.name, l.id, l.balance, want)
	}
	return nil
}

// Verify checks every ledger of the book.
func (b *Book) Verify() error {
	var errs error
	for _, l := range b.Ledgers() {
		errs = errors.Join(errs, l.Verify())
	}
	return errs
}
