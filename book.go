package fintrack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is the store of all ledgers. It is the only mutator of ledgers and
// transactions.
//
// Every mutation keeps the mutated ledger's cached balance equal to its
// opening balance plus the signed sum of its transactions, then snapshots
// the whole collection through the Persister. A mutation that fails with a
// *ValidationError or a *NotFoundError leaves the book unchanged. A mutation
// that returns a *PersistenceError has been applied in memory, only the save
// failed.
//
// A Book is not safe for concurrent use.
type Book struct {
	// Clock returns the current time. It defaults to time.Now.
	Clock func() time.Time

	persister Persister
	ledgers   map[string]*Ledger
	lastStamp time.Time // last creation timestamp handed out
	loadErr   error     // set when the stored ledgers were neither loaded nor backed up
}

// NewBook returns an empty book saving through p. A nil p keeps the book in memory only.
func NewBook(p Persister) *Book {
	return &Book{
		Clock:     time.Now,
		persister: p,
		ledgers:   make(map[string]*Ledger),
	}
}

// OpenBook loads a book from p.
//
// If loading fails the returned book is empty but usable, and the error is a
// *PersistenceError. Unless the stored payload was backed up (the error's
// Backup is set), the book then refuses to save, so that its first mutation
// cannot replace ledgers that were only unreadable for a while: mutations are
// applied in memory and return a *PersistenceError wrapping ErrNotLoaded
// until Overwrite is called.
func OpenBook(ctx context.Context, p Persister) (*Book, error) {
	b := NewBook(p)
	ledgers, err := p.Load(ctx)
	if err != nil {
		log.Printf("warning, could not load ledgers, starting with an empty book: %v", err)
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			perr = &PersistenceError{Op: "load", Err: err}
			err = perr
		}
		if perr.Backup == "" {
			b.loadErr = err
		}
		return b, err
	}
	today := b.today()
	for _, l := range ledgers {
		b.put(l)
		future := 0
		for _, tx := range l.txs {
			if tx.Date.After(today) {
				future++
			}
		}
		if future > 0 {
			log.Printf("warning, ledger %q has %d transactions dated after %s", l.name, future, today)
		}
	}
	log.Printf("loaded %d ledgers", len(ledgers))
	return b, nil
}

// Overwrite lets a book whose stored ledgers could not be loaded save again,
// replacing them.
func (b *Book) Overwrite() { b.loadErr = nil }

// CanSave reports whether mutations are saved, see OpenBook.
func (b *Book) CanSave() bool { return b.loadErr == nil }

// put adds l to the book, keeping creation timestamps monotonic.
func (b *Book) put(l *Ledger) {
	b.ledgers[l.id] = l
	if l.createdAt.After(b.lastStamp) {
		b.lastStamp = l.createdAt
	}
	for _, tx := range l.txs {
		if tx.CreatedAt.After(b.lastStamp) {
			b.lastStamp = tx.CreatedAt
		}
	}
}

// stamp returns a creation timestamp at millisecond precision, strictly after
// every timestamp already in the book.
func (b *Book) stamp() time.Time {
	t := b.Clock().Truncate(time.Millisecond)
	if !t.After(b.lastStamp) {
		t = b.lastStamp.Add(time.Millisecond)
	}
	b.lastStamp = t
	return t
}

// today returns the current date according to the book's clock.
func (b *Book) today() date.Date { return date.Of(b.Clock()) }

// Today returns the current date according to the book's clock.
func (b *Book) Today() date.Date { return b.today() }

// Ledger returns the ledger with that id.
func (b *Book) Ledger(id string) (*Ledger, error) {
	l, ok := b.ledgers[id]
	if !ok {
		return nil, &NotFoundError{What: "ledger", ID: id}
	}
	return l, nil
}

// Ledgers returns all ledgers, most recently created first.
func (b *Book) Ledgers() []*Ledger {
	ledgers := make([]*Ledger, 0, len(b.ledgers))
	for _, l := range b.ledgers {
		ledgers = append(ledgers, l)
	}
	slices.SortFunc(ledgers, func(x, y *Ledger) int {
		if c := y.createdAt.Compare(x.createdAt); c != 0 {
			return c
		}
		return strings.Compare(x.id, y.id)
	})
	return ledgers
}

// CreateLedger creates a ledger starting at the opening balance. The opening
// balance may be negative.
func (b *Book) CreateLedger(ctx context.Context, name, contact string, opening decimal.Decimal) (*Ledger, error) {
	name, contact = strings.TrimSpace(name), strings.TrimSpace(contact)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if contact == "" {
		return nil, invalid("contact", "is required")
	}
	l := newLedger(uuid.NewString(), name, contact, b.stamp(), opening)
	b.ledgers[l.id] = l
	log.Printf("created ledger %q (%s) with opening balance %s", l.name, l.id, opening)
	return l, b.save(ctx)
}

// DeleteLedger deletes a ledger and all its transactions.
func (b *Book) DeleteLedger(ctx context.Context, id string) error {
	l, err := b.Ledger(id)
	if err != nil {
		return err
	}
	delete(b.ledgers, id)
	log.Printf("deleted ledger %q (%s) and its %d transactions", l.name, l.id, len(l.txs))
	return b.save(ctx)
}

// AddTransaction records a new transaction in a ledger.
//
// The date may be earlier than the ledger creation, but not in the future.
func (b *Book) AddTransaction(ctx context.Context, ledgerID string, e Entry) (Transaction, error) {
	l, err := b.Ledger(ledgerID)
	if err != nil {
		return Transaction{}, err
	}
	if err := e.validate(b.today()); err != nil {
		return Transaction{}, err
	}
	tx := Transaction{
		ID:          uuid.NewString(),
		Kind:        e.Kind,
		Amount:      e.Amount,
		Date:        e.Date,
		Description: e.Description,
		CreatedAt:   b.stamp(),
	}
	l.txs[tx.ID] = tx
	l.balance = l.balance.Add(SignedValue(tx))
	log.Printf("%v: %s %s in %q, balance is now %s", tx.Date, tx.Kind, tx.Amount, l.name, l.balance)
	return tx, b.save(ctx)
}

// EditTransaction replaces the editable fields of a transaction, keeping
// its id and creation time.
//
// The balance is updated by reversing the old signed value and applying the
// new one. This holds whatever the position of the transaction in the
// history, since the balance is a sum.
func (b *Book) EditTransaction(ctx context.Context, ledgerID, txID string, e Entry) (Transaction, error) {
	l, err := b.Ledger(ledgerID)
	if err != nil {
		return Transaction{}, err
	}
	old, ok := l.txs[txID]
	if !ok {
		return Transaction{}, &NotFoundError{What: "transaction", ID: txID}
	}
	if err := e.validate(b.today()); err != nil {
		return Transaction{}, err
	}
	reversed := l.balance.Sub(SignedValue(old))
	l.balance = reversed.Add(e.signed())

	tx := old
	tx.Kind, tx.Amount, tx.Date, tx.Description = e.Kind, e.Amount, e.Date, e.Description
	l.txs[txID] = tx
	log.Printf("%v: edited %s %s into %v: %s %s in %q, balance is now %s", old.Date, old.Kind, old.Amount, tx.Date, tx.Kind, tx.Amount, l.name, l.balance)
	return tx, b.save(ctx)
}

// RemoveTransaction deletes a transaction and reverses its effect on the balance.
func (b *Book) RemoveTransaction(ctx context.Context, ledgerID, txID string) error {
	l, err := b.Ledger(ledgerID)
	if err != nil {
		return err
	}
	tx, ok := l.txs[txID]
	if !ok {
		return &NotFoundError{What: "transaction", ID: txID}
	}
	l.balance = l.balance.Sub(SignedValue(tx))
	delete(l.txs, txID)
	log.Printf("%v: removed %s %s from %q, balance is now %s", tx.Date, tx.Kind, tx.Amount, l.name, l.balance)
	return b.save(ctx)
}

// Import adds ledgers to the book. Ledgers whose id already exists are
// skipped, unless replace is true. It returns the number of ledgers added or
// replaced.
func (b *Book) Import(ctx context.Context, ledgers []*Ledger, replace bool) (int, error) {
	n := 0
	for _, l := range ledgers {
		if _, exists := b.ledgers[l.id]; exists && !replace {
			log.Printf("skipping ledger %q (%s): already exists", l.name, l.id)
			continue
		}
		b.put(l.clone())
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n, b.save(ctx)
}

// save snapshots the whole book.
func (b *Book) save(ctx context.Context) error {
	if b.persister == nil {
		return nil
	}
	if b.loadErr != nil {
		return &PersistenceError{Op: "save", Err: fmt.Errorf("%w: %v", ErrNotLoaded, b.loadErr)}
	}
	if err := b.persister.Save(ctx, b.Ledgers()); err != nil {
		log.Printf("warning, ledgers were not saved: %v", err)
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}
