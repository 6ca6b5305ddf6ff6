package fintrack

import (
	"context"
	"maps"
	"testing"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// now is the test clock's current time. Today is 2025-03-15.
var now = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

// day returns a date in 2025.
func day(m time.Month, d int) date.Date { return date.New(2025, m, d) }

// dateRangeAll is the complete history.
var dateRangeAll = date.Range{}

// decimalCents returns c hundredths.
func decimalCents(c int64) decimal.Decimal { return decimal.New(c, -2) }

// dec is a helper for test to create a decimal from a const
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// txCmp compares transactions field by field.
var txCmp = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// memKV is an in-memory KV that can be told to fail.
type memKV struct {
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemKV() *memKV { return &memKV{values: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNoValue
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) keys() []string {
	var keys []string
	for k := range maps.Keys(m.values) {
		keys = append(keys, k)
	}
	return keys
}

// newTestBook returns a book persisted in memory, whose clock is frozen at now.
func newTestBook(t *testing.T) (*Book, *memKV) {
	t.Helper()
	kv := newMemKV()
	b := NewBook(NewStorage(kv))
	b.Clock = func() time.Time { return now }
	return b, kv
}

func mustCreate(t *testing.T, b *Book, name, opening string) *Ledger {
	t.Helper()
	l, err := b.CreateLedger(context.Background(), name, name+" contact", dec(opening))
	if err != nil {
		t.Fatalf("CreateLedger(%q) error = %v", name, err)
	}
	return l
}

func mustAdd(t *testing.T, b *Book, l *Ledger, kind Kind, amount string, on date.Date) Transaction {
	t.Helper()
	tx, err := b.AddTransaction(context.Background(), l.ID(), Entry{Kind: kind, Amount: dec(amount), Date: on})
	if err != nil {
		t.Fatalf("AddTransaction(%s %s on %s) error = %v", kind, amount, on, err)
	}
	return tx
}

func assertBalance(t *testing.T, l *Ledger, want string) {
	t.Helper()
	if got := l.Balance(); !got.Equal(dec(want)) {
		t.Errorf("%s Balance() = %s, want %s", l.Name(), got, want)
	}
}
