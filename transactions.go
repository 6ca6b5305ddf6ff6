package fintrack

import (
	"strings"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/shopspring/decimal"
)

// Kind is the direction of a transaction.
type Kind string

const (
	// Credit increases the ledger balance (money received).
	Credit Kind = "credit"
	// Debit decreases the ledger balance (money paid out).
	Debit Kind = "debit"
)

// ParseKind parses a transaction kind. It accepts the full names and the
// usual abbreviations, case insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "c", "cr":
		return Credit, nil
	case "debit", "d", "dr":
		return Debit, nil
	default:
		return "", invalid("type", "unknown transaction type %q, want credit or debit", s)
	}
}

// Sign returns +1 for a credit and -1 for a debit.
func (k Kind) Sign() decimal.Decimal {
	if k == Credit {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// Title returns the kind with an upper case first letter.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Transaction is a single dated credit or debit entry against a ledger.
type Transaction struct {
	ID          string
	Kind        Kind
	Amount      decimal.Decimal // always positive
	Date        date.Date       // business date
	Description string
	CreatedAt   time.Time // entry time, orders same-dated transactions
}

// SignedValue returns the transaction's contribution to its ledger balance.
func SignedValue(tx Transaction) decimal.Decimal { return tx.Amount.Mul(tx.Kind.Sign()) }

// Entry holds the user editable fields of a transaction.
type Entry struct {
	Kind        Kind
	Amount      decimal.Decimal
	Date        date.Date
	Description string
}

// signed returns the signed value the entry would have as a transaction.
func (e Entry) signed() decimal.Decimal { return e.Amount.Mul(e.Kind.Sign()) }

// validate checks the entry against today's date.
func (e Entry) validate(today date.Date) error {
	if e.Kind != Credit && e.Kind != Debit {
		return invalid("type", "unknown transaction type %q, want credit or debit", e.Kind)
	}
	if !e.Amount.IsPositive() {
		return invalid("amount", "must be positive, got %s", e.Amount)
	}
	if e.Date.IsZero() {
		return invalid("date", "is required")
	}
	if e.Date.After(today) {
		return invalid("date", "%s is in the future", e.Date)
	}
	return nil
}

// ParseAmount parses a finite decimal number for the named field.
//
// Empty input, non numeric input and the NaN/Inf spellings are rejected with
// a ValidationError.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid(field, "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "%q is not a number", s)
	}
	return d, nil
}
