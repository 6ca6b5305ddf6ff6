package fintrack

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to display amounts when none is configured.
const DefaultCurrency = "INR"

// Money is a decimal amount in a display currency.
//
// Ledgers are single currency and store plain decimals; Money only exists to
// format them.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value as Money in currency cur.
func M(value decimal.Decimal, cur string) Money {
	return Money{value: value, cur: strings.ToUpper(cur)}
}

// KnownCurrency reports whether code is an ISO 4217 currency known to the formatter.
func KnownCurrency(code string) bool { return money.GetCurrency(strings.ToUpper(code)) != nil }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted in its currency, e.g. "₹1,500.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if dec.Abs().GreaterThan(maxMinorUnits) {
		// beyond what the formatter's int64 can hold
		return m.value.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return cur.Formatter().Format(dec.IntPart())
}

// maxMinorUnits is the largest amount, in minor units, the formatter accepts.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// Currency returns the ISO 4217 code.
func (m Money) Currency() string { return m.cur }

// Value returns the amount in major units.
func (m Money) Value() decimal.Decimal { return m.value }

func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// Neg returns -m.
func (m Money) Neg() Money { return Money{value: m.value.Neg(), cur: m.cur} }

// Abs returns |m|.
func (m Money) Abs() Money { return Money{value: m.value.Abs(), cur: m.cur} }
