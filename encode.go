package fintrack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The persisted format is a JSON array of ledgers:
//
//	[{"id":…,"name":…,"contactNo":…,"openingAmount":1300,
//	  "transactions":[{"id":…,"type":"credit","amount":500,"date":"2025-01-31","description":…,"timestamp":1738300000000}],
//	  "createdAt":1738300000000}]
//
// openingAmount holds the current balance. Timestamps are epoch milliseconds.

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Kind)
	w.Append("amount", t.Amount)
	w.Append("date", t.Date)
	w.Append("description", t.Description)
	w.Append("timestamp", millis(t.CreatedAt))
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          string     `json:"id"`
		Type        string     `json:"type"`
		Amount      flexAmount `json:"amount"`
		Date        date.Date  `json:"date"`
		Description string     `json:"description"`
		Timestamp   int64      `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	kind, err := ParseKind(temp.Type)
	if err != nil {
		return fmt.Errorf("transaction %q: %w", temp.ID, err)
	}
	amount := decimal.Decimal(temp.Amount)
	if !amount.IsPositive() {
		return fmt.Errorf("transaction %q: %w", temp.ID, invalid("amount", "must be positive, got %s", amount))
	}
	createdAt := fromMillis(temp.Timestamp)
	on := temp.Date
	if on.IsZero() {
		// entered without a business date: it happened when it was entered
		if createdAt.IsZero() {
			return fmt.Errorf("transaction %q: %w", temp.ID, invalid("date", "is required"))
		}
		on = date.Of(createdAt)
	}
	if temp.ID == "" {
		temp.ID = uuid.NewString()
	}
	*t = Transaction{
		ID:          temp.ID,
		Kind:        kind,
		Amount:      amount,
		Date:        on,
		Description: temp.Description,
		CreatedAt:   createdAt,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Ledger.
// Transactions are written in entry order.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	txs := l.History()
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
	var w jsonObjectWriter
	w.Append("id", l.id)
	w.Append("name", l.name)
	w.Append("contactNo", l.contact)
	w.Append("openingAmount", l.balance)
	w.Append("transactions", txs)
	w.Append("createdAt", millis(l.createdAt))
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Ledger.
//
// It normalizes what older data may lack: a missing transaction list is
// empty, a missing or null openingAmount is zero, and missing ids are
// generated. A transaction id already used in the ledger is replaced by a
// new one, so that both transactions are kept.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID            string        `json:"id"`
		Name          string        `json:"name"`
		ContactNo     string        `json:"contactNo"`
		OpeningAmount flexAmount    `json:"openingAmount"`
		Transactions  []Transaction `json:"transactions"`
		CreatedAt     int64         `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.ID == "" {
		temp.ID = uuid.NewString()
	}
	nl := newLedger(temp.ID, temp.Name, temp.ContactNo, fromMillis(temp.CreatedAt), decimal.Decimal(temp.OpeningAmount))
	for _, tx := range temp.Transactions {
		if _, dup := nl.txs[tx.ID]; dup {
			id := uuid.NewString()
			log.Printf("ledger %q: duplicate transaction id %q renamed %q", nl.name, tx.ID, id)
			tx.ID = id
		}
		nl.txs[tx.ID] = tx
	}
	nl.opening = nl.TrueOpeningBalance()
	*l = *nl
	return nil
}

// DecodeLedgers decodes a JSON array of ledgers. Empty input and null
// decode to no ledgers.
func DecodeLedgers(data []byte) ([]*Ledger, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var ledgers []*Ledger
	if err := json.Unmarshal(data, &ledgers); err != nil {
		return nil, fmt.Errorf("cannot decode ledgers: %w", err)
	}
	// a null element decodes to a nil *Ledger
	kept := ledgers[:0]
	for _, l := range ledgers {
		if l != nil {
			kept = append(kept, l)
		}
	}
	return kept, nil
}

// EncodeLedgers writes ledgers as a JSON array, indented if indent is set.
func EncodeLedgers(w io.Writer, ledgers []*Ledger, indent bool) error {
	if ledgers == nil {
		ledgers = []*Ledger{}
	}
	data, err := json.Marshal(ledgers)
	if err != nil {
		return fmt.Errorf("cannot encode ledgers: %w", err)
	}
	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("cannot indent ledgers: %w", err)
		}
		data = buf.Bytes()
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write ledgers: %w", err)
	}
	return nil
}

// flexAmount decodes an amount written either as a JSON number or as a
// numeric string. null and "" decode to zero.
type flexAmount decimal.Decimal

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*a = flexAmount(decimal.Zero)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = flexAmount(d)
	return nil
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
