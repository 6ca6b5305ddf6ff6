package fintrack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/google/go-cmp/cmp"
)

// sampleLedger returns a ledger opened at 1000 with a credit of 500 on Jan 10,
// a debit of 200 on Jan 20, and a credit of 100 on Feb 5 entered first.
func sampleLedger(t *testing.T) (*Book, *Ledger) {
	t.Helper()
	b, _ := newTestBook(t)
	l := mustCreate(t, b, "Ravi", "1000")
	mustAdd(t, b, l, Credit, "100", day(time.February, 5))
	mustAdd(t, b, l, Credit, "500", day(time.January, 10))
	mustAdd(t, b, l, Debit, "200", day(time.January, 20))
	return b, l
}

func TestLedger_RunningBalance(t *testing.T) {
	_, l := sampleLedger(t)

	testCases := []struct {
		name      string
		r         date.Range
		wantStart string
		want      []string
	}{
		{
			name:      "complete history",
			wantStart: "1000",
			want:      []string{"1500", "1300", "1400"},
		},
		{
			name:      "from a date",
			r:         date.Range{From: day(time.January, 15)},
			wantStart: "1500",
			want:      []string{"1300", "1400"},
		},
		{
			name:      "to a date",
			r:         date.Range{To: day(time.January, 31)},
			wantStart: "1000",
			want:      []string{"1500", "1300"},
		},
		{
			name:      "single day, bounds included",
			r:         date.NewRange(day(time.January, 20), day(time.January, 20)),
			wantStart: "1500",
			want:      []string{"1300"},
		},
		{
			name:      "no transaction in range",
			r:         date.NewRange(day(time.January, 21), day(time.February, 1)),
			wantStart: "1300",
			want:      []string{},
		},
		{
			name:      "after everything",
			r:         date.Range{From: day(time.March, 1)},
			wantStart: "1400",
			want:      []string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, rows, err := l.RunningBalance(tc.r)
			if err != nil {
				t.Fatalf("RunningBalance() error = %v", err)
			}
			if !start.Equal(dec(tc.wantStart)) {
				t.Errorf("start = %s, want %s", start, tc.wantStart)
			}
			got := make([]string, len(rows))
			for i, row := range rows {
				got[i] = row.Balance.String()
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("balances mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLedger_RunningBalance_ClosesOnBalance(t *testing.T) {
	_, l := sampleLedger(t)
	for _, r := range []date.Range{{}, {From: day(time.January, 11)}, {To: day(time.March, 15)}} {
		_, rows, err := l.RunningBalance(r)
		if err != nil {
			t.Fatal(err)
		}
		if last := rows[len(rows)-1].Balance; !last.Equal(l.Balance()) {
			t.Errorf("RunningBalance(%v) ends at %s, want the balance %s", r, last, l.Balance())
		}
	}
}

func TestLedger_RunningBalance_SameDayInEntryOrder(t *testing.T) {
	b, _ := newTestBook(t)
	l := mustCreate(t, b, "Ravi", "0")
	first := mustAdd(t, b, l, Credit, "10", day(time.March, 1))
	second := mustAdd(t, b, l, Debit, "3", day(time.March, 1))
	_, rows, err := l.RunningBalance(date.Range{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Errorf("same day transactions out of entry order")
	}
	if !rows[0].Balance.Equal(dec("10")) || !rows[1].Balance.Equal(dec("7")) {
		t.Errorf("got balances %s, %s, want 10, 7", rows[0].Balance, rows[1].Balance)
	}
}

func TestLedger_RunningBalance_InvertedRange(t *testing.T) {
	_, l := sampleLedger(t)
	_, _, err := l.RunningBalance(date.NewRange(day(time.February, 1), day(time.January, 1)))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("RunningBalance() error = %v, want ErrValidation", err)
	}
}

func TestLedger_EmptyLedger(t *testing.T) {
	b, _ := newTestBook(t)
	l := mustCreate(t, b, "Ravi", "-42")
	if got := l.TrueOpeningBalance(); !got.Equal(l.Balance()) {
		t.Errorf("TrueOpeningBalance() = %s, want the balance %s", got, l.Balance())
	}
	start, rows, err := l.RunningBalance(date.Range{})
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(dec("-42")) || len(rows) != 0 {
		t.Errorf("RunningBalance() = %s, %v, want -42 and no rows", start, rows)
	}
}

func TestLedger_BroughtForward(t *testing.T) {
	_, l := sampleLedger(t)
	testCases := []struct {
		cutoff date.Date
		want   string
	}{
		{cutoff: day(time.January, 1), want: "1000"},
		{cutoff: day(time.January, 10), want: "1000"}, // same day is excluded
		{cutoff: day(time.January, 11), want: "1500"},
		{cutoff: day(time.February, 6), want: "1400"},
	}
	for _, tc := range testCases {
		if got := l.BroughtForward(tc.cutoff); !got.Equal(dec(tc.want)) {
			t.Errorf("BroughtForward(%s) = %s, want %s", tc.cutoff, got, tc.want)
		}
	}
}

func TestLedger_Statement(t *testing.T) {
	_, l := sampleLedger(t)
	today := day(time.March, 15)

	s, err := l.Statement(date.Range{}, today)
	if err != nil {
		t.Fatalf("Statement() error = %v", err)
	}
	if want := date.NewRange(day(time.March, 15), today); s.Period != want {
		t.Errorf("Period = %v, want %v", s.Period, want)
	}
	if s.Name != "Ravi" || s.Contact != "Ravi contact" {
		t.Errorf("got %q %q", s.Name, s.Contact)
	}
	if !s.Opening.Equal(dec("1000")) || !s.Closing.Equal(dec("1400")) || len(s.Rows) != 3 {
		t.Errorf("got opening %s closing %s and %d rows", s.Opening, s.Closing, len(s.Rows))
	}

	s, err = l.Statement(date.Range{From: day(time.March, 1)}, today)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Opening.Equal(dec("1400")) || !s.Closing.Equal(s.Opening) || len(s.Rows) != 0 {
		t.Errorf("empty period: got opening %s closing %s and %d rows", s.Opening, s.Closing, len(s.Rows))
	}
}

func TestLedger_VerifyDetectsDrift(t *testing.T) {
	b, l := sampleLedger(t)
	if err := b.Verify(); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	l.balance = l.balance.Add(dec("0.01"))
	if err := l.Verify(); err == nil {
		t.Errorf("Verify() did not detect a drifted balance")
	}
	if err := b.Verify(); err == nil {
		t.Errorf("Book.Verify() did not detect a drifted balance")
	}
}

func TestLedger_VerifyAfterReload(t *testing.T) {
	ctx := context.Background()
	b, kv := newTestBook(t)
	l := mustCreate(t, b, "Ravi", "10")
	mustAdd(t, b, l, Debit, "3", day(time.March, 1))
	reloaded, err := OpenBook(ctx, NewStorage(kv))
	if err != nil {
		t.Fatal(err)
	}
	if err := reloaded.Verify(); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
