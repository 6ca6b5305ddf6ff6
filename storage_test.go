package fintrack

import (
	"context"
	"errors"
	"testing"
)

func TestStorage_LoadMissing(t *testing.T) {
	ledgers, err := NewStorage(newMemKV()).Load(context.Background())
	if err != nil || len(ledgers) != 0 {
		t.Errorf("Load() = %v, %v, want no ledgers and no error", ledgers, err)
	}
}

func TestStorage_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	kv := newMemKV()
	kv.getErr = boom
	_, err := NewStorage(kv).Load(ctx)
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "load" || !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want a load *PersistenceError wrapping %v", err, boom)
	}

	kv = newMemKV()
	kv.setErr = boom
	err = NewStorage(kv).Save(ctx, nil)
	if !errors.As(err, &perr) || perr.Op != "save" || !errors.Is(err, boom) {
		t.Errorf("Save() error = %v, want a save *PersistenceError wrapping %v", err, boom)
	}
}

func TestStorage_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewStorage(kv)
	l := newLedger("l1", "Ravi", "1", now, dec("12.5"))
	if err := s.Save(ctx, []*Ledger{l}); err != nil {
		t.Fatal(err)
	}
	if _, ok := kv.values[StorageKey]; !ok {
		t.Fatalf("nothing saved under %q, keys are %v", StorageKey, kv.keys())
	}
	ledgers, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ledgers) != 1 {
		t.Fatalf("got %d ledgers", len(ledgers))
	}
	assertBalance(t, ledgers[0], "12.5")
}
