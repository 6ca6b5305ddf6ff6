package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/etnz/fintrack"
)

func TestOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ledgers")
	b, err := Open(KindDir, dir)
	if err != nil {
		t.Fatalf("Open(dir) error = %v", err)
	}
	if d, ok := b.(*Dir); !ok || d.Path() != dir {
		t.Errorf("Open(dir) = %#v, want a Dir at %s", b, dir)
	}

	b, err = Open("MEMORY", "")
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := b.(*Memory); !ok {
		t.Errorf("Open(memory) = %T, want *Memory", b)
	}

	for _, tc := range []struct{ kind, location string }{
		{"dir", ""},
		{"sqlite", ""},
		{"postgres", ""},
		{"s3", "bucket"},
	} {
		if _, err := Open(tc.kind, tc.location); err == nil {
			t.Errorf("Open(%q, %q) succeeded, want an error", tc.kind, tc.location)
		}
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, err := m.Get(ctx, "k"); !errors.Is(err, fintrack.ErrNoValue) {
		t.Fatalf("Get(missing) error = %v, want ErrNoValue", err)
	}
	value := []byte("v")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x' // the stored value is a copy
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get() = %q, %v, want v", got, err)
	}
}
