package fintrack

import (
	"bytes"
	"context"
	"errors"
	"log"
)

// StorageKey is the key under which the ledger collection is stored.
const StorageKey = "fintrack_ledgers"

// corruptSuffix is appended to the storage key to keep a copy of a payload
// that could not be decoded.
const corruptSuffix = ".corrupt"

// Persister loads and saves the whole ledger collection.
type Persister interface {
	Load(ctx context.Context) ([]*Ledger, error)
	Save(ctx context.Context, ledgers []*Ledger) error
}

// ErrNoValue is returned by KV.Get when the key has never been set.
var ErrNoValue = errors.New("no value")

// KV is a key-value store holding raw payloads.
type KV interface {
	// Get returns the value of key, or ErrNoValue.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value of key.
	Set(ctx context.Context, key string, value []byte) error
}

// Storage is the Persister keeping the ledger collection as a single JSON
// document in a KV.
type Storage struct {
	kv  KV
	key string
}

// NewStorage returns a Storage over kv, using StorageKey.
func NewStorage(kv KV) *Storage { return &Storage{kv: kv, key: StorageKey} }

// Load implements Persister.
//
// A missing value is an empty collection. A value that cannot be decoded is
// copied under the key with a ".corrupt" suffix, so that the next Save cannot
// destroy it, and Load returns a *PersistenceError.
func (s *Storage) Load(ctx context.Context) ([]*Ledger, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNoValue) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	ledgers, err := DecodeLedgers(data)
	if err != nil {
		backup := s.key + corruptSuffix
		if berr := s.kv.Set(ctx, backup, data); berr != nil {
			return nil, &PersistenceError{Op: "load", Err: errors.Join(err, berr)}
		}
		log.Printf("malformed ledgers copied to %q", backup)
		return nil, &PersistenceError{Op: "load", Err: err, Backup: backup}
	}
	return ledgers, nil
}

// Save implements Persister.
func (s *Storage) Save(ctx context.Context, ledgers []*Ledger) error {
	var buf bytes.Buffer
	if err := EncodeLedgers(&buf, ledgers, false); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := s.kv.Set(ctx, s.key, buf.Bytes()); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}
