// Package storage provides the key-value backends the ledger collection is
// persisted to: a directory of files, an SQL database (SQLite or PostgreSQL)
// and memory.
package storage

import (
	"fmt"
	"strings"

	"github.com/etnz/fintrack"
)

// Backend is a fintrack.KV holding resources.
type Backend interface {
	fintrack.KV
	Close() error
}

// Kinds of backends accepted by Open.
const (
	KindDir      = "dir"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// Kinds lists the backend kinds, for flag help and completion.
var Kinds = []string{KindDir, KindSQLite, KindPostgres, KindMemory}

// Open opens the backend of that kind. location is a directory for "dir", a
// database file for "sqlite", a connection string for "postgres", and is
// ignored for "memory".
func Open(kind, location string) (Backend, error) {
	switch strings.ToLower(kind) {
	case KindDir, "":
		if location == "" {
			return nil, fmt.Errorf("dir storage requires a location")
		}
		return NewDir(location), nil
	case KindSQLite:
		return OpenSQLite(location)
	case KindPostgres:
		return OpenPostgres(location)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q, want one of %s", kind, strings.Join(Kinds, ", "))
	}
}
