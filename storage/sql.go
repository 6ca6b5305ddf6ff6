package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/fintrack"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Driver names registered by the drivers above.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const schema = `create table if not exists kv (
	key   text primary key,
	value text not null
)`

// SQL stores values in the kv table of a database.
type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQLite opens or creates the SQLite database file at path.
func OpenSQLite(path string) (*SQL, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite storage requires a database file")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open(DriverSQLite, fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return connect(db, DriverSQLite)
}

// OpenPostgres connects to the PostgreSQL database at dsn.
func OpenPostgres(dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage requires a connection string")
	}
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return connect(db, DriverPostgres)
}

func connect(db *sql.DB, driver string) (*SQL, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s, err := NewSQL(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL returns an SQL storage over db, creating the kv table if needed.
// driver selects the placeholder syntax: DriverPostgres uses $1, $2…, any
// other driver uses ?.
func NewSQL(ctx context.Context, db *sql.DB, driver string) (*SQL, error) {
	s := &SQL{db: db, driver: driver}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// rebind rewrites ? placeholders for the driver.
func (s *SQL) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get implements fintrack.KV.
func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.rebind(`select value from kv where key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fintrack.ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return []byte(value), nil
}

// Set implements fintrack.KV.
func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	query := s.rebind(`insert into kv (key, value) values (?, ?) on conflict (key) do update set value = excluded.value`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQL) Close() error { return s.db.Close() }
