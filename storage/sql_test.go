package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/etnz/fintrack"
)

func newMock(t *testing.T, driver string) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.ExpectExec("create table if not exists kv").WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewSQL(context.Background(), db, driver)
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	return s, mock
}

func TestSQL_Get(t *testing.T) {
	ctx := context.Background()
	s, mock := newMock(t, DriverSQLite)

	query := regexp.QuoteMeta(`select value from kv where key = ?`)
	mock.ExpectQuery(query).WithArgs("k").WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(query).WithArgs("broken").WillReturnError(errors.New("disk I/O error"))

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "[]" {
		t.Errorf("Get(k) = %q, %v, want []", got, err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, fintrack.ErrNoValue) {
		t.Errorf("Get(missing) error = %v, want ErrNoValue", err)
	}
	if _, err := s.Get(ctx, "broken"); err == nil || errors.Is(err, fintrack.ErrNoValue) {
		t.Errorf("Get(broken) error = %v, want a read error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQL_Set(t *testing.T) {
	testCases := []struct {
		driver string
		query  string
	}{
		{DriverSQLite, `insert into kv (key, value) values (?, ?) on conflict (key) do update set value = excluded.value`},
		{DriverPostgres, `insert into kv (key, value) values ($1, $2) on conflict (key) do update set value = excluded.value`},
	}
	for _, tc := range testCases {
		t.Run(tc.driver, func(t *testing.T) {
			s, mock := newMock(t, tc.driver)
			mock.ExpectExec(regexp.QuoteMeta(tc.query)).WithArgs("k", `[{"id":"a"}]`).WillReturnResult(sqlmock.NewResult(1, 1))
			if err := s.Set(context.Background(), "k", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSQL_SchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectExec("create table").WillReturnError(errors.New("read-only database"))
	if _, err := NewSQL(context.Background(), db, DriverSQLite); err == nil {
		t.Errorf("NewSQL() succeeded, want a schema error")
	}
}

func TestSQL_Storage(t *testing.T) {
	ctx := context.Background()
	s, mock := newMock(t, DriverPostgres)
	mock.ExpectQuery(regexp.QuoteMeta(`select value from kv where key = $1`)).
		WithArgs(fintrack.StorageKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"l1","name":"Ravi","contactNo":"1","openingAmount":"42.5"}]`))

	book, err := fintrack.OpenBook(ctx, fintrack.NewStorage(s))
	if err != nil {
		t.Fatalf("OpenBook() error = %v", err)
	}
	l, err := book.Ledger("l1")
	if err != nil {
		t.Fatal(err)
	}
	if l.Balance().String() != "42.5" {
		t.Errorf("Balance() = %s, want 42.5", l.Balance())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQL_Rebind(t *testing.T) {
	s := &SQL{driver: DriverPostgres}
	if got, want := s.rebind("a = ? and b = ?"), "a = $1 and b = $2"; got != want {
		t.Errorf("rebind() = %q, want %q", got, want)
	}
	s.driver = DriverSQLite
	if got, want := s.rebind("a = ?"), "a = ?"; got != want {
		t.Errorf("rebind() = %q, want %q", got, want)
	}
}
