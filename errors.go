package fintrack

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failed")
	ErrExport      = errors.New("export failed")

	// ErrNotLoaded is wrapped by the save errors of a book whose stored
	// ledgers could not be loaded, see Book.Overwrite.
	ErrNotLoaded = errors.New("stored ledgers were not loaded, refusing to overwrite them")
)

// ValidationError reports bad input. The mutation it comes from was not applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown ledger or transaction.
type NotFoundError struct {
	What string // "ledger" or "transaction"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.What, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError reports a load or save failure.
//
// It is never fatal: when returned by a Book mutation, the mutation has been
// applied in memory and the in-memory state remains authoritative.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
	// Backup is the key a payload that could not be decoded was copied to.
	// It is empty when nothing was kept.
	Backup string
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("cannot %s ledgers: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ExportError reports a failure to produce or deliver a report.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("cannot %s report: %v", e.Op, e.Err) }

func (e *ExportError) Unwrap() error { return e.Err }

func (e *ExportError) Is(target error) bool { return target == ErrExport }
