package history

import "errors"

var (
	// ErrNotFound is returned when no run matches an identifier.
	ErrNotFound = errors.New("history: run not found")
	// ErrAmbiguousID is returned when an identifier prefix matches several runs.
	ErrAmbiguousID = errors.New("history: identifier prefix is ambiguous")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("history: schema version mismatch")
)
