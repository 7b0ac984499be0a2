package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrUnknownTable signals an admin table name that has no collection behind it.
	ErrUnknownTable = errors.New("unknown table")
	// ErrInvalidSeed signals seed data that cannot be loaded into the record store.
	ErrInvalidSeed = errors.New("invalid seed data")
)

// RecordNotFoundError wraps ErrNotFound with the record kind and id.
type RecordNotFoundError struct {
	Kind string
	ID   string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, ErrNotFound.Error())
}

func (e *RecordNotFoundError) Unwrap() error { return ErrNotFound }

// NewRecordNotFound creates a not-found error for a record of the given kind.
func NewRecordNotFound(kind, id string) error {
	return &RecordNotFoundError{Kind: kind, ID: id}
}
