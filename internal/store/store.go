package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every error a backend returns when the
// underlying store cannot be reached or the operation cannot be completed.
var ErrUnavailable = errors.New("store unavailable")

// Store is an atomic counter store. Each record is addressed by a key and
// holds integer fields that only ever grow by one.
type Store interface {
	// Increment atomically adds one to field under key and returns the new
	// value. A missing record is created with the field set to 1.
	Increment(ctx context.Context, key, field string) (int64, error)

	// Get returns the current value of field under key, or 0 if either the
	// record or the field does not exist.
	Get(ctx context.Context, key, field string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}

// UnavailableError describes a failed backend operation.
type UnavailableError struct {
	Backend string
	Op      string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is reports ErrUnavailable as a match so callers need not know the concrete type.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func unavailable(backend, op string, err error) error {
	return &UnavailableError{Backend: backend, Op: op, Err: err}
}
