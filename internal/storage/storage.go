// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"
)

// ErrPersistence marks checkpoint read/write failures. On the poll
// path these are retryable; a write failure after an alert has been
// emitted is the one case callers must surface loudly, since it risks
// a duplicate alert on the next cycle.
var ErrPersistence = errors.New("checkpoint persistence failure")

// Storage is the durable dedup checkpoint: the id of the last event
// that triggered an alert. It is the only state that survives a
// restart, and the only thing preventing duplicate alerts after one.
type Storage interface {
	// LastAlertID returns the checkpoint value, or the empty string
	// when no alert has ever been issued.
	LastAlertID(ctx context.Context) (string, error)
	// SetLastAlertID overwrites the checkpoint atomically. A reader
	// never observes a half-written value.
	SetLastAlertID(ctx context.Context, id string) error

	Close() error
}
