package store

import (
	"errors"
	"fmt"
)

// NotFoundError indicates an operation referenced a chat that does not
// exist. This is a hard failure: it points at a caller bug, not a runtime
// condition to recover from.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

var (
	// ErrEmptyMessage is returned when SendMessage is called with blank text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoAPIKey is returned when SendMessage is called before an API key
	// has been configured. No network call is attempted.
	ErrNoAPIKey = errors.New("API key is not set")

	// ErrNoExecutor is returned when SendMessage is called on a store
	// constructed without a remote executor.
	ErrNoExecutor = errors.New("no executor configured")
)
