package domain

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned when a transition space is requested outside of a mounted provider.
// It signals an integration mistake, not a runtime condition.
var ErrNoProvider = errors.New("transition space requested outside of a provider")

// ErrNotMounted is returned when the orchestrator is used before Mount.
var ErrNotMounted = errors.New("orchestrator is not mounted")

// ErrAlreadyMounted is returned when Mount is called twice.
var ErrAlreadyMounted = errors.New("orchestrator is already mounted")

// ErrClosed is returned when the orchestrator has been closed.
var ErrClosed = errors.New("orchestrator is closed")

// CallbackError reports a registration whose callback failed during a cycle.
type CallbackError struct {
	RegistrationID uint64
	Path           string
	Cause          error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("transition callback %d failed for path %q: %v", e.RegistrationID, e.Path, e.Cause)
}

func (e *CallbackError) Unwrap() error {
	return e.Cause
}
