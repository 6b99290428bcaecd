package window

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyOpen     = errors.New("app already open")
	ErrNotOpen         = errors.New("app not open")
	ErrElementNotFound = errors.New("window element not found")
	ErrInitialization  = errors.New("app initialization failed")
	ErrAppRegistered   = errors.New("app collaborator already registered")
)

// AlreadyOpenError is returned by Registry.Register for a present identifier.
// Surfacing it from OpenApp indicates a logic bug.
type AlreadyOpenError struct {
	AppID string
}

func (e *AlreadyOpenError) Error() string {
	return fmt.Sprintf("app %q already open", e.AppID)
}

func (e *AlreadyOpenError) Is(target error) bool {
	return target == ErrAlreadyOpen
}

// NotOpenError reports an operation on an unregistered identifier.
// The public API treats it as a silent no-op.
type NotOpenError struct {
	AppID string
}

func (e *NotOpenError) Error() string {
	return fmt.Sprintf("app %q not open", e.AppID)
}

func (e *NotOpenError) Is(target error) bool {
	return target == ErrNotOpen
}

// ElementNotFoundError reports a missing visual container. The open is
// aborted before any registry mutation.
type ElementNotFoundError struct {
	AppID string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("window element not found for app: %s", e.AppID)
}

func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// InitializationError wraps a collaborator Init failure. The window stays
// open and is not retried.
type InitializationError struct {
	AppID string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.AppID, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func (e *InitializationError) Is(target error) bool {
	return target == ErrInitialization
}
