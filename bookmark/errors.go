package bookmark

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest marks malformed or incomplete client input.
	ErrBadRequest = errors.New("bad request")
	// ErrStoreUnavailable marks any failure of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field string
	Tag   string
}

func (e *ValidationError) Error() string {
	if e.Tag == "required" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s failed on the '%s' rule", e.Field, e.Tag)
}

func (e *ValidationError) Is(target error) bool { return target == ErrBadRequest }

// StoreError wraps a backend failure with the adapter operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("bookmark store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }
