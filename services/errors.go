package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means a mutating operation was attempted
	// without an identity. The store is never contacted in that case.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrEmptyCart means checkout was attempted on an absent or empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrStoreUnavailable wraps any backend failure. No operation retries;
	// the cart stays in its last persisted state and the caller re-invokes.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreError carries the operation name and cause of a failed store call.
// errors.Is(err, ErrStoreUnavailable) matches it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
