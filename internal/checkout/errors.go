package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn: checkout attempted with no authenticated user. No
	// network call is made and the cart is preserved.
	ErrNotLoggedIn = errors.New("checkout: no authenticated user")

	// ErrCheckoutInFlight: a submission is already awaiting the backend.
	ErrCheckoutInFlight = errors.New("checkout: a sale submission is already in flight")
)

// RejectedError is a non-success status from the backend for the sale
// submission. The cart is preserved for retry.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("sale rejected by server (%d): %s", e.Status, e.Message)
}

// TransportError is a network-level failure during submission. The cart is
// preserved. OutcomeUnknown is set when the request may have reached the
// server (timeout, cancellation, unreadable answer): retrying such an attempt
// can create a duplicate sale, since the backend exposes no idempotency key.
type TransportError struct {
	Err            error
	OutcomeUnknown bool
}

func (e *TransportError) Error() string {
	if e.OutcomeUnknown {
		return fmt.Sprintf("sale submission failed with unknown outcome: %v", e.Err)
	}
	return fmt.Sprintf("sale submission failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
