package domain

import (
	"errors"
	"fmt"
)

// ErrSupplyExhausted is returned when a reservoir would have to advance past its last well.
// It is fatal for the run.
var ErrSupplyExhausted = errors.New("reagent supply exhausted")

// ErrResourceExhausted is returned when a consumable pool is empty and was not replenished.
// It is recoverable through operator confirmation.
var ErrResourceExhausted = errors.New("resource exhausted")

// ErrInvalidRequest marks caller bugs: non-positive volumes, unknown reservoirs or pools.
var ErrInvalidRequest = errors.New("invalid request")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// SupplyExhaustedError carries the reagent and well that ran dry.
type SupplyExhaustedError struct {
	Reservoir string
	Well      int
	WellCount int
	Remaining float64
	Requested float64
}

func (e *SupplyExhaustedError) Error() string {
	return fmt.Sprintf("%s: %s well %d/%d holds %g, need %g",
		ErrSupplyExhausted, e.Reservoir, e.Well+1, e.WellCount, e.Remaining, e.Requested)
}

func (e *SupplyExhaustedError) Unwrap() error { return ErrSupplyExhausted }

// ResourceExhaustedError identifies the pool that needs replenishment.
type ResourceExhaustedError struct {
	Pool     string
	Capacity int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("%s: pool %s used all %d units", ErrResourceExhausted, e.Pool, e.Capacity)
}

func (e *ResourceExhaustedError) Unwrap() error { return ErrResourceExhausted }

// InvalidRequestError describes a rejected call.
type InvalidRequestError struct {
	Op      string // Operation that was called
	Subject string // Reservoir, pool or field name
	Reason  string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrInvalidRequest, e.Op, e.Subject, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// IsFatal reports whether err must stop a run.
// Only resource exhaustion is expected to be handled interactively.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrResourceExhausted)
}
