package rehearse

import (
	"errors"
	"fmt"
)

// Common errors returned by the rehearse core and store.
// Check with errors.Is: errors.Is(err, rehearse.ErrInvalidRating)
var (
	// ErrInvalidRating is returned when a rating is outside the canonical
	// set {Again, Hard, Good, Easy} or a domain score is out of range.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidCardState is returned when a card violates its invariants
	// on entry to the scheduler. This indicates an upstream bug; the card
	// is rejected rather than silently corrected.
	ErrInvalidCardState = errors.New("invalid card state")

	// ErrInvalidLoad is returned when a cognitive load estimate is outside [0, 1].
	ErrInvalidLoad = errors.New("cognitive load out of range")

	// ErrCardNotFound is returned when a card ID does not exist in the store.
	ErrCardNotFound = errors.New("card not found")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrLogMismatch is returned when a review log belongs to a different card.
	ErrLogMismatch = errors.New("review log card ID mismatch")

	// ErrInvalidParameters is returned when scheduler parameters are out of bounds.
	ErrInvalidParameters = errors.New("scheduler parameters out of bounds")
)

// ValidationError is returned when configuration validation fails.
// Extractable via errors.As().
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// InvariantError reports which card invariant failed on entry to the
// scheduler. It wraps ErrInvalidCardState so callers can check the class
// with errors.Is and inspect the failed invariant with errors.As.
type InvariantError struct {
	Invariant string // "stability", "difficulty", "due", "reps", "lapses", "state"
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidCardState, e.Invariant, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvalidCardState }
