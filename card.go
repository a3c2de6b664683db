package rehearse

import (
	"fmt"
	"time"
)

// Domain identifies which review domain a card belongs to. The two domains
// feed the same scheduling core through different rating scales and session
// profiles.
type Domain string

const (
	DomainFlashcard Domain = "flashcard"
	DomainLogic     Domain = "logic"
)

// IsValid reports whether d is a known review domain.
func (d Domain) IsValid() bool {
	return d == DomainFlashcard || d == DomainLogic
}

// Card is the unit under scheduling. It holds the memory-strength model
// for one piece of learning material and is mutated exclusively through
// Engine.Schedule.
type Card struct {
	ID     string `json:"id"`
	Domain Domain `json:"domain"`
	Label  string `json:"label,omitempty"`

	State      State   `json:"state"`
	Stability  float64 `json:"stability"`  // days until retrievability decays to ~90%
	Difficulty float64 `json:"difficulty"` // [1, 10], higher decays faster

	Due        time.Time  `json:"due"`
	LastReview *time.Time `json:"last_review,omitempty"` // nil before first review

	ElapsedDays   int `json:"elapsed_days"`   // days between LastReview and the processed review
	ScheduledDays int `json:"scheduled_days"` // interval planned for the processed review

	Reps   int `json:"reps"`   // completed reviews, monotonically non-decreasing
	Lapses int `json:"lapses"` // Again ratings while in Review/Relearning

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card in the New state, due immediately.
// The ID is assigned by the store on insert if empty.
func NewCard(id string, domain Domain, label string, now time.Time) Card {
	return Card{
		ID:        id,
		Domain:    domain,
		Label:     label,
		State:     New,
		Due:       now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// clone returns a deep copy of the card. Pointer fields are copied by value.
func (c Card) clone() Card {
	out := c
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}

// DaysOverdue returns how many days past due the card is at the given time.
// Returns 0 for cards not yet due.
func (c Card) DaysOverdue(now time.Time) float64 {
	if !now.After(c.Due) {
		return 0
	}
	return now.Sub(c.Due).Hours() / 24.0
}

// validate checks the card invariants that must hold on entry to the
// scheduler. New cards are exempt from the stability/difficulty bounds
// because both are seeded on first review.
func (c Card) validate(p Parameters) error {
	if !c.State.IsValid() {
		return &InvariantError{Invariant: "state", Detail: fmt.Sprintf("unknown state %d", int(c.State))}
	}
	if c.Reps < 0 {
		return &InvariantError{Invariant: "reps", Detail: fmt.Sprintf("negative rep count %d", c.Reps)}
	}
	if c.Lapses < 0 {
		return &InvariantError{Invariant: "lapses", Detail: fmt.Sprintf("negative lapse count %d", c.Lapses)}
	}
	if c.State == New {
		return nil
	}
	if c.Stability <= 0 || c.Stability > p.MaxStability {
		return &InvariantError{Invariant: "stability", Detail: fmt.Sprintf("%g outside (0, %g]", c.Stability, p.MaxStability)}
	}
	if c.Difficulty < minDifficulty || c.Difficulty > maxDifficulty {
		return &InvariantError{Invariant: "difficulty", Detail: fmt.Sprintf("%g outside [%g, %g]", c.Difficulty, minDifficulty, maxDifficulty)}
	}
	if c.LastReview != nil && c.Due.Before(*c.LastReview) {
		return &InvariantError{Invariant: "due", Detail: "due precedes last review"}
	}
	return nil
}
