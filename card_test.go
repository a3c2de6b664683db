package rehearse

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

// TestNewCard_Defaults verifies a fresh card is New and due immediately.
func TestNewCard_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	card := NewCard("card-1", DomainFlashcard, "irregular verbs", now)

	if card.State != New {
		t.Errorf("state = %v, want New", card.State)
	}
	if !card.Due.Equal(now) {
		t.Errorf("due = %v, want %v", card.Due, now)
	}
	if card.LastReview != nil {
		t.Error("fresh card should have nil LastReview")
	}
	if card.Reps != 0 || card.Lapses != 0 {
		t.Errorf("reps=%d lapses=%d, want 0/0", card.Reps, card.Lapses)
	}
	if card.Stability != 0 || card.Difficulty != 0 {
		t.Errorf("stability=%g difficulty=%g, want 0/0 before first review", card.Stability, card.Difficulty)
	}
}

// TestCard_DaysOverdue verifies overdue computation, including the zero
// floor for cards not yet due.
func TestCard_DaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	card := Card{Due: due}

	tests := []struct {
		now  time.Time
		want float64
	}{
		{due.AddDate(0, 0, -2), 0},
		{due, 0},
		{due.AddDate(0, 0, 3), 3},
		{due.Add(12 * time.Hour), 0.5},
	}

	for _, tt := range tests {
		if got := card.DaysOverdue(tt.now); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DaysOverdue(%v) = %g, want %g", tt.now, got, tt.want)
		}
	}
}

// TestCard_Validate verifies the invariant checks applied on entry to the
// scheduler. New cards are exempt from the memory bounds.
func TestCard_Validate(t *testing.T) {
	p := DefaultParameters()
	now := time.Now().UTC()
	lastReview := now.Add(-24 * time.Hour)

	valid := Card{State: Review, Stability: 10, Difficulty: 5, Due: now, LastReview: &lastReview}
	if err := valid.validate(p); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}

	newCard := Card{State: New}
	if err := newCard.validate(p); err != nil {
		t.Fatalf("New card should skip memory bounds: %v", err)
	}

	tests := []struct {
		name      string
		card      Card
		invariant string
	}{
		{"unknown state", Card{State: State(9)}, "state"},
		{"negative reps", Card{State: New, Reps: -1}, "reps"},
		{"negative lapses", Card{State: New, Lapses: -2}, "lapses"},
		{"zero stability", Card{State: Review, Stability: 0, Difficulty: 5}, "stability"},
		{"negative stability", Card{State: Review, Stability: -1, Difficulty: 5}, "stability"},
		{"difficulty below range", Card{State: Review, Stability: 1, Difficulty: 0.5}, "difficulty"},
		{"difficulty above range", Card{State: Review, Stability: 1, Difficulty: 11}, "difficulty"},
		{
			"due precedes last review",
			Card{State: Review, Stability: 1, Difficulty: 5, Due: lastReview.Add(-time.Hour), LastReview: &lastReview},
			"due",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.validate(p)
			if err == nil {
				t.Fatal("expected invariant error")
			}

			var inv *InvariantError
			if !errors.As(err, &inv) {
				t.Fatalf("error %v is not *InvariantError", err)
			}
			if inv.Invariant != tt.invariant {
				t.Errorf("invariant = %q, want %q", inv.Invariant, tt.invariant)
			}
			if !errors.Is(err, ErrInvalidCardState) {
				t.Error("InvariantError should unwrap to ErrInvalidCardState")
			}
		})
	}
}

// TestCard_JSONRoundTrip verifies a card serializes and parses back
// field-for-field, including the optional LastReview.
func TestCard_JSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)
	lastReview := now.AddDate(0, 0, -4)

	card := Card{
		ID:            "01JD0000000000000000000000",
		Domain:        DomainLogic,
		Label:         "syllogisms",
		State:         Relearning,
		Stability:     3.75,
		Difficulty:    6.2,
		Due:           now.AddDate(0, 0, 2),
		LastReview:    &lastReview,
		ElapsedDays:   4,
		ScheduledDays: 2,
		Reps:          11,
		Lapses:        2,
		CreatedAt:     now.AddDate(0, -1, 0),
		UpdatedAt:     now,
	}

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if back.ID != card.ID || back.Domain != card.Domain || back.State != card.State {
		t.Errorf("identity fields changed: %+v", back)
	}
	if back.Stability != card.Stability || back.Difficulty != card.Difficulty {
		t.Errorf("memory fields changed: %+v", back)
	}
	if !back.Due.Equal(card.Due) || !back.LastReview.Equal(*card.LastReview) {
		t.Errorf("timestamps changed: due=%v last=%v", back.Due, back.LastReview)
	}
	if back.Reps != card.Reps || back.Lapses != card.Lapses {
		t.Errorf("counters changed: %+v", back)
	}
}

// TestCard_CloneIsolation verifies clone copies pointer fields deeply.
func TestCard_CloneIsolation(t *testing.T) {
	lastReview := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	card := Card{ID: "c", LastReview: &lastReview}

	copied := card.clone()
	*copied.LastReview = copied.LastReview.AddDate(0, 0, 7)

	if !card.LastReview.Equal(lastReview) {
		t.Error("mutating the clone's LastReview changed the original")
	}
}
