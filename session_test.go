package rehearse

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func dueCards(n int, now time.Time) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			ID:         string(rune('a' + i)),
			Domain:     DomainLogic,
			State:      Review,
			Stability:  5,
			Difficulty: 5,
			Due:        now.AddDate(0, 0, -1),
		}
	}
	return cards
}

// TestComposeSession_Empty verifies an empty due set yields an empty plan
// without error.
func TestComposeSession_Empty(t *testing.T) {
	plan, err := ComposeSession(nil, 0.5, 30, LogicProfile(), time.Now())
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 0 {
		t.Errorf("items = %d, want 0", len(plan.Items))
	}
	if plan.Reasoning == "" {
		t.Error("empty plan should still carry reasoning")
	}
}

// TestComposeSession_BaseSizeClampedToProfile verifies the due count is
// clamped into the profile's item bounds before scaling.
func TestComposeSession_BaseSizeClampedToProfile(t *testing.T) {
	now := time.Now().UTC()

	// 20 due, logic max 8, moderate load, generous time.
	plan, err := ComposeSession(dueCards(20, now), 0.5, 120, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 8 {
		t.Errorf("items = %d, want profile max 8", len(plan.Items))
	}

	// 2 due: base is lifted to the profile min but never past the due count.
	plan, err = ComposeSession(dueCards(2, now), 0.5, 120, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 2 {
		t.Errorf("items = %d, want all 2 due", len(plan.Items))
	}
}

// TestComposeSession_HighLoadHalves verifies sessions shrink under high
// cognitive load, with a floor of two items.
func TestComposeSession_HighLoadHalves(t *testing.T) {
	now := time.Now().UTC()

	plan, err := ComposeSession(dueCards(20, now), 0.85, 120, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 4 {
		t.Errorf("items = %d, want 8/2 = 4", len(plan.Items))
	}
	if !strings.Contains(plan.Reasoning, "high cognitive load") {
		t.Errorf("reasoning %q should mention high cognitive load", plan.Reasoning)
	}

	// Small session: halving 3 would go below the floor of 2.
	plan, err = ComposeSession(dueCards(3, now), 0.95, 120, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 2 {
		t.Errorf("items = %d, want floor of 2", len(plan.Items))
	}
}

// TestComposeSession_ElevatedLoadTrims verifies the 0.7x band in (0.6, 0.8].
func TestComposeSession_ElevatedLoadTrims(t *testing.T) {
	now := time.Now().UTC()

	plan, err := ComposeSession(dueCards(10, now), 0.7, 120, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 5 {
		t.Errorf("items = %d, want floor(8*0.7) = 5", len(plan.Items))
	}
}

// TestComposeSession_LowLoadExpands verifies the 1.3x expansion below 0.3,
// capped at the due count.
func TestComposeSession_LowLoadExpands(t *testing.T) {
	now := time.Now().UTC()

	plan, err := ComposeSession(dueCards(20, now), 0.1, 120, FlashcardProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 16 {
		t.Errorf("items = %d, want ceil(12*1.3) = 16", len(plan.Items))
	}

	// Expansion can never invent cards beyond the due set.
	plan, err = ComposeSession(dueCards(6, now), 0.1, 120, FlashcardProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 6 {
		t.Errorf("items = %d, want all 6 due", len(plan.Items))
	}
}

// TestComposeSession_TimeBudgetCaps verifies the per-item time estimate
// caps the session size.
func TestComposeSession_TimeBudgetCaps(t *testing.T) {
	now := time.Now().UTC()

	// 20 minutes / 4.5 min per logic item = 4.
	plan, err := ComposeSession(dueCards(20, now), 0.5, 20, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 4 {
		t.Errorf("items = %d, want 4 under the 20-minute budget", len(plan.Items))
	}
	if !strings.Contains(plan.Reasoning, "minute budget") {
		t.Errorf("reasoning %q should mention the time budget", plan.Reasoning)
	}

	// No time at all yields an empty session.
	plan, err = ComposeSession(dueCards(5, now), 0.5, 2, LogicProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}
	if len(plan.Items) != 0 {
		t.Errorf("items = %d, want 0 with a 2-minute budget", len(plan.Items))
	}
}

// TestComposeSession_PriorityOrdering verifies harder and more-overdue
// cards surface first.
func TestComposeSession_PriorityOrdering(t *testing.T) {
	now := time.Now().UTC()

	cards := []Card{
		{ID: "easy-fresh", Difficulty: 2, Due: now},
		{ID: "hard-fresh", Difficulty: 9, Due: now},
		{ID: "easy-overdue", Difficulty: 2, Due: now.AddDate(0, 0, -20)},
		{ID: "hard-overdue", Difficulty: 9, Due: now.AddDate(0, 0, -10)},
	}

	plan, err := ComposeSession(cards, 0.5, 120, FlashcardProfile(), now)
	if err != nil {
		t.Fatalf("ComposeSession failed: %v", err)
	}

	// Priorities: hard-overdue 28, easy-overdue 24, hard-fresh 18, easy-fresh 4.
	want := []string{"hard-overdue", "easy-overdue", "hard-fresh", "easy-fresh"}
	if len(plan.Items) != len(want) {
		t.Fatalf("items = %d, want %d", len(plan.Items), len(want))
	}
	for i, id := range want {
		if plan.Items[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, plan.Items[i].ID, id)
		}
	}
}

// TestComposeSession_InvalidLoad verifies loads outside [0, 1] are rejected.
func TestComposeSession_InvalidLoad(t *testing.T) {
	now := time.Now().UTC()
	for _, load := range []float64{-0.5, 1.01} {
		if _, err := ComposeSession(dueCards(5, now), load, 30, LogicProfile(), now); !errors.Is(err, ErrInvalidLoad) {
			t.Errorf("ComposeSession(load=%g) error = %v, want ErrInvalidLoad", load, err)
		}
	}
}

// TestProfileForDomain verifies the per-domain profiles.
func TestProfileForDomain(t *testing.T) {
	logic := ProfileForDomain(DomainLogic)
	if logic != LogicProfile() {
		t.Errorf("logic profile = %+v", logic)
	}
	flash := ProfileForDomain(DomainFlashcard)
	if flash != FlashcardProfile() {
		t.Errorf("flashcard profile = %+v", flash)
	}
	// Unspecified domain falls back to the lighter profile.
	if ProfileForDomain("") != FlashcardProfile() {
		t.Error("empty domain should use the flashcard profile")
	}
}
