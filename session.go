package rehearse

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// MaterialProfile holds per-domain session constants: how many items a
// session should contain before scaling, and how long one item takes.
type MaterialProfile struct {
	MinItems       int     `json:"min_items"`
	MaxItems       int     `json:"max_items"`
	MinutesPerItem float64 `json:"minutes_per_item"`
}

// LogicProfile is the session profile for logic-training exercises.
// Demanding material gets tight size bounds and a long per-item estimate.
func LogicProfile() MaterialProfile {
	return MaterialProfile{MinItems: 3, MaxItems: 8, MinutesPerItem: 4.5}
}

// FlashcardProfile is the session profile for flashcards. Lighter material
// gets looser bounds and a short per-item estimate.
func FlashcardProfile() MaterialProfile {
	return MaterialProfile{MinItems: 5, MaxItems: 12, MinutesPerItem: 1.5}
}

// ProfileForDomain returns the session profile for a review domain.
func ProfileForDomain(d Domain) MaterialProfile {
	if d == DomainLogic {
		return LogicProfile()
	}
	return FlashcardProfile()
}

// SessionPlan is an ordered review session with a human-readable
// justification of how the size was chosen.
type SessionPlan struct {
	Items     []Card `json:"items"`
	Reasoning string `json:"reasoning"`
}

// ComposeSession selects and orders due cards for a review session.
//
// The base size is the due count clamped to the profile's bounds, then
// scaled down under high cognitive load (halved above 0.8, floor 2;
// multiplied by 0.7 in (0.6, 0.8]) or up under low load (1.3x below 0.3,
// capped at the due count), then capped by the time budget divided by the
// per-item estimate. Cards are ordered by priority = difficulty*2 +
// daysOverdue, hardest and most-overdue first.
func ComposeSession(due []Card, load float64, availableMinutes float64, profile MaterialProfile, now time.Time) (SessionPlan, error) {
	if load < 0 || load > 1 || math.IsNaN(load) {
		return SessionPlan{}, fmt.Errorf("%w: %g", ErrInvalidLoad, load)
	}
	if len(due) == 0 {
		return SessionPlan{Items: []Card{}, Reasoning: "no cards due"}, nil
	}

	var reasons []string

	base := len(due)
	if base < profile.MinItems {
		base = profile.MinItems
	}
	if base > profile.MaxItems {
		base = profile.MaxItems
	}

	size := base
	switch {
	case load > 0.8:
		size = base / 2
		if size < 2 {
			size = 2
		}
		reasons = append(reasons, "reduced due to high cognitive load")
	case load > 0.6:
		size = int(math.Floor(float64(base) * 0.7))
		reasons = append(reasons, "trimmed due to elevated cognitive load")
	case load < 0.3:
		size = int(math.Ceil(float64(base) * 1.3))
		if size > len(due) {
			size = len(due)
		}
		reasons = append(reasons, "expanded due to low cognitive load")
	}

	if profile.MinutesPerItem > 0 {
		timeSize := int(math.Floor(availableMinutes / profile.MinutesPerItem))
		if timeSize < size {
			size = timeSize
			reasons = append(reasons, fmt.Sprintf("capped at %d items by the %.0f-minute budget", timeSize, availableMinutes))
		}
	}
	if size < 0 {
		size = 0
	}
	if size > len(due) {
		size = len(due)
	}

	ordered := make([]Card, len(due))
	copy(ordered, due)
	sort.SliceStable(ordered, func(i, j int) bool {
		return sessionPriority(ordered[i], now) > sessionPriority(ordered[j], now)
	})

	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("standard session of %d items", size))
	}

	return SessionPlan{
		Items:     ordered[:size],
		Reasoning: strings.Join(reasons, "; "),
	}, nil
}

// sessionPriority scores a card for ordering: difficult and overdue items
// surface first.
func sessionPriority(c Card, now time.Time) float64 {
	return c.Difficulty*2 + c.DaysOverdue(now)
}
