package rehearse

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Engine computes card scheduling updates. It holds only configuration and
// an interval-fuzz source; Schedule never mutates its input, so an Engine
// is safe for concurrent use across different cards. Applying two reviews
// to the same card concurrently must be serialized by the caller.
type Engine struct {
	algo algo
	rng  *rand.Rand
}

// NewEngine creates an Engine from the given parameters. Zero-value fields
// are filled with defaults; invalid values return ErrInvalidParameters.
func NewEngine(p Parameters) (*Engine, error) {
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		algo: newAlgo(p),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Parameters returns the engine's effective configuration.
func (e *Engine) Parameters() Parameters {
	return e.algo.p
}

// Schedule processes a review of the card at the given time and returns the
// updated card and an immutable review log. The input card is not mutated.
//
// Reviews may occur before or after the due date. A review timestamp before
// the card's last review is treated as elapsedDays = 0; surfacing the skew
// is the caller's concern.
//
// Returns ErrInvalidRating for ratings outside the canonical set and
// ErrInvalidCardState (as *InvariantError) when the card violates its
// invariants on entry.
func (e *Engine) Schedule(card Card, rating Rating, now time.Time) (Card, ReviewLog, error) {
	if !rating.IsValid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}
	if err := card.validate(e.algo.p); err != nil {
		return Card{}, ReviewLog{}, err
	}

	c := card.clone()
	stateBefore := c.State

	var elapsed float64
	if c.LastReview != nil {
		elapsed = math.Max(0, now.Sub(*c.LastReview).Hours()/24.0)
	}

	e.updateMemory(&c, rating, elapsed)
	e.transition(&c, rating, stateBefore)

	interval := e.algo.nextInterval(c.Stability)
	if c.State == Review && !e.algo.p.DisableFuzzing {
		interval = applyFuzz(interval, e.algo.p.FuzzFactor, e.algo.p.MinInterval, e.algo.p.MaxInterval, e.rng)
	}

	c.ElapsedDays = int(elapsed)
	c.ScheduledDays = interval
	c.Due = now.AddDate(0, 0, interval)
	c.LastReview = &now
	c.Reps++
	c.UpdatedAt = now

	log := ReviewLog{
		CardID:        c.ID,
		Rating:        rating,
		StateBefore:   stateBefore,
		StateAfter:    c.State,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: interval,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ReviewedAt:    now,
	}

	return c, log, nil
}

// Preview returns the result of reviewing the card with each of the four
// ratings, without committing any of them. Fuzzing is bypassed so the
// preview is deterministic.
func (e *Engine) Preview(card Card, now time.Time) (map[Rating]Card, error) {
	preview := *e
	preview.algo.p.DisableFuzzing = true

	result := make(map[Rating]Card, 4)
	for _, r := range []Rating{Again, Hard, Good, Easy} {
		c, _, err := preview.Schedule(card, r, now)
		if err != nil {
			return nil, err
		}
		result[r] = c
	}
	return result, nil
}

// Retrievability returns the estimated probability of successful recall for
// the card at the given time. Returns 0 for cards never reviewed.
func (e *Engine) Retrievability(card Card, now time.Time) float64 {
	if card.LastReview == nil || card.Stability <= 0 {
		return 0
	}
	elapsed := math.Max(0, now.Sub(*card.LastReview).Hours()/24.0)
	return e.algo.retrievability(elapsed, card.Stability)
}

// Replay rebuilds a card's scheduling state by re-applying its review log
// history in order. Returns ErrLogMismatch if any log belongs to a
// different card. Fuzzing is bypassed so replays are deterministic.
func (e *Engine) Replay(card Card, logs []ReviewLog) (Card, error) {
	replay := *e
	replay.algo.p.DisableFuzzing = true

	c := card.clone()
	for _, l := range logs {
		if l.CardID != c.ID {
			return Card{}, fmt.Errorf("%w: card %s, log %s", ErrLogMismatch, c.ID, l.CardID)
		}
		var err error
		c, _, err = replay.Schedule(c, l.Rating, l.ReviewedAt)
		if err != nil {
			return Card{}, err
		}
	}
	return c, nil
}

// updateMemory updates stability and difficulty from the review. First
// reviews seed both from the rating alone; later reviews move them through
// the retrievability-anchored formulas.
func (e *Engine) updateMemory(c *Card, rating Rating, elapsedDays float64) {
	if c.State == New {
		c.Stability = e.algo.initStability(rating)
		c.Difficulty = e.algo.initDifficulty(rating)
		return
	}
	r := e.algo.retrievability(elapsedDays, c.Stability)
	c.Stability = e.algo.nextStability(c.Difficulty, c.Stability, r, rating)
	c.Difficulty = e.algo.nextDifficulty(c.Difficulty, rating)
}

// transition applies the state machine. Lapses count Again ratings given
// while the card was previously considered learned (Review or Relearning).
func (e *Engine) transition(c *Card, rating Rating, stateBefore State) {
	switch stateBefore {
	case New, Learning:
		if rating != Again && c.Stability >= e.algo.p.GraduationStability {
			c.State = Review
		} else {
			c.State = Learning
		}
	case Review:
		if rating == Again {
			c.State = Relearning
			c.Lapses++
		}
	case Relearning:
		if rating == Again {
			c.Lapses++
		} else {
			c.State = Review
		}
	}
}
