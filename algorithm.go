package rehearse

import "math"

// Difficulty bounds and the neutral midpoint difficulty updates revert to.
const (
	minDifficulty     = 1.0
	maxDifficulty     = 10.0
	defaultDifficulty = 5.0
)

// Memory model weights. Initial stability seeds are per-rating; the
// remaining constants shape the stability growth and collapse curves.
const (
	initStabilityAgain = 0.5
	initStabilityHard  = 1.2
	initStabilityGood  = 2.5
	initStabilityEasy  = 5.8

	initDifficultyStep = 1.2 // D0(G) = default + step * (3 - G)
	difficultyStep     = 1.0 // per-review nudge, damped by (10-D)/9

	growthLog     = 1.87 // log of the base stability growth factor
	stabilityDrag = 0.17 // higher stability grows proportionally slower
	forgetGain    = 0.80 // sensitivity of growth to (1 - R)

	hardPenalty = 0.60
	easyBonus   = 1.87

	lapseScale      = 1.48 // forget stability formula weights
	lapseDifficulty = 0.06
	lapseStability  = 0.26
	lapseForgetGain = 1.65
	lapseCeiling    = 0.90 // post-lapse stability never exceeds this multiple of S
)

// algo holds the memory model with precomputed interval factor.
type algo struct {
	p Parameters
	// intervalFactor inverts the retrievability curve: the elapsed time at
	// which R drops to the desired retention is stability * intervalFactor.
	intervalFactor float64
}

func newAlgo(p Parameters) algo {
	return algo{
		p:              p,
		intervalFactor: 9 * (1/p.DesiredRetention - 1),
	}
}

// retrievability computes R(t, S) = (1 + t / (9 S))^-1, the estimated
// probability of successful recall after t elapsed days at stability S.
func (a *algo) retrievability(elapsedDays, stability float64) float64 {
	return 1 / (1 + elapsedDays/(9*stability))
}

// initStability returns the stability seeded by the first rating.
func (a *algo) initStability(r Rating) float64 {
	switch r {
	case Again:
		return initStabilityAgain
	case Hard:
		return initStabilityHard
	case Good:
		return initStabilityGood
	default:
		return initStabilityEasy
	}
}

// initDifficulty returns the difficulty seeded by the first rating,
// clamped to [1, 10].
func (a *algo) initDifficulty(r Rating) float64 {
	return clampDifficulty(defaultDifficulty + initDifficultyStep*(3-float64(r)))
}

// nextStability dispatches on rating: Again collapses stability, the
// success ratings grow it.
func (a *algo) nextStability(difficulty, stability, retrievability float64, r Rating) float64 {
	if r == Again {
		return a.forgetStability(difficulty, stability, retrievability)
	}
	return a.recallStability(difficulty, stability, retrievability, r)
}

// recallStability grows stability after a successful recall. The growth is
// proportional to (1 - R) and scaled by a difficulty-dependent factor, so
// reviews close to the forgetting point strengthen memory the most.
func (a *algo) recallStability(d, s, r float64, rating Rating) float64 {
	penalty := 1.0
	if rating == Hard {
		penalty = hardPenalty
	}
	bonus := 1.0
	if rating == Easy {
		bonus = easyBonus
	}
	grown := s * (1 + math.Exp(growthLog)*
		(11-d)*
		math.Pow(s, -stabilityDrag)*
		(math.Exp((1-r)*forgetGain)-1)*
		penalty*bonus)
	return a.clampStability(grown)
}

// forgetStability collapses stability after a lapse. The result is capped
// at a small multiple of the old stability so an Again rating never leaves
// the memory estimate stronger than it was.
func (a *algo) forgetStability(d, s, r float64) float64 {
	collapsed := lapseScale *
		math.Pow(d, -lapseDifficulty) *
		(math.Pow(s+1, lapseStability) - 1) *
		math.Exp((1-r)*lapseForgetGain)
	return a.clampStability(math.Min(collapsed, s*lapseCeiling))
}

// nextDifficulty nudges difficulty up on Again/Hard and down on Easy, with
// linear damping near the bounds and exponential smoothing toward the
// neutral midpoint to avoid oscillation from a single rating.
func (a *algo) nextDifficulty(difficulty float64, r Rating) float64 {
	delta := -difficultyStep * (float64(r) - 3)
	damped := difficulty + (maxDifficulty-difficulty)*delta/9
	smoothed := a.p.MeanReversion*defaultDifficulty + (1-a.p.MeanReversion)*damped
	return clampDifficulty(smoothed)
}

// nextInterval computes the scheduled interval in whole days: the time at
// which retrievability is predicted to reach the desired retention,
// clamped to [MinInterval, MaxInterval].
func (a *algo) nextInterval(stability float64) int {
	days := int(math.Round(stability * a.intervalFactor))
	if days < a.p.MinInterval {
		days = a.p.MinInterval
	}
	if days > a.p.MaxInterval {
		days = a.p.MaxInterval
	}
	return days
}

func (a *algo) clampStability(s float64) float64 {
	return math.Min(math.Max(s, a.p.MinStability), a.p.MaxStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
