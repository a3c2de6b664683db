package rehearse

import (
	"math"
	"math/rand"
)

// applyFuzz randomizes the interval within ±factor to prevent many cards
// scheduled together from clustering on the same due date. Intervals whose
// band is narrower than a day are left exact, so the spread never exceeds
// the configured fraction. The result never drops below minIvl nor exceeds
// maxIvl.
func applyFuzz(interval int, factor float64, minIvl, maxIvl int, rng *rand.Rand) int {
	if factor == 0 {
		return interval
	}

	ivl := float64(interval)
	delta := ivl * factor
	if delta < 1 {
		return interval
	}

	lo := int(math.Round(ivl - delta))
	hi := int(math.Round(ivl + delta))
	if lo < minIvl {
		lo = minIvl
	}
	if hi > maxIvl {
		hi = maxIvl
	}
	if lo >= hi {
		return interval
	}

	return lo + rng.Intn(hi-lo+1)
}
