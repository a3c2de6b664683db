package rehearse

import (
	"fmt"
	"math"
)

// Cognitive load thresholds and scaling factors for interval adjustment.
const (
	highLoadThreshold = 0.8
	lowLoadThreshold  = 0.3

	highLoadFactor = 0.7  // compress: review sooner under high load
	lowLoadFactor  = 1.25 // expand: longer gaps when capacity is free
)

// AdjustInterval scales a scheduled interval by the current cognitive load
// estimate. High load (> 0.8) compresses the interval so forgetting does
// not compound with overload; low load (< 0.3) expands it. The result is
// floored at 1 day and capped at maxInterval.
//
// This is strictly a post-processing step on the engine's output: the
// card's stability and difficulty are never touched, so the memory model
// stays load-independent for analytics.
func AdjustInterval(scheduledDays int, load float64, maxInterval int) (int, error) {
	if load < 0 || load > 1 || math.IsNaN(load) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidLoad, load)
	}

	days := float64(scheduledDays)
	switch {
	case load > highLoadThreshold:
		days *= highLoadFactor
	case load < lowLoadThreshold:
		days *= lowLoadFactor
	}

	adjusted := int(math.Round(days))
	if adjusted < 1 {
		adjusted = 1
	}
	if adjusted > maxInterval {
		adjusted = maxInterval
	}
	return adjusted, nil
}
