package rehearse

import "time"

// Clock supplies the current time to the review pipeline. Injecting it
// keeps every scheduling entry point deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock { return systemClock{} }
