package rehearse

import "time"

// ReviewLog is the immutable record of a single review event. Logs are
// written once by the review pipeline and read by the progress analyzer;
// they are never mutated.
type ReviewLog struct {
	ID     string `json:"id"`
	CardID string `json:"card_id"`
	Rating Rating `json:"rating"`

	StateBefore State `json:"state_before"`
	StateAfter  State `json:"state_after"`

	ElapsedDays   int `json:"elapsed_days"`
	ScheduledDays int `json:"scheduled_days"`

	Stability  float64 `json:"stability"`  // after the review
	Difficulty float64 `json:"difficulty"` // after the review

	ReviewedAt time.Time `json:"reviewed_at"`
}
