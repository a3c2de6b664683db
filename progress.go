package rehearse

import (
	"math"
	"sort"
	"time"
)

// MasteryLevel buckets cards by a blended mastery score.
type MasteryLevel string

const (
	MasteryBeginner     MasteryLevel = "beginner"
	MasteryIntermediate MasteryLevel = "intermediate"
	MasteryAdvanced     MasteryLevel = "advanced"
	MasteryExpert       MasteryLevel = "expert"
)

// Trend classifies the direction of recent performance.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

const (
	// masteryStabilityScale normalizes stability for the mastery blend:
	// 90 days of stability counts as fully consolidated.
	masteryStabilityScale = 90.0

	// recentWindow is how many of a card's latest reviews feed its recent
	// success rate for at-risk detection.
	recentWindow = 5

	// trendWindow is the number of reviews in each of the two windows
	// compared for trend direction.
	trendWindow = 10

	// trendThreshold is the success-rate delta beyond which the trend is
	// classified as improving or declining.
	trendThreshold = 0.1
)

// AtRiskCard flags a card likely to lapse soon.
type AtRiskCard struct {
	CardID      string  `json:"card_id"`
	Label       string  `json:"label,omitempty"`
	SuccessRate float64 `json:"success_rate"`
	DueSoon     bool    `json:"due_soon"` // due within 24 hours
}

// ProgressReport summarizes mastery, risk, and trend over a card
// collection. It is derived read-only from cards and review logs.
type ProgressReport struct {
	TotalCards        int                  `json:"total_cards"`
	Mastery           map[MasteryLevel]int `json:"mastery"`
	AtRisk            []AtRiskCard         `json:"at_risk"`
	Trend             Trend                `json:"trend"`
	RecentSuccessRate float64              `json:"recent_success_rate"`
	OlderSuccessRate  float64              `json:"older_success_rate"`
}

// AnalyzeProgress derives a progress report from cards and their review
// logs. It never mutates its inputs and tolerates empty collections,
// returning neutral defaults.
func AnalyzeProgress(cards []Card, logs []ReviewLog, now time.Time) ProgressReport {
	report := ProgressReport{
		TotalCards: len(cards),
		Mastery: map[MasteryLevel]int{
			MasteryBeginner:     0,
			MasteryIntermediate: 0,
			MasteryAdvanced:     0,
			MasteryExpert:       0,
		},
		AtRisk: []AtRiskCard{},
		Trend:  TrendStable,
	}
	if len(cards) == 0 {
		return report
	}

	byCard := make(map[string][]ReviewLog, len(cards))
	for _, l := range logs {
		byCard[l.CardID] = append(byCard[l.CardID], l)
	}
	for id := range byCard {
		ls := byCard[id]
		sort.Slice(ls, func(i, j int) bool { return ls[i].ReviewedAt.Before(ls[j].ReviewedAt) })
		byCard[id] = ls
	}

	for _, c := range cards {
		cardLogs := byCard[c.ID]
		overall := successRate(cardLogs)
		recent := successRate(tail(cardLogs, recentWindow))

		score := 0.6*overall + 0.4*math.Min(c.Stability/masteryStabilityScale, 1)
		report.Mastery[masteryBucket(score)]++

		if len(cardLogs) == 0 {
			continue
		}
		dueSoon := c.Due.Sub(now) <= 24*time.Hour
		if recent < 0.5 || (recent < 0.7 && dueSoon) {
			report.AtRisk = append(report.AtRisk, AtRiskCard{
				CardID:      c.ID,
				Label:       c.Label,
				SuccessRate: recent,
				DueSoon:     dueSoon,
			})
		}
	}

	report.Trend, report.RecentSuccessRate, report.OlderSuccessRate = trendOf(logs)
	return report
}

// trendOf compares the success rate of the most recent trendWindow reviews
// against the window before it.
func trendOf(logs []ReviewLog) (Trend, float64, float64) {
	if len(logs) < 2 {
		return TrendStable, successRate(logs), 0
	}

	ordered := make([]ReviewLog, len(logs))
	copy(ordered, logs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ReviewedAt.Before(ordered[j].ReviewedAt) })

	recent := tail(ordered, trendWindow)
	older := tail(ordered[:len(ordered)-len(recent)], trendWindow)

	recentRate := successRate(recent)
	olderRate := successRate(older)
	if len(older) == 0 {
		return TrendStable, recentRate, olderRate
	}

	switch {
	case recentRate-olderRate > trendThreshold:
		return TrendImproving, recentRate, olderRate
	case olderRate-recentRate > trendThreshold:
		return TrendDeclining, recentRate, olderRate
	default:
		return TrendStable, recentRate, olderRate
	}
}

func masteryBucket(score float64) MasteryLevel {
	switch {
	case score < 0.4:
		return MasteryBeginner
	case score < 0.6:
		return MasteryIntermediate
	case score < 0.8:
		return MasteryAdvanced
	default:
		return MasteryExpert
	}
}

// successRate is the fraction of non-Again ratings. Returns 0 for no logs.
func successRate(logs []ReviewLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	ok := 0
	for _, l := range logs {
		if l.Rating != Again {
			ok++
		}
	}
	return float64(ok) / float64(len(logs))
}

func tail(logs []ReviewLog, n int) []ReviewLog {
	if len(logs) <= n {
		return logs
	}
	return logs[len(logs)-n:]
}
