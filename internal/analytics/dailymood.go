package analytics

import (
	"github.com/dmoodbackend/internal/models"
)

// DailyMood is the aggregate mood of all decisions on one calendar
// date. UNDEFINED means no data, not a bad day.
type DailyMood string

const (
	MoodPositive  DailyMood = "POSITIVE"
	MoodNegative  DailyMood = "NEGATIVE"
	MoodNeutral   DailyMood = "NEUTRAL"
	MoodUndefined DailyMood = "UNDEFINED"
)

// decisionValence is the net valence of one decision: the sum of its
// emotions' valences.
func decisionValence(d models.Decision) int {
	total := 0
	for _, e := range d.Emotions {
		total += e.Valence()
	}
	return total
}

// AggregateDailyMood reduces the decisions of a single calendar date
// into one mood. The caller groups by date; this function only counts.
// A decision contributes positively when its net valence is > 0,
// negatively when < 0, and not at all otherwise. Majority wins; a tie
// (including all-neutral input) is NEUTRAL. Order of input is
// irrelevant.
func AggregateDailyMood(decisions []models.Decision) DailyMood {
	if len(decisions) == 0 {
		return MoodUndefined
	}

	positives, negatives := 0, 0
	for _, d := range decisions {
		switch v := decisionValence(d); {
		case v > 0:
			positives++
		case v < 0:
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return MoodPositive
	case negatives > positives:
		return MoodNegative
	default:
		return MoodNeutral
	}
}
