package analytics

import (
	"time"

	"github.com/dmoodbackend/internal/models"
)

// Trend labels for WeeklyHighlight.EmotionalTrend.
const (
	TrendPredominantlyPositive = "predominantly positive"
	TrendPredominantlyNegative = "predominantly negative"
	TrendBalanced              = "balanced"
)

// WeeklyHighlight carries the qualitative highlights of one summarized
// window. Empty string fields mean "no such highlight in this window".
type WeeklyHighlight struct {
	StrongestPositiveDay      string         `json:"strongest_positive_day,omitempty"`
	StrongestNegativeDay      string         `json:"strongest_negative_day,omitempty"`
	MostFrequentCategory      models.Category `json:"most_frequent_category,omitempty"`
	EmotionalTrend            string         `json:"emotional_trend"`
	MostChallengingDayEmotion models.Emotion `json:"most_challenging_day_emotion,omitempty"`
}

// isChallenging reports whether a decision counts toward a day's
// challenging score: it carries a negative emotion or was recorded at
// high intensity.
func isChallenging(d models.Decision) bool {
	if d.Intensity >= 4 {
		return true
	}
	for _, e := range d.Emotions {
		if e.Valence() < 0 {
			return true
		}
	}
	return false
}

// mostChallengingDay picks the date with the most challenging
// decisions, earliest date winning ties. The second return is false
// when no decision in the window is challenging at all.
func mostChallengingDay(decisions []models.Decision) (time.Time, bool) {
	dates, groups := groupByDate(decisions)

	var best time.Time
	bestScore := 0
	for _, day := range dates {
		score := 0
		for _, d := range groups[day] {
			if isChallenging(d) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = day, score
		}
	}
	return best, bestScore > 0
}

// dominantEmotion returns the most frequent emotion among the given
// decisions, first-seen order breaking ties.
func dominantEmotion(decisions []models.Decision) models.Emotion {
	counts := make(map[models.Emotion]int)
	var order []models.Emotion
	for _, d := range decisions {
		for _, e := range d.Emotions {
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
		}
	}

	var best models.Emotion
	bestCount := 0
	for _, e := range order {
		if counts[e] > bestCount {
			best, bestCount = e, counts[e]
		}
	}
	return best
}

// ExtractHighlights derives the qualitative highlights of a window
// from its built summary and the underlying decisions.
//
// StrongestPositiveDay is the first POSITIVE day in the summary, a
// first-match rather than magnitude-ranked pick. StrongestNegativeDay
// is the weekday of the most challenging day when one exists,
// otherwise the first NEGATIVE day in the summary.
func ExtractHighlights(summary WeeklySummary, decisions []models.Decision) WeeklyHighlight {
	var h WeeklyHighlight

	for _, dm := range summary.DailyMoods {
		if dm.Mood == MoodPositive {
			h.StrongestPositiveDay = dm.Weekday
			break
		}
	}

	if day, ok := mostChallengingDay(decisions); ok {
		h.StrongestNegativeDay = day.Weekday().String()
		_, groups := groupByDate(decisions)
		h.MostChallengingDayEmotion = dominantEmotion(groups[day])
	} else {
		for _, dm := range summary.DailyMoods {
			if dm.Mood == MoodNegative {
				h.StrongestNegativeDay = dm.Weekday
				break
			}
		}
	}

	bestCount := 0
	for _, cc := range summary.CategoryDistribution {
		if cc.Count > bestCount {
			h.MostFrequentCategory, bestCount = cc.Category, cc.Count
		}
	}

	positives, negatives := 0, 0
	for _, dm := range summary.DailyMoods {
		switch dm.Mood {
		case MoodPositive:
			positives++
		case MoodNegative:
			negatives++
		}
	}
	switch {
	case positives > negatives:
		h.EmotionalTrend = TrendPredominantlyPositive
	case negatives > positives:
		h.EmotionalTrend = TrendPredominantlyNegative
	default:
		h.EmotionalTrend = TrendBalanced
	}

	return h
}
