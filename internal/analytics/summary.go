package analytics

import (
	"sort"
	"time"

	"github.com/dmoodbackend/internal/models"
)

// DayMood is one weekday's aggregated mood inside a summary. Entries
// are kept in chronological order so output is reproducible.
type DayMood struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Mood    DailyMood `json:"mood"`
}

// CategoryCount is one category's occurrence count inside a summary.
// Entries are kept in first-seen order; categories that never occur do
// not appear.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

// WeeklySummary aggregates the decisions of one window.
type WeeklySummary struct {
	Start                time.Time       `json:"start"`
	End                  time.Time       `json:"end"`
	TotalCount           int             `json:"total_count"`
	CalmPercent          float64         `json:"calm_percent"`
	ImpulsivePercent     float64         `json:"impulsive_percent"`
	NeutralPercent       float64         `json:"neutral_percent"`
	DailyMoods           []DayMood       `json:"daily_moods"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
}

// groupByDate buckets decisions by local calendar date, returning the
// distinct dates in chronological order alongside the buckets.
func groupByDate(decisions []models.Decision) ([]time.Time, map[time.Time][]models.Decision) {
	groups := make(map[time.Time][]models.Decision)
	var dates []time.Time
	for _, d := range decisions {
		day := dateOnly(d.Timestamp)
		if _, seen := groups[day]; !seen {
			dates = append(dates, day)
		}
		groups[day] = append(groups[day], d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, groups
}

// BuildWeeklySummary folds a window's decisions into aggregate
// statistics. Decisions are expected to already lie within
// [start, end]; the bounds are used for labeling only. Tone
// percentages are 0 when there are no decisions, never a
// divide-by-zero.
func BuildWeeklySummary(decisions []models.Decision, start, end time.Time) WeeklySummary {
	summary := WeeklySummary{
		Start:      start,
		End:        end,
		TotalCount: len(decisions),
	}

	if len(decisions) > 0 {
		var calm, impulsive, neutral int
		for _, d := range decisions {
			switch ClassifyTone(d.Emotions, d.Intensity) {
			case models.ToneCalm:
				calm++
			case models.ToneImpulsive:
				impulsive++
			default:
				neutral++
			}
		}
		total := float64(len(decisions))
		summary.CalmPercent = 100 * float64(calm) / total
		summary.ImpulsivePercent = 100 * float64(impulsive) / total
		summary.NeutralPercent = 100 * float64(neutral) / total
	}

	dates, groups := groupByDate(decisions)
	for _, day := range dates {
		summary.DailyMoods = append(summary.DailyMoods, DayMood{
			Date:    day,
			Weekday: day.Weekday().String(),
			Mood:    AggregateDailyMood(groups[day]),
		})
	}

	counts := make(map[models.Category]int)
	for _, d := range decisions {
		if counts[d.Category] == 0 {
			summary.CategoryDistribution = append(summary.CategoryDistribution, CategoryCount{Category: d.Category})
		}
		counts[d.Category]++
	}
	for i := range summary.CategoryDistribution {
		summary.CategoryDistribution[i].Count = counts[summary.CategoryDistribution[i].Category]
	}

	return summary
}
