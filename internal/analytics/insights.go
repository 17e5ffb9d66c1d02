package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmoodbackend/internal/models"
)

// Insight is one templated, data-driven observation. Descriptions are
// fully rendered, percentages already formatted. Tag groups related
// insights for the client.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

// Insight tags.
const (
	TagCategory  = "category"
	TagEmotion   = "emotion"
	TagTone      = "tone"
	TagIntensity = "intensity"
	TagWeekday   = "weekday"
	TagVariety   = "variety"
	TagRecency   = "recency"
)

// Rule thresholds. These are part of the engine's contract, not
// tunable knobs: changing one changes which insights users see.
const (
	categoryMinDecisions      = 3
	categoryNegativeThreshold = 0.70
	categoryPositiveThreshold = 0.60
	categoryHotZoneThreshold  = 0.50
	emotionDominanceThreshold = 0.70
	impulsiveRatioThreshold   = 0.55
	averageIntensityThreshold = 4.2
	calmRatioThreshold        = 0.60
	categoryShareThreshold    = 0.50
	distinctEmotionsThreshold = 2
	recentShareThreshold      = 0.50
	recentWindow              = 48 * time.Hour
)

// scoredInsight pairs a fired insight with its rank. Lower priority is
// more important; weight breaks ties within a priority.
type scoredInsight struct {
	priority int
	weight   float64
	insight  Insight
}

// insightStats holds the aggregates the rules read. Everything with an
// order (categories, emotions, weekdays) is iterated in first-seen or
// canonical order so the engine's output never depends on map
// iteration.
type insightStats struct {
	total int

	emotionCounts map[models.Emotion]int // decisions containing the emotion
	distinctCount int
	toneCounts    map[models.Tone]int
	intensitySum  int

	categoryOrder  []models.Category
	categoryGroups map[models.Category][]models.Decision

	recentCount int // decisions within 48h of the latest timestamp

	weekdayGroups map[time.Weekday][]models.Decision
}

func collectStats(decisions []models.Decision) insightStats {
	stats := insightStats{
		total:          len(decisions),
		emotionCounts:  make(map[models.Emotion]int),
		toneCounts:     make(map[models.Tone]int),
		categoryGroups: make(map[models.Category][]models.Decision),
		weekdayGroups:  make(map[time.Weekday][]models.Decision),
	}

	var latest time.Time
	for _, d := range decisions {
		if d.Timestamp.After(latest) {
			latest = d.Timestamp
		}
	}

	for _, d := range decisions {
		seen := make(map[models.Emotion]bool, len(d.Emotions))
		for _, e := range d.Emotions {
			if !seen[e] {
				seen[e] = true
				stats.emotionCounts[e]++
			}
		}

		stats.toneCounts[ClassifyTone(d.Emotions, d.Intensity)]++
		stats.intensitySum += d.Intensity

		if _, ok := stats.categoryGroups[d.Category]; !ok {
			stats.categoryOrder = append(stats.categoryOrder, d.Category)
		}
		stats.categoryGroups[d.Category] = append(stats.categoryGroups[d.Category], d)

		if !d.Timestamp.Before(latest.Add(-recentWindow)) {
			stats.recentCount++
		}

		wd := d.Timestamp.Weekday()
		stats.weekdayGroups[wd] = append(stats.weekdayGroups[wd], d)
	}

	for _, e := range models.AllEmotions {
		if stats.emotionCounts[e] > 0 {
			stats.distinctCount++
		}
	}

	return stats
}

// label turns an enum tag into display text: "PERSONAL_GROWTH" ->
// "personal growth".
func label(tag string) string {
	return strings.ToLower(strings.ReplaceAll(tag, "_", " "))
}

// titleLabel capitalizes the first letter of a display label.
func titleLabel(tag string) string {
	l := label(tag)
	if l == "" {
		return l
	}
	return strings.ToUpper(l[:1]) + l[1:]
}

// pct formats a ratio as a whole-number percentage: 0.7 -> "70%".
func pct(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// GenerateInsights evaluates the fixed rule battery over a set of
// decisions and returns the fired insights ordered by ascending
// priority, descending weight, deduplicated by title keeping the
// first. Empty input yields empty output; the "register more data"
// fallback belongs to callers, keeping the engine pure.
//
// The rules, their thresholds and their priorities:
//
//	p1  negative emotion in >=70% of a category's decisions (>=3 decisions)
//	p1  >=50% of a category's decisions high-intensity and negative
//	p2  positive emotion in >=60% of a category's decisions (>=3 decisions)
//	p3  a single emotion in >=70% of all decisions
//	p4  impulsive tone ratio >=55%; average intensity >=4.2
//	p5  calm tone ratio >=60%; a weekday whose aggregate mood is negative
//	p6  a single category >=50% of all; <=2 distinct emotions; >=50% of
//	    decisions within 48h of the latest
func GenerateInsights(decisions []models.Decision) []Insight {
	if len(decisions) == 0 {
		return nil
	}

	stats := collectStats(decisions)

	var fired []scoredInsight
	fired = append(fired, categoryEmotionRules(stats)...)
	fired = append(fired, categoryHotZoneRule(stats)...)
	fired = append(fired, emotionDominanceRule(stats)...)
	fired = append(fired, toneAndIntensityRules(stats)...)
	fired = append(fired, negativeWeekdayRule(stats)...)
	fired = append(fired, concentrationRules(stats)...)

	sort.SliceStable(fired, func(i, j int) bool {
		if fired[i].priority != fired[j].priority {
			return fired[i].priority < fired[j].priority
		}
		return fired[i].weight > fired[j].weight
	})

	seen := make(map[string]bool, len(fired))
	var out []Insight
	for _, f := range fired {
		if seen[f.insight.Title] {
			continue
		}
		seen[f.insight.Title] = true
		out = append(out, f.insight)
	}
	return out
}

// categoryEmotionRules fires per-category emotional dominance rules
// for categories with enough data: a negative emotion in >=70% of the
// category's decisions (priority 1) or a positive emotion in >=60%
// (priority 2).
func categoryEmotionRules(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	for _, cat := range stats.categoryOrder {
		group := stats.categoryGroups[cat]
		if len(group) < categoryMinDecisions {
			continue
		}

		counts := make(map[models.Emotion]int)
		for _, d := range group {
			seen := make(map[models.Emotion]bool, len(d.Emotions))
			for _, e := range d.Emotions {
				if !seen[e] {
					seen[e] = true
					counts[e]++
				}
			}
		}

		for _, e := range models.AllEmotions {
			ratio := float64(counts[e]) / float64(len(group))
			switch {
			case e.Valence() < 0 && ratio >= categoryNegativeThreshold:
				fired = append(fired, scoredInsight{
					priority: 1,
					weight:   ratio,
					insight: Insight{
						Title:       fmt.Sprintf("%s decisions carry %s", titleLabel(string(cat)), label(string(e))),
						Description: fmt.Sprintf("%s shows up in %s of your %s decisions. It may be worth a closer look at what drives them.", titleLabel(string(e)), pct(ratio), label(string(cat))),
						Tag:         TagCategory,
					},
				})
			case e.Valence() > 0 && ratio >= categoryPositiveThreshold:
				fired = append(fired, scoredInsight{
					priority: 2,
					weight:   ratio,
					insight: Insight{
						Title:       fmt.Sprintf("%s decisions feel %s", titleLabel(string(cat)), label(string(e))),
						Description: fmt.Sprintf("You felt %s in %s of your %s decisions. This area is working for you.", label(string(e)), pct(ratio), label(string(cat))),
						Tag:         TagCategory,
					},
				})
			}
		}
	}
	return fired
}

// categoryHotZoneRule fires when at least half of a category's
// decisions are both high-intensity and emotionally negative.
func categoryHotZoneRule(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	for _, cat := range stats.categoryOrder {
		group := stats.categoryGroups[cat]
		if len(group) == 0 {
			continue
		}

		hot := 0
		for _, d := range group {
			if d.Intensity >= 4 && hasNegativeEmotion(d) {
				hot++
			}
		}

		ratio := float64(hot) / float64(len(group))
		if ratio >= categoryHotZoneThreshold {
			fired = append(fired, scoredInsight{
				priority: 1,
				weight:   ratio,
				insight: Insight{
					Title:       fmt.Sprintf("%s is a hot zone", titleLabel(string(cat))),
					Description: fmt.Sprintf("%s of your %s decisions were intense and emotionally negative. Consider slowing down before deciding there.", pct(ratio), label(string(cat))),
					Tag:         TagCategory,
				},
			})
		}
	}
	return fired
}

func hasNegativeEmotion(d models.Decision) bool {
	for _, e := range d.Emotions {
		if e.Valence() < 0 {
			return true
		}
	}
	return false
}

// emotionDominanceRule fires when a single emotion is present in at
// least 70% of all decisions.
func emotionDominanceRule(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	for _, e := range models.AllEmotions {
		ratio := float64(stats.emotionCounts[e]) / float64(stats.total)
		if ratio >= emotionDominanceThreshold {
			fired = append(fired, scoredInsight{
				priority: 3,
				weight:   ratio,
				insight: Insight{
					Title:       fmt.Sprintf("%s dominates your decisions", titleLabel(string(e))),
					Description: fmt.Sprintf("%s was present in %s of all your decisions in this period.", titleLabel(string(e)), pct(ratio)),
					Tag:         TagEmotion,
				},
			})
		}
	}
	return fired
}

// toneAndIntensityRules covers the whole-set tone ratios and the
// average intensity: impulsive >=55% (p4), average intensity >=4.2
// (p4), calm >=60% (p5).
func toneAndIntensityRules(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	total := float64(stats.total)

	if ratio := float64(stats.toneCounts[models.ToneImpulsive]) / total; ratio >= impulsiveRatioThreshold {
		fired = append(fired, scoredInsight{
			priority: 4,
			weight:   ratio,
			insight: Insight{
				Title:       "Impulsive decisions are piling up",
				Description: fmt.Sprintf("%s of your decisions were impulsive: strong negative emotion at high intensity.", pct(ratio)),
				Tag:         TagTone,
			},
		})
	}

	if avg := float64(stats.intensitySum) / total; avg >= averageIntensityThreshold {
		fired = append(fired, scoredInsight{
			priority: 4,
			weight:   avg / 5,
			insight: Insight{
				Title:       "Your decisions run hot",
				Description: fmt.Sprintf("Average intensity was %.1f out of 5. Almost everything felt like a big deal.", avg),
				Tag:         TagIntensity,
			},
		})
	}

	if ratio := float64(stats.toneCounts[models.ToneCalm]) / total; ratio >= calmRatioThreshold {
		fired = append(fired, scoredInsight{
			priority: 5,
			weight:   ratio,
			insight: Insight{
				Title:       "A calm stretch",
				Description: fmt.Sprintf("%s of your decisions were calm: positive emotion at low intensity.", pct(ratio)),
				Tag:         TagTone,
			},
		})
	}

	return fired
}

// weekdayEvalOrder fixes the evaluation order of the weekday rule to
// Monday through Sunday.
var weekdayEvalOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// negativeWeekdayRule fires once per weekday whose aggregate mood over
// the whole set is negative.
func negativeWeekdayRule(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	for _, wd := range weekdayEvalOrder {
		group := stats.weekdayGroups[wd]
		if AggregateDailyMood(group) != MoodNegative {
			continue
		}
		fired = append(fired, scoredInsight{
			priority: 5,
			insight: Insight{
				Title:       fmt.Sprintf("%ss tend to be hard", wd),
				Description: fmt.Sprintf("Decisions made on %ss lean negative. Watch what that day keeps bringing.", wd),
				Tag:         TagWeekday,
			},
		})
	}
	return fired
}

// concentrationRules covers the priority-6 battery: a single category
// holding at least half of all decisions, a narrow emotional range,
// and a recent burst of activity.
func concentrationRules(stats insightStats) []scoredInsight {
	var fired []scoredInsight
	total := float64(stats.total)

	for _, cat := range stats.categoryOrder {
		share := float64(len(stats.categoryGroups[cat])) / total
		if share >= categoryShareThreshold {
			fired = append(fired, scoredInsight{
				priority: 6,
				weight:   share,
				insight: Insight{
					Title:       fmt.Sprintf("Your decisions revolve around %s", label(string(cat))),
					Description: fmt.Sprintf("%s of your decisions were about %s.", pct(share), label(string(cat))),
					Tag:         TagCategory,
				},
			})
		}
	}

	if stats.distinctCount <= distinctEmotionsThreshold {
		fired = append(fired, scoredInsight{
			priority: 6,
			insight: Insight{
				Title:       "A narrow emotional range",
				Description: fmt.Sprintf("Only %d distinct emotions appear across your decisions in this period.", stats.distinctCount),
				Tag:         TagVariety,
			},
		})
	}

	if share := float64(stats.recentCount) / total; share >= recentShareThreshold {
		fired = append(fired, scoredInsight{
			priority: 6,
			weight:   share,
			insight: Insight{
				Title:       "A burst of recent activity",
				Description: fmt.Sprintf("%s of your decisions were recorded in the last 48 hours.", pct(share)),
				Tag:         TagRecency,
			},
		})
	}

	return fired
}
