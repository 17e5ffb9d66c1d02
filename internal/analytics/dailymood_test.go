package analytics

import (
	"testing"
	"time"

	"github.com/dmoodbackend/internal/models"
)

// dec builds a test decision. Text and ids are irrelevant to the
// analytics core.
func dec(ts time.Time, intensity int, category models.Category, emotions ...models.Emotion) models.Decision {
	return models.Decision{
		Timestamp: ts,
		Text:      "x",
		Emotions:  emotions,
		Intensity: intensity,
		Category:  category,
	}
}

var day = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC) // a Monday

func TestAggregateDailyMood_EmptyIsUndefined(t *testing.T) {
	if got := AggregateDailyMood(nil); got != MoodUndefined {
		t.Fatalf("AggregateDailyMood(nil) = %s, want %s", got, MoodUndefined)
	}
}

func TestAggregateDailyMood_MajorityWins(t *testing.T) {
	// 3 negative-contributing vs 2 positive-contributing.
	decisions := []models.Decision{
		dec(day, 5, models.CategoryWork, models.EmotionSad),
		dec(day, 5, models.CategoryWork, models.EmotionSad),
		dec(day, 5, models.CategoryWork, models.EmotionSad),
		dec(day, 2, models.CategoryWork, models.EmotionJoyful),
		dec(day, 2, models.CategoryWork, models.EmotionJoyful),
	}
	if got := AggregateDailyMood(decisions); got != MoodNegative {
		t.Fatalf("got %s, want %s", got, MoodNegative)
	}
}

func TestAggregateDailyMood_TieIsNeutral(t *testing.T) {
	decisions := []models.Decision{
		dec(day, 2, models.CategoryWork, models.EmotionJoyful),
		dec(day, 2, models.CategoryWork, models.EmotionFear),
	}
	if got := AggregateDailyMood(decisions); got != MoodNeutral {
		t.Fatalf("got %s, want %s", got, MoodNeutral)
	}
}

func TestAggregateDailyMood_AllNormalIsNeutral(t *testing.T) {
	decisions := []models.Decision{
		dec(day, 3, models.CategoryLeisure, models.EmotionNormal),
		dec(day, 3, models.CategoryLeisure, models.EmotionNormal),
	}
	if got := AggregateDailyMood(decisions); got != MoodNeutral {
		t.Fatalf("got %s, want %s", got, MoodNeutral)
	}
}

func TestAggregateDailyMood_MixedEmotionsCancelInsideADecision(t *testing.T) {
	// Net valence 0: contributes to neither side.
	decisions := []models.Decision{
		dec(day, 2, models.CategoryFamily, models.EmotionJoyful, models.EmotionSad),
		dec(day, 2, models.CategoryFamily, models.EmotionJoyful),
	}
	if got := AggregateDailyMood(decisions); got != MoodPositive {
		t.Fatalf("got %s, want %s", got, MoodPositive)
	}
}

func TestAggregateDailyMood_PermutationStable(t *testing.T) {
	decisions := []models.Decision{
		dec(day, 5, models.CategoryWork, models.EmotionSad),
		dec(day, 2, models.CategoryWork, models.EmotionJoyful),
		dec(day, 2, models.CategoryWork, models.EmotionJoyful),
		dec(day, 1, models.CategoryWork, models.EmotionNormal),
	}

	want := AggregateDailyMood(decisions)
	permuted := []models.Decision{decisions[3], decisions[1], decisions[0], decisions[2]}
	if got := AggregateDailyMood(permuted); got != want {
		t.Fatalf("permuted input changed result: got %s, want %s", got, want)
	}
}
