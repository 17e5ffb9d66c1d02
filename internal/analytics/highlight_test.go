package analytics

import (
	"testing"

	"github.com/dmoodbackend/internal/models"
)

func TestExtractHighlights_StrongestPositiveDayIsFirstMatch(t *testing.T) {
	monday := date(2024, 1, 1)
	tuesday := monday.AddDate(0, 0, 1)
	friday := monday.AddDate(0, 0, 4)

	// Tuesday and Friday are both positive; the first one wins.
	decisions := []models.Decision{
		dec(monday, 3, models.CategoryWork, models.EmotionNormal),
		dec(tuesday, 2, models.CategoryWork, models.EmotionJoyful),
		dec(friday, 2, models.CategoryLeisure, models.EmotionJoyful, models.EmotionMotivated),
	}

	summary := BuildWeeklySummary(decisions, monday, monday.AddDate(0, 0, 6))
	h := ExtractHighlights(summary, decisions)
	if h.StrongestPositiveDay != "Tuesday" {
		t.Fatalf("strongest positive day = %q, want Tuesday", h.StrongestPositiveDay)
	}
}

func TestExtractHighlights_MostChallengingDay(t *testing.T) {
	monday := date(2024, 1, 1)
	tuesday := monday.AddDate(0, 0, 1)

	// Tuesday has two challenging decisions (negative emotion, high
	// intensity), Monday one.
	decisions := []models.Decision{
		dec(monday, 5, models.CategoryWork, models.EmotionFear),
		dec(tuesday, 4, models.CategoryWork, models.EmotionAngry),
		dec(tuesday, 2, models.CategoryWork, models.EmotionAngry, models.EmotionSad),
		dec(tuesday, 1, models.CategoryWork, models.EmotionJoyful),
	}

	summary := BuildWeeklySummary(decisions, monday, monday.AddDate(0, 0, 6))
	h := ExtractHighlights(summary, decisions)
	if h.StrongestNegativeDay != "Tuesday" {
		t.Fatalf("strongest negative day = %q, want Tuesday", h.StrongestNegativeDay)
	}
	// ANGRY appears in both of Tuesday's challenging decisions.
	if h.MostChallengingDayEmotion != models.EmotionAngry {
		t.Fatalf("challenging day emotion = %q, want ANGRY", h.MostChallengingDayEmotion)
	}
}

func TestExtractHighlights_ChallengingDayTieGoesToEarliestDate(t *testing.T) {
	monday := date(2024, 1, 1)
	thursday := monday.AddDate(0, 0, 3)

	decisions := []models.Decision{
		dec(thursday, 5, models.CategoryWork, models.EmotionSad),
		dec(monday, 5, models.CategoryWork, models.EmotionFear),
	}

	summary := BuildWeeklySummary(decisions, monday, monday.AddDate(0, 0, 6))
	h := ExtractHighlights(summary, decisions)
	if h.StrongestNegativeDay != "Monday" {
		t.Fatalf("strongest negative day = %q, want Monday on tie", h.StrongestNegativeDay)
	}
}

func TestExtractHighlights_NoChallengingSignal(t *testing.T) {
	monday := date(2024, 1, 1)
	decisions := []models.Decision{
		dec(monday, 2, models.CategoryHealth, models.EmotionJoyful),
		dec(monday.AddDate(0, 0, 1), 3, models.CategoryHealth, models.EmotionNormal),
	}

	summary := BuildWeeklySummary(decisions, monday, monday.AddDate(0, 0, 6))
	h := ExtractHighlights(summary, decisions)
	if h.StrongestNegativeDay != "" {
		t.Fatalf("strongest negative day = %q, want empty", h.StrongestNegativeDay)
	}
	if h.MostChallengingDayEmotion != "" {
		t.Fatalf("challenging day emotion = %q, want empty", h.MostChallengingDayEmotion)
	}
}

func TestExtractHighlights_MostFrequentCategoryFirstSeenTie(t *testing.T) {
	monday := date(2024, 1, 1)
	decisions := []models.Decision{
		dec(monday, 2, models.CategoryFinance, models.EmotionSecure),
		dec(monday, 2, models.CategoryHealth, models.EmotionSecure),
		dec(monday, 2, models.CategoryHealth, models.EmotionJoyful),
		dec(monday, 2, models.CategoryFinance, models.EmotionJoyful),
	}

	summary := BuildWeeklySummary(decisions, monday, monday.AddDate(0, 0, 6))
	h := ExtractHighlights(summary, decisions)
	if h.MostFrequentCategory != models.CategoryFinance {
		t.Fatalf("most frequent category = %q, want FINANCE (first seen on tie)", h.MostFrequentCategory)
	}
}

func TestExtractHighlights_EmotionalTrend(t *testing.T) {
	monday := date(2024, 1, 1)

	tests := []struct {
		name      string
		decisions []models.Decision
		want      string
	}{
		{
			"more positive days",
			[]models.Decision{
				dec(monday, 2, models.CategoryWork, models.EmotionJoyful),
				dec(monday.AddDate(0, 0, 1), 2, models.CategoryWork, models.EmotionSecure),
				dec(monday.AddDate(0, 0, 2), 5, models.CategoryWork, models.EmotionSad),
			},
			TrendPredominantlyPositive,
		},
		{
			"more negative days",
			[]models.Decision{
				dec(monday, 5, models.CategoryWork, models.EmotionSad),
				dec(monday.AddDate(0, 0, 1), 5, models.CategoryWork, models.EmotionFear),
				dec(monday.AddDate(0, 0, 2), 2, models.CategoryWork, models.EmotionJoyful),
			},
			TrendPredominantlyNegative,
		},
		{
			"tie is balanced",
			[]models.Decision{
				dec(monday, 2, models.CategoryWork, models.EmotionJoyful),
				dec(monday.AddDate(0, 0, 1), 5, models.CategoryWork, models.EmotionSad),
			},
			TrendBalanced,
		},
		{
			"all neutral days are balanced",
			[]models.Decision{
				dec(monday, 3, models.CategoryWork, models.EmotionNormal),
			},
			TrendBalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := BuildWeeklySummary(tt.decisions, monday, monday.AddDate(0, 0, 6))
			h := ExtractHighlights(summary, tt.decisions)
			if h.EmotionalTrend != tt.want {
				t.Fatalf("trend = %q, want %q", h.EmotionalTrend, tt.want)
			}
		})
	}
}
