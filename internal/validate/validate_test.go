package validate

import (
	"testing"
	"time"

	"github.com/dmoodbackend/internal/models"
)

func valid() models.Decision {
	return models.Decision{
		Timestamp: time.Now(),
		Text:      "took the afternoon off",
		Emotions:  []models.Emotion{models.EmotionJoyful},
		Intensity: 2,
		Category:  models.CategoryLeisure,
	}
}

func TestDecision_Valid(t *testing.T) {
	if err := Decision(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	two := valid()
	two.Emotions = []models.Emotion{models.EmotionJoyful, models.EmotionSecure}
	if err := Decision(two); err != nil {
		t.Fatalf("two emotions should be valid: %v", err)
	}

	normal := valid()
	normal.Emotions = []models.Emotion{models.EmotionNormal}
	if err := Decision(normal); err != nil {
		t.Fatalf("NORMAL alone should be valid: %v", err)
	}
}

func TestDecision_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Decision)
	}{
		{"empty text", func(d *models.Decision) { d.Text = "" }},
		{"whitespace text", func(d *models.Decision) { d.Text = "   " }},
		{"no emotions", func(d *models.Decision) { d.Emotions = nil }},
		{"too many emotions", func(d *models.Decision) {
			d.Emotions = []models.Emotion{models.EmotionJoyful, models.EmotionSecure, models.EmotionMotivated}
		}},
		{"NORMAL mixed with another emotion", func(d *models.Decision) {
			d.Emotions = []models.Emotion{models.EmotionNormal, models.EmotionJoyful}
		}},
		{"duplicate emotion", func(d *models.Decision) {
			d.Emotions = []models.Emotion{models.EmotionSad, models.EmotionSad}
		}},
		{"unknown emotion", func(d *models.Decision) { d.Emotions = []models.Emotion{"BORED"} }},
		{"intensity too low", func(d *models.Decision) { d.Intensity = 0 }},
		{"intensity too high", func(d *models.Decision) { d.Intensity = 6 }},
		{"unknown category", func(d *models.Decision) { d.Category = "PETS" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			if err := Decision(d); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}
