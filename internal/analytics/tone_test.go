package analytics

import (
	"testing"

	"github.com/dmoodbackend/internal/models"
)

func TestClassifyTone(t *testing.T) {
	tests := []struct {
		name      string
		emotions  []models.Emotion
		intensity int
		want      models.Tone
	}{
		{"all positive low intensity", []models.Emotion{models.EmotionJoyful, models.EmotionSecure}, 3, models.ToneCalm},
		{"single positive minimum intensity", []models.Emotion{models.EmotionMotivated}, 1, models.ToneCalm},
		{"negative high intensity", []models.Emotion{models.EmotionAngry}, 4, models.ToneImpulsive},
		{"mixed with negative at max intensity", []models.Emotion{models.EmotionJoyful, models.EmotionFear}, 5, models.ToneImpulsive},
		{"normal at max intensity stays neutral", []models.Emotion{models.EmotionNormal}, 5, models.ToneNeutral},
		{"all positive but high intensity", []models.Emotion{models.EmotionJoyful}, 4, models.ToneNeutral},
		{"negative but low intensity", []models.Emotion{models.EmotionSad}, 3, models.ToneNeutral},
		{"mixed at low intensity", []models.Emotion{models.EmotionJoyful, models.EmotionSad}, 2, models.ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTone(tt.emotions, tt.intensity)
			if got != tt.want {
				t.Fatalf("ClassifyTone(%v, %d) = %s, want %s", tt.emotions, tt.intensity, got, tt.want)
			}
		})
	}
}
