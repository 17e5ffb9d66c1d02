// Package validate enforces the decision invariants before a record
// reaches the analytics core. The core itself never re-validates:
// anything that gets past this package is assumed well-formed.
package validate

import (
	"fmt"
	"strings"

	"github.com/dmoodbackend/internal/models"
)

const (
	MinIntensity = 1
	MaxIntensity = 5
	MaxEmotions  = 2
)

// Decision checks the invariants of a decision record: non-empty
// trimmed text, 1-2 known emotions with NORMAL mutually exclusive,
// intensity 1..5, known category. Returns the first violation found.
func Decision(d models.Decision) error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("text must not be empty")
	}

	if len(d.Emotions) == 0 || len(d.Emotions) > MaxEmotions {
		return fmt.Errorf("decision must carry 1 to %d emotions, got %d", MaxEmotions, len(d.Emotions))
	}

	seen := make(map[models.Emotion]bool, len(d.Emotions))
	hasNormal := false
	for _, e := range d.Emotions {
		if !e.IsKnown() {
			return fmt.Errorf("unknown emotion %q", e)
		}
		if seen[e] {
			return fmt.Errorf("duplicate emotion %q", e)
		}
		seen[e] = true
		if e == models.EmotionNormal {
			hasNormal = true
		}
	}
	if hasNormal && len(d.Emotions) > 1 {
		return fmt.Errorf("NORMAL excludes all other emotions")
	}

	if d.Intensity < MinIntensity || d.Intensity > MaxIntensity {
		return fmt.Errorf("intensity must be between %d and %d, got %d", MinIntensity, MaxIntensity, d.Intensity)
	}

	if !d.Category.IsKnown() {
		return fmt.Errorf("unknown category %q", d.Category)
	}

	return nil
}
