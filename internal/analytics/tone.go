// Package analytics derives behavioral signals from journaled
// decisions: per-decision tone, per-day mood, weekly summaries,
// qualitative highlights, the weekly release schedule, and a ranked
// set of narrative insights.
//
// Every function in this package is pure: no side effects, no I/O, no
// shared state, deterministic output for identical input. Callers may
// invoke them concurrently without synchronization. Inputs are assumed
// to have passed the validate package; nothing here re-validates.
package analytics

import (
	"github.com/dmoodbackend/internal/models"
)

// ClassifyTone derives the tone of a single decision from its emotions
// and intensity:
//
//  1. every emotion positive and intensity <= 3 -> CALM
//  2. any emotion negative and intensity >= 4 -> IMPULSIVE
//  3. anything else -> NEUTRAL
//
// NORMAL has zero valence, so a {NORMAL} decision is NEUTRAL at any
// intensity.
func ClassifyTone(emotions []models.Emotion, intensity int) models.Tone {
	allPositive := len(emotions) > 0
	anyNegative := false
	for _, e := range emotions {
		switch {
		case e.Valence() < 0:
			anyNegative = true
			allPositive = false
		case e.Valence() == 0:
			allPositive = false
		}
	}

	if allPositive && intensity <= 3 {
		return models.ToneCalm
	}
	if anyNegative && intensity >= 4 {
		return models.ToneImpulsive
	}
	return models.ToneNeutral
}
