package models

import (
	"time"
)

// Emotion is one of the fixed set of emotion tags a decision can carry.
type Emotion string

const (
	EmotionJoyful        Emotion = "JOYFUL"
	EmotionSecure        Emotion = "SECURE"
	EmotionSurprised     Emotion = "SURPRISED"
	EmotionMotivated     Emotion = "MOTIVATED"
	EmotionFear          Emotion = "FEAR"
	EmotionSad           Emotion = "SAD"
	EmotionUncomfortable Emotion = "UNCOMFORTABLE"
	EmotionAngry         Emotion = "ANGRY"
	EmotionNormal        Emotion = "NORMAL"
)

// AllEmotions lists every emotion tag in canonical order. Iteration over
// emotions anywhere in the codebase follows this order so that derived
// output never depends on map ordering.
var AllEmotions = []Emotion{
	EmotionJoyful,
	EmotionSecure,
	EmotionSurprised,
	EmotionMotivated,
	EmotionFear,
	EmotionSad,
	EmotionUncomfortable,
	EmotionAngry,
	EmotionNormal,
}

// emotionValence maps each emotion to its signed polarity.
var emotionValence = map[Emotion]int{
	EmotionJoyful:        1,
	EmotionSecure:        1,
	EmotionSurprised:     1,
	EmotionMotivated:     1,
	EmotionFear:          -1,
	EmotionSad:           -1,
	EmotionUncomfortable: -1,
	EmotionAngry:         -1,
	EmotionNormal:        0,
}

// Valence returns +1 for positive emotions, -1 for negative ones and 0
// for NORMAL. Unknown tags return 0; the validator rejects them before
// they reach any computation.
func (e Emotion) Valence() int {
	return emotionValence[e]
}

// IsKnown reports whether e is one of the fixed emotion tags.
func (e Emotion) IsKnown() bool {
	_, ok := emotionValence[e]
	return ok
}

// Category is one of the fixed life-domain tags a decision belongs to.
type Category string

const (
	CategoryHealth         Category = "HEALTH"
	CategoryWork           Category = "WORK"
	CategoryFinance        Category = "FINANCE"
	CategoryRelationships  Category = "RELATIONSHIPS"
	CategoryFamily         Category = "FAMILY"
	CategoryPersonalGrowth Category = "PERSONAL_GROWTH"
	CategoryLeisure        Category = "LEISURE"
	CategoryEducation      Category = "EDUCATION"
)

// AllCategories lists every category tag in canonical order.
var AllCategories = []Category{
	CategoryHealth,
	CategoryWork,
	CategoryFinance,
	CategoryRelationships,
	CategoryFamily,
	CategoryPersonalGrowth,
	CategoryLeisure,
	CategoryEducation,
}

// categoryGrowth flags the categories associated with personal growth.
var categoryGrowth = map[Category]bool{
	CategoryHealth:         true,
	CategoryWork:           true,
	CategoryFinance:        false,
	CategoryRelationships:  false,
	CategoryFamily:         false,
	CategoryPersonalGrowth: true,
	CategoryLeisure:        false,
	CategoryEducation:      true,
}

// GrowthRelated reports whether the category counts toward personal
// growth. Surfaced on decision responses for client-side grouping.
func (c Category) GrowthRelated() bool {
	return categoryGrowth[c]
}

// IsKnown reports whether c is one of the fixed category tags.
func (c Category) IsKnown() bool {
	_, ok := categoryGrowth[c]
	return ok
}

// Tone is the derived emotional register of a single decision. It is
// never user-supplied and is recomputed whenever emotions or intensity
// change.
type Tone string

const (
	ToneCalm      Tone = "CALM"
	ToneImpulsive Tone = "IMPULSIVE"
	ToneNeutral   Tone = "NEUTRAL"
)

// Decision is one journaled record of a user action and how it felt.
type Decision struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"` // PHI - encrypted at rest
	Emotions  []Emotion `json:"emotions"`
	Intensity int       `json:"intensity"`
	Category  Category  `json:"category"`
	Tone      Tone      `json:"tone"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Password is never exposed in JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences holds the per-user settings consumed by the scheduling
// and notification layer. FirstUseDate and LastAcknowledgedAnchor are
// stored as YYYY-MM-DD strings; the zero value of a date field means
// "not set yet".
type Preferences struct {
	UserID                 string `json:"user_id"`
	WeekStartDay           string `json:"week_start_day"` // time.Weekday name, e.g. "Monday"
	FirstUseDate           string `json:"first_use_date"`
	WeeklyReminderEnabled  bool   `json:"weekly_reminder_enabled"`
	LastAcknowledgedAnchor string `json:"last_acknowledged_anchor"`
}
