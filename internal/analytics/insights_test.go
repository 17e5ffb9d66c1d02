package analytics

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dmoodbackend/internal/models"
)

func TestGenerateInsights_EmptyInputEmptyOutput(t *testing.T) {
	if got := GenerateInsights(nil); len(got) != 0 {
		t.Fatalf("GenerateInsights(nil) = %v, want empty", got)
	}
}

func TestGenerateInsights_EmotionDominance(t *testing.T) {
	monday := date(2024, 1, 1)

	// 7 of 10 decisions carry FEAR, spread over several days and
	// categories so the category rules stay quiet.
	var decisions []models.Decision
	categories := []models.Category{
		models.CategoryWork, models.CategoryHealth, models.CategoryFinance,
		models.CategoryFamily, models.CategoryLeisure, models.CategoryEducation,
		models.CategoryRelationships,
	}
	for i := 0; i < 7; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i), 3, categories[i], models.EmotionFear))
	}
	for i := 0; i < 3; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i+7), 2, categories[i], models.EmotionJoyful))
	}

	insights := GenerateInsights(decisions)

	var dominance *Insight
	for i := range insights {
		if insights[i].Title == "Fear dominates your decisions" {
			dominance = &insights[i]
			break
		}
	}
	if dominance == nil {
		t.Fatalf("fear dominance insight did not fire: %v", insights)
	}
	if !strings.Contains(dominance.Description, "70%") {
		t.Fatalf("description %q does not contain 70%%", dominance.Description)
	}
	if dominance.Tag != TagEmotion {
		t.Fatalf("tag = %q, want %q", dominance.Tag, TagEmotion)
	}
}

func TestGenerateInsights_Deterministic(t *testing.T) {
	monday := date(2024, 1, 1)
	var decisions []models.Decision
	for i := 0; i < 6; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i%3), 5, models.CategoryWork, models.EmotionAngry))
	}
	for i := 0; i < 4; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i%2), 2, models.CategoryHealth, models.EmotionJoyful))
	}

	first := GenerateInsights(decisions)
	second := GenerateInsights(decisions)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs diverged:\n%v\n%v", first, second)
	}
	if len(first) == 0 {
		t.Fatalf("expected at least one insight")
	}
}

func TestGenerateInsights_CategoryNegativeDominanceOutranksEverything(t *testing.T) {
	monday := date(2024, 1, 1)

	// One category, 10 decisions, 7 with FEAR at low intensity: the
	// priority-1 category rule must come before the priority-3 global
	// dominance rule.
	var decisions []models.Decision
	for i := 0; i < 7; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i%5), 3, models.CategoryWork, models.EmotionFear))
	}
	for i := 0; i < 3; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i), 2, models.CategoryWork, models.EmotionJoyful))
	}

	insights := GenerateInsights(decisions)
	if len(insights) == 0 {
		t.Fatalf("expected insights")
	}
	if insights[0].Title != "Work decisions carry fear" {
		t.Fatalf("first insight = %q, want the category fear rule", insights[0].Title)
	}

	// The global dominance rule must also be present, later.
	found := false
	for _, in := range insights[1:] {
		if in.Title == "Fear dominates your decisions" {
			found = true
		}
	}
	if !found {
		t.Fatalf("global dominance insight missing: %v", insights)
	}
}

func TestGenerateInsights_HotZone(t *testing.T) {
	monday := date(2024, 1, 1)

	// 2 of 4 finance decisions are intense and negative.
	decisions := []models.Decision{
		dec(monday, 5, models.CategoryFinance, models.EmotionFear),
		dec(monday, 4, models.CategoryFinance, models.EmotionAngry),
		dec(monday, 2, models.CategoryFinance, models.EmotionJoyful),
		dec(monday, 3, models.CategoryFinance, models.EmotionNormal),
	}

	insights := GenerateInsights(decisions)
	found := false
	for _, in := range insights {
		if in.Title == "Finance is a hot zone" {
			found = true
			if !strings.Contains(in.Description, "50%") {
				t.Fatalf("description %q does not contain 50%%", in.Description)
			}
		}
	}
	if !found {
		t.Fatalf("hot zone insight missing: %v", insights)
	}
}

func TestGenerateInsights_ImpulsiveAndIntensityRules(t *testing.T) {
	monday := date(2024, 1, 1)

	// All decisions impulsive at max intensity: both priority-4 rules
	// fire.
	var decisions []models.Decision
	for i := 0; i < 4; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i), 5, models.CategoryWork, models.EmotionAngry))
	}

	insights := GenerateInsights(decisions)
	titles := make(map[string]bool)
	for _, in := range insights {
		titles[in.Title] = true
	}
	if !titles["Impulsive decisions are piling up"] {
		t.Fatalf("impulsive ratio insight missing: %v", insights)
	}
	if !titles["Your decisions run hot"] {
		t.Fatalf("average intensity insight missing: %v", insights)
	}
}

func TestGenerateInsights_CalmRule(t *testing.T) {
	monday := date(2024, 1, 1)
	var decisions []models.Decision
	for i := 0; i < 3; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i), 2, models.CategoryLeisure, models.EmotionJoyful))
	}

	insights := GenerateInsights(decisions)
	found := false
	for _, in := range insights {
		if in.Title == "A calm stretch" {
			found = true
			if !strings.Contains(in.Description, "100%") {
				t.Fatalf("description %q does not contain 100%%", in.Description)
			}
		}
	}
	if !found {
		t.Fatalf("calm insight missing: %v", insights)
	}
}

func TestGenerateInsights_NegativeWeekday(t *testing.T) {
	monday := date(2024, 1, 1)
	tuesday := monday.AddDate(0, 0, 1)

	decisions := []models.Decision{
		dec(tuesday, 5, models.CategoryWork, models.EmotionSad),
		dec(tuesday.AddDate(0, 0, 7), 5, models.CategoryWork, models.EmotionFear),
		dec(monday, 2, models.CategoryWork, models.EmotionJoyful),
	}

	insights := GenerateInsights(decisions)
	found := false
	for _, in := range insights {
		if in.Title == "Tuesdays tend to be hard" {
			found = true
		}
		if in.Title == "Mondays tend to be hard" {
			t.Fatalf("Monday is positive, its weekday rule must not fire")
		}
	}
	if !found {
		t.Fatalf("negative weekday insight missing: %v", insights)
	}
}

func TestGenerateInsights_ConcentrationRules(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	// Single category, two emotions, everything within 48h of the
	// latest record: all three priority-6 rules fire.
	decisions := []models.Decision{
		dec(now.Add(-1*time.Hour), 3, models.CategoryWork, models.EmotionNormal),
		dec(now.Add(-20*time.Hour), 2, models.CategoryWork, models.EmotionJoyful),
		dec(now, 3, models.CategoryWork, models.EmotionNormal),
	}

	insights := GenerateInsights(decisions)
	titles := make(map[string]bool)
	for _, in := range insights {
		titles[in.Title] = true
	}
	if !titles["Your decisions revolve around work"] {
		t.Fatalf("category concentration insight missing: %v", insights)
	}
	if !titles["A narrow emotional range"] {
		t.Fatalf("narrow range insight missing: %v", insights)
	}
	if !titles["A burst of recent activity"] {
		t.Fatalf("recency insight missing: %v", insights)
	}
}

func TestGenerateInsights_DeduplicatesByTitle(t *testing.T) {
	monday := date(2024, 1, 1)
	var decisions []models.Decision
	for i := 0; i < 5; i++ {
		decisions = append(decisions, dec(monday.AddDate(0, 0, i%3), 4, models.CategoryWork, models.EmotionFear))
	}

	insights := GenerateInsights(decisions)
	seen := make(map[string]int)
	for _, in := range insights {
		seen[in.Title]++
	}
	for title, n := range seen {
		if n > 1 {
			t.Fatalf("title %q appears %d times", title, n)
		}
	}
}
