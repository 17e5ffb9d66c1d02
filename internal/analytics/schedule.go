package analytics

import (
	"time"
)

// DefaultMinimumTrackedDays is the minimum number of whole days a user
// must have been tracking before the first weekly summary is released.
// It guards against summarizing a partial first week.
const DefaultMinimumTrackedDays = 4

// ScheduleState describes the weekly release cadence as seen from one
// day. It is recomputed on every check and never mutated; whether an
// anchor has already been notified is the preferences store's concern,
// not this package's.
type ScheduleState struct {
	// Available is true exactly on the anchor day: the one day a new
	// summary is released.
	Available bool
	// Anchor is the anchor date of the current (most recent eligible)
	// window. Zero when no window has been released yet.
	Anchor time.Time
	// WindowStart/WindowEnd bound the released window: the trailing
	// seven days ending the day before the anchor. Zero when no window
	// has been released yet.
	WindowStart time.Time
	WindowEnd   time.Time
	// NextRelease is the next anchor date.
	NextRelease time.Time
}

// dateOnly truncates t to midnight in its own location. All schedule
// arithmetic is calendar-day based; time of day never participates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b (b on or after a).
// Dates are re-anchored in UTC so a DST transition in the caller's zone
// cannot make a day count off by one.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// CalculateSchedule computes the weekly release schedule from the
// user's first use date, the configured week start day, and today.
//
// The first candidate anchor is the first occurrence of weekStartDay
// on or after firstUseDate, pushed forward by whole weeks until at
// least minimumTrackedDays of tracking precede it. From then on
// anchors repeat every seven days; each anchor releases the window of
// the seven days before it, and the release is available only on the
// anchor day itself.
func CalculateSchedule(firstUseDate time.Time, weekStartDay time.Weekday, today time.Time, minimumTrackedDays int) ScheduleState {
	firstUse := dateOnly(firstUseDate)
	now := dateOnly(today)

	firstCandidate := firstUse.AddDate(0, 0, (int(weekStartDay)-int(firstUse.Weekday())+7)%7)
	for daysBetween(firstUse, firstCandidate) < minimumTrackedDays {
		firstCandidate = firstCandidate.AddDate(0, 0, 7)
	}

	if now.Before(firstCandidate) {
		return ScheduleState{NextRelease: firstCandidate}
	}

	weeksElapsed := daysBetween(firstCandidate, now) / 7
	anchor := firstCandidate.AddDate(0, 0, 7*weeksElapsed)

	return ScheduleState{
		Available:   now.Equal(anchor),
		Anchor:      anchor,
		WindowStart: anchor.AddDate(0, 0, -7),
		WindowEnd:   anchor.AddDate(0, 0, -1),
		NextRelease: anchor.AddDate(0, 0, 7),
	}
}
