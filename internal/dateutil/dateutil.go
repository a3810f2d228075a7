// Package dateutil converts between calendar dates and the ISO day keys
// used to address cached query results. Keys are derived from the wall-clock
// calendar day, so two times on the same local day always produce the same
// key regardless of time-of-day.
package dateutil

import "time"

// KeyLayout is the canonical ISO 8601 day key format. Keys in this layout
// sort lexically in chronological order.
const KeyLayout = "2006-01-02"

// Key returns the ISO day key for t's calendar day in t's location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses an ISO day key back into midnight local time.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.Local)
}

// DisplayLabel renders a day key as a short human-readable label,
// e.g. "Mon, Jan 2". Presentational only; never used for equality.
func DisplayLabel(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return key
	}
	return t.Format("Mon, Jan 2")
}

// Today returns the current local time.
func Today() time.Time {
	return time.Now()
}

// IsToday reports whether t falls on the current local calendar day.
func IsToday(t time.Time) bool {
	return Key(t) == Key(time.Now())
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekStart returns the Monday of the week containing t, at t's clock time.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return t.AddDate(0, 0, -offset)
}

// IsCurrentWeek reports whether t falls in the week containing today.
func IsCurrentWeek(t time.Time) bool {
	return Key(WeekStart(t)) == Key(WeekStart(time.Now()))
}

// MonthKey returns the "YYYY-MM" key for the month containing t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
