package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleTimeLayout is the second-precision layout schedule dates are
// exchanged in. The values are naive local timestamps, not timezone-aware.
const ScheduleTimeLayout = "2006-01-02T15:04:05"

// defaultScheduleTime is appended when the caller supplies a bare date.
const defaultScheduleTime = "09:00:00"

// NormalizeScheduleDate expands a schedule date string to second precision:
// a date-only value gets the 09:00 default time of day, and a minute-precision
// value gets ":00" seconds appended. Already-complete values pass through.
func NormalizeScheduleDate(s string) string {
	if s == "" {
		return s
	}
	if !strings.Contains(s, "T") {
		return s + "T" + defaultScheduleTime
	}
	if strings.Count(s, ":") == 1 {
		return s + ":00"
	}
	return s
}

// ParseScheduleDate normalizes and parses a schedule date string.
func ParseScheduleDate(s string) (time.Time, error) {
	norm := NormalizeScheduleDate(s)
	t, err := time.ParseInLocation(ScheduleTimeLayout, norm, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule date %q: %w", s, err)
	}
	return t, nil
}

// DayBounds returns the inclusive start and end of the calendar day
// containing t, used for per-day schedule queries.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekBounds returns the start of the Monday-based week containing t and the
// end of that week.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start, _ := DayBounds(t)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
}
