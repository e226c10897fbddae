package scheduling

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Layouts without a zone are read in the venue location. The minute layout is
// what an HTML datetime-local input submits.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an RFC 3339 or zone-less local timestamp and returns
// it normalized to UTC with second precision.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, newError(KindInvalidTimestamp, "start time is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return normalizeTimestamp(t), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return normalizeTimestamp(t), nil
		}
	}
	return time.Time{}, newError(KindInvalidTimestamp, "invalid timestamp %q", raw)
}

// ParseDay returns the [start, end) bounds, in UTC, of the calendar day raw
// (YYYY-MM-DD) in loc.
func ParseDay(raw string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, time.Time{}, newError(KindInvalidTimestamp, "invalid day %q, expected YYYY-MM-DD", raw)
	}
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}

func normalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
