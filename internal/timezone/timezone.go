package timezone

import (
	"time"
)

const APIDateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an upstream ISO-8601 timestamp. Timestamps without an
// offset are airport-local wall clock times and are kept as such in UTC so
// that HourOfDay returns the local hour.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}

// HourOfDay returns the wall clock hour as written in the timestamp.
func HourOfDay(t time.Time) int {
	return t.Hour()
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(APIDateLayout, s)
}

// FormatAPIDate truncates t to its UTC calendar date.
func FormatAPIDate(t time.Time) string {
	return t.UTC().Format(APIDateLayout)
}

// DateOnly drops the time of day, keeping the calendar date of t in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
