package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// LayoutISO is the document key layout for historical days. It sorts
	// correctly as a plain string, which the history pagination relies on.
	LayoutISO = "2006-01-02"

	layoutClock = "15:04"
)

var dayKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayKey formats t's local calendar date as a zero-padded YYYY-MM-DD key.
func DayKey(t time.Time) string {
	return t.Local().Format(LayoutISO)
}

// ParseDayKey parses a YYYY-MM-DD key back to a local midnight time.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(LayoutISO, key, time.Local)
}

// IsDayKey reports whether s has the YYYY-MM-DD shape. Used to filter
// non-day keys (like "main") out of catalog query results.
func IsDayKey(s string) bool {
	return dayKeyPattern.MatchString(s)
}

// SameDay compares local calendar dates, not 24h windows.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Local().Date()
	y2, m2, d2 := b.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Yesterday returns the calendar day before t.
func Yesterday(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// ParseClock accepts either a bare HH:MM clock time (placed on day's local
// date) or a full RFC3339 timestamp.
func ParseClock(s string, day time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if c, err := time.Parse(layoutClock, s); err == nil {
		y, m, d := day.Local().Date()
		return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, time.Local), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timeutil: %q is not an HH:MM clock time or RFC3339 timestamp", s)
}

// FormatShort renders a duration with the largest two of h/m/s tokens, for
// compact "due in 2h15m" style labels.
func FormatShort(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	type unit struct {
		label string
		value time.Duration
	}
	units := []unit{
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	}
	var parts []string
	remaining := d
	for _, u := range units {
		if remaining < u.value || len(parts) == 2 {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		parts = append(parts, fmt.Sprintf("%d%s", count, u.label))
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, "")
}
