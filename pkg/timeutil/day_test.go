package timeutil

import (
	"testing"
	"time"
)

func TestDayKeyZeroPadded(t *testing.T) {
	d := time.Date(2026, 3, 7, 15, 4, 5, 0, time.Local)
	if got := DayKey(d); got != "2026-03-07" {
		t.Fatalf("expected 2026-03-07, got %q", got)
	}
}

func TestIsDayKey(t *testing.T) {
	cases := map[string]bool{
		"2026-08-25": true,
		"main":       false,
		"2026-8-25":  false,
		"":           false,
		"2026-08-25T10:00": false,
	}
	for in, want := range cases {
		if got := IsDayKey(in); got != want {
			t.Fatalf("IsDayKey(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDayKeyRoundTrip(t *testing.T) {
	day, err := ParseDayKey("2026-08-24")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := DayKey(day); got != "2026-08-24" {
		t.Fatalf("round trip produced %q", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 25, 0, 1, 0, 0, time.Local)
	b := time.Date(2026, 8, 25, 23, 59, 0, 0, time.Local)
	if !SameDay(a, b) {
		t.Fatal("expected same day")
	}
	if SameDay(a, b.Add(2*time.Minute)) {
		t.Fatal("expected different days")
	}
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.Local)

	got, err := ParseClock("14:30", day)
	if err != nil {
		t.Fatalf("clock parse: %v", err)
	}
	want := time.Date(2026, 8, 25, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got, err = ParseClock("2026-08-20T09:00:00Z", day)
	if err != nil {
		t.Fatalf("rfc3339 parse: %v", err)
	}
	if !got.Equal(time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected rfc3339 result %v", got)
	}

	if _, err := ParseClock("noonish", day); err == nil {
		t.Fatal("expected error for unparsable input")
	}
}

func TestFormatShort(t *testing.T) {
	cases := map[time.Duration]string{
		0:                             "0s",
		90 * time.Minute:              "1h30m",
		3 * time.Hour:                 "3h",
		42*time.Minute + 5*time.Second: "42m5s",
	}
	for in, want := range cases {
		if got := FormatShort(in); got != want {
			t.Fatalf("FormatShort(%v) = %q, want %q", in, got, want)
		}
	}
}
