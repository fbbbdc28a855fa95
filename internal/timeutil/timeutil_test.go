package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := DaysBetween(start, start.Add(36*time.Hour)); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if got := DaysBetween(start, start.Add(-48*time.Hour)); got != 0 {
		t.Fatalf("expected negative spans to clamp to 0, got %v", got)
	}
}

func TestWithinDays(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }
	value := time.Date(2023, 1, 10, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from, to time.Time
		want     bool
	}{
		{name: "open", want: true},
		{name: "inclusive upper", from: day(1), to: day(10), want: true},
		{name: "inclusive lower", from: day(10), want: true},
		{name: "before", from: day(11), want: false},
		{name: "after", to: day(9), want: false},
	}
	for _, tc := range tests {
		if got := WithinDays(value, tc.from, tc.to); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
