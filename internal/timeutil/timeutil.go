package timeutil

import "time"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// DaysBetween returns the fractional days from start to end, clamped at 0.
func DaysBetween(start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

// WithinDays reports whether value falls on a day in [from, to]. A zero
// bound is open.
func WithinDays(value, from, to time.Time) bool {
	day := StartOfDay(value)
	if !from.IsZero() && day.Before(StartOfDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(StartOfDay(to)) {
		return false
	}
	return true
}
