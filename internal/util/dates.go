package util

import "time"

// MidnightUTC truncates a timestamp to midnight UTC. Budget boundaries and
// transaction dates are normalized with this before any day arithmetic.
func MidnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WholeDaysBetween returns the number of whole days from a to b.
// Negative when b is before a.
func WholeDaysBetween(a, b time.Time) int {
	return int(MidnightUTC(b).Sub(MidnightUTC(a)).Hours() / 24)
}

// InclusiveDayCount returns the number of calendar days in [start, end],
// counting both boundaries. start==end yields 1.
func InclusiveDayCount(start, end time.Time) int {
	return WholeDaysBetween(start, end) + 1
}

// SameDay reports whether two timestamps fall on the same UTC calendar day
func SameDay(a, b time.Time) bool {
	return MidnightUTC(a).Equal(MidnightUTC(b))
}
