package util

import (
	"testing"
	"time"
)

func TestMidnightUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2026, time.March, 5, 2, 30, 0, 0, loc) // Mar 4 19:30 UTC

	got := MidnightUTC(ts)
	want := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestWholeDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			"same day",
			time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC),
			0,
		},
		{
			"full month span",
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			30,
		},
		{
			"reversed is negative",
			time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC),
			-2,
		},
		{
			"ignores time of day",
			time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC),
			time.Date(2026, time.March, 2, 0, 1, 0, 0, time.UTC),
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WholeDaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInclusiveDayCount(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	if got := InclusiveDayCount(start, start); got != 1 {
		t.Errorf("Expected single day to count 1, got %d", got)
	}
	if got := InclusiveDayCount(start, start.AddDate(0, 0, 6)); got != 7 {
		t.Errorf("Expected a week to count 7, got %d", got)
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, time.June, 10, 1, 0, 0, 0, time.UTC)
	night := time.Date(2026, time.June, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, night) {
		t.Error("Expected same UTC day")
	}
	if SameDay(night, nextDay) {
		t.Error("Expected different UTC days")
	}
}
