package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mon-Fri 09:00-17:00 UTC, no holidays.
func weekdayCalendar() *Calendar {
	cal := NewCalendar()
	hrs := Hours{OpenSec: 9 * 3600, CloseSec: 17 * 3600}
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		cal.Hours[wd] = hrs
	}
	return cal
}

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestComputeDueDateScenarios(t *testing.T) {
	// 2023-12-28 is a Thursday.
	cal := weekdayCalendar()
	cases := []struct {
		name  string
		start time.Time
		hours float64
		want  time.Time
	}{
		{"within same day", utc(2023, 12, 28, 10, 0), 2, utc(2023, 12, 28, 12, 0)},
		{"to exact end of day", utc(2023, 12, 28, 15, 0), 2, utc(2023, 12, 28, 17, 0)},
		{"spans overnight", utc(2023, 12, 28, 15, 0), 4, utc(2023, 12, 29, 11, 0)},
		{"starts before opening", utc(2023, 12, 28, 7, 0), 1, utc(2023, 12, 28, 10, 0)},
		{"starts after closing", utc(2023, 12, 28, 18, 0), 1, utc(2023, 12, 29, 10, 0)},
		{"start at exact close rolls over", utc(2023, 12, 28, 17, 0), 1, utc(2023, 12, 29, 10, 0)},
		{"start at exact open, full day", utc(2023, 12, 28, 9, 0), 8, utc(2023, 12, 28, 17, 0)},
		{"weekend start snaps to monday", utc(2023, 12, 30, 10, 0), 2, utc(2024, 1, 1, 11, 0)},
		{"fractional hours", utc(2023, 12, 28, 10, 0), 2.5, utc(2023, 12, 28, 12, 30)},
		{"fractional spill into next day", utc(2023, 12, 28, 16, 30), 1.0, utc(2023, 12, 29, 9, 30)},
		{"full week", utc(2023, 12, 25, 10, 0), 40, utc(2024, 1, 1, 10, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeDueDate(tc.start, tc.hours, cal)
			require.NoError(t, err)
			assert.WithinDuration(t, tc.want, got, time.Second)
		})
	}
}

func TestComputeDueDateZeroIsIdempotent(t *testing.T) {
	cal := weekdayCalendar()
	for _, start := range []time.Time{
		utc(2023, 12, 28, 11, 0), // business hours
		utc(2023, 12, 30, 3, 0),  // weekend
		utc(2023, 12, 28, 23, 0), // after hours
	} {
		got, err := ComputeDueDate(start, 0, cal)
		require.NoError(t, err)
		assert.True(t, got.Equal(start))
	}
}

func TestComputeDueDateMonotonic(t *testing.T) {
	cal := weekdayCalendar()
	start := utc(2023, 12, 28, 15, 0)
	prev := start
	for _, h := range []float64{0, 0.25, 1, 2, 4, 8, 8.5, 16, 40} {
		got, err := ComputeDueDate(start, h, cal)
		require.NoError(t, err)
		assert.False(t, got.Before(prev), "hours=%v went backwards", h)
		prev = got
	}
}

func TestComputeDueDateNegativeHours(t *testing.T) {
	_, err := ComputeDueDate(utc(2023, 12, 28, 10, 0), -1, weekdayCalendar())
	assert.ErrorIs(t, err, ErrNegativeHours)
}

func TestComputeDueDateHolidayOverridesWeekday(t *testing.T) {
	cal := weekdayCalendar()
	// 2024-01-01 is a Monday; declaring it a holiday closes it.
	cal.Holidays[utc(2024, 1, 1, 0, 0)] = struct{}{}

	// Friday 15:00 + 3h => 2h Friday, Monday skipped, 1h Tuesday.
	got, err := ComputeDueDate(utc(2023, 12, 29, 15, 0), 3, cal)
	require.NoError(t, err)
	assert.WithinDuration(t, utc(2024, 1, 2, 10, 0), got, time.Second)

	// Starting on the holiday itself skips straight to Tuesday.
	got, err = ComputeDueDate(utc(2024, 1, 1, 10, 0), 3, cal)
	require.NoError(t, err)
	assert.WithinDuration(t, utc(2024, 1, 2, 12, 0), got, time.Second)
}

func TestComputeDueDateOnlyTuesdaysOpen(t *testing.T) {
	cal := NewCalendar()
	cal.Hours[time.Tuesday] = Hours{OpenSec: 9 * 3600, CloseSec: 17 * 3600}
	// Monday 10:00 + 1h lands Tuesday 10:00.
	got, err := ComputeDueDate(utc(2024, 1, 1, 10, 0), 1, cal)
	require.NoError(t, err)
	assert.WithinDuration(t, utc(2024, 1, 2, 10, 0), got, time.Second)
}

func TestComputeDueDateAllClosedCalendarTerminates(t *testing.T) {
	cal := NewCalendar()
	start := utc(2023, 12, 28, 10, 0)
	got, err := ComputeDueDate(start, 8, cal)
	require.NoError(t, err)
	// Best effort: the walk gives up after the iteration cap instead of
	// hanging, having advanced one day per iteration.
	assert.True(t, got.After(start))
}

func TestComputeDueDateNonUTCStart(t *testing.T) {
	cal := weekdayCalendar()
	loc := time.FixedZone("UTC+2", 2*3600)
	start := time.Date(2023, 12, 28, 12, 0, 0, 0, loc) // 10:00 UTC
	got, err := ComputeDueDate(start, 2, cal)
	require.NoError(t, err)
	assert.WithinDuration(t, utc(2023, 12, 28, 12, 0), got, time.Second)
	assert.Equal(t, time.UTC, got.Location())
}
