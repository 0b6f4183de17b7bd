package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCalendarNormalizesMalformedEntries(t *testing.T) {
	cal := ParseCalendar(map[string][]string{
		"Monday":    {"09:00", "17:00"},
		"tuesday":   {"08:30:00", "12:00"},
		"wednesday": nil,                  // explicitly closed
		"thursday":  {"17:00", "09:00"},   // close before open
		"friday":    {"nine", "17:00"},    // unparsable
		"saturday":  {"09:00"},            // wrong arity
		"Funday":    {"09:00", "17:00"},   // unknown day
	}, nil)

	mon, ok := cal.Hours[time.Monday]
	assert.True(t, ok)
	assert.Equal(t, Hours{OpenSec: 9 * 3600, CloseSec: 17 * 3600}, mon)

	tue, ok := cal.Hours[time.Tuesday]
	assert.True(t, ok)
	assert.Equal(t, 8*3600+1800, tue.OpenSec)

	for _, wd := range []time.Weekday{time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		_, ok := cal.Hours[wd]
		assert.False(t, ok, "%s should be closed", wd)
	}
}

func TestParseCalendarHolidays(t *testing.T) {
	cal := ParseCalendar(map[string][]string{
		"monday": {"09:00", "17:00"},
	}, []string{"2024-01-01", "not-a-date", "2024-05-27"})

	assert.Len(t, cal.Holidays, 2)
	_, ok := cal.Holidays[utc(2024, 1, 1, 0, 0)]
	assert.True(t, ok)
}

func TestIsOperating(t *testing.T) {
	cal := ParseCalendar(map[string][]string{
		"monday": {"09:00", "17:00"},
	}, []string{"2024-01-01"})

	// 2024-01-08 is an ordinary Monday.
	assert.True(t, cal.IsOperating(utc(2024, 1, 8, 13, 0)))
	// 2024-01-01 is a Monday but a holiday.
	assert.False(t, cal.IsOperating(utc(2024, 1, 1, 13, 0)))
	// Tuesday has no schedule entry.
	assert.False(t, cal.IsOperating(utc(2024, 1, 9, 13, 0)))

	_, ok := cal.HoursFor(utc(2024, 1, 1, 13, 0))
	assert.False(t, ok)
	h, ok := cal.HoursFor(utc(2024, 1, 8, 13, 0))
	assert.True(t, ok)
	assert.Equal(t, 17*3600, h.CloseSec)
}
