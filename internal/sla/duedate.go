package sla

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNegativeHours is returned when a caller asks to add a negative number of
// business hours. This is the one hard error in the engine; everything else
// degrades with a logged warning.
var ErrNegativeHours = errors.New("business hours to add cannot be negative")

const (
	// hoursEpsilon absorbs float flicker from repeated hour/second conversions.
	hoursEpsilon = 1e-6
	// maxIterations bounds the day walk so a fully closed calendar cannot
	// loop forever. Hitting it returns the cursor reached so far.
	maxIterations = 1000
)

// ComputeDueDate walks forward from start until businessHours of operating
// time have elapsed on cal, skipping closed weekdays, holidays and off-hours.
// start is interpreted in UTC; an instant carrying another location is
// converted with a logged warning rather than rejected. Fractional hours are
// supported and produce fractional-minute results.
func ComputeDueDate(start time.Time, businessHours float64, cal *Calendar) (time.Time, error) {
	if businessHours < 0 {
		return time.Time{}, ErrNegativeHours
	}
	if start.Location() != time.UTC {
		log.Warn().
			Str("location", start.Location().String()).
			Time("start", start).
			Msg("non-UTC start instant given to due date calculation, converting to UTC")
		start = start.UTC()
	}
	if businessHours == 0 {
		return start, nil
	}

	cursor := start
	remaining := businessHours

	for i := 0; i < maxIterations; i++ {
		day := midnightUTC(cursor)
		hrs, open := cal.HoursFor(day)
		if !open {
			cursor = day.Add(24 * time.Hour)
			continue
		}

		dayStart := day.Add(time.Duration(hrs.OpenSec) * time.Second)
		dayEnd := day.Add(time.Duration(hrs.CloseSec) * time.Second)
		if cursor.Before(dayStart) {
			cursor = dayStart
		}
		if !cursor.Before(dayEnd) {
			cursor = day.Add(24 * time.Hour)
			continue
		}

		availableHours := dayEnd.Sub(cursor).Hours()
		if remaining <= availableHours+hoursEpsilon {
			return cursor.Add(hoursToDuration(remaining)), nil
		}
		remaining -= availableHours
		cursor = day.Add(24 * time.Hour)
	}

	log.Warn().
		Float64("hours_remaining", remaining).
		Time("cursor", cursor).
		Msg("due date calculation exceeded iteration cap, returning best-effort instant")
	return cursor, nil
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
