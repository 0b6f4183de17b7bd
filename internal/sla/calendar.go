package sla

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Hours is one day's operating window as seconds from midnight UTC.
type Hours struct {
	OpenSec  int
	CloseSec int
}

// Calendar holds the weekly business schedule and the holiday set. All times
// are interpreted in UTC. A weekday absent from Hours is non-operational;
// a holiday overrides the weekday entry regardless of schedule.
type Calendar struct {
	Hours    map[time.Weekday]Hours
	Holidays map[time.Time]struct{}
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// NewCalendar builds an empty calendar; callers fill Hours and Holidays.
func NewCalendar() *Calendar {
	return &Calendar{
		Hours:    make(map[time.Weekday]Hours),
		Holidays: make(map[time.Time]struct{}),
	}
}

// ParseCalendar builds a Calendar from the raw settings form: weekday name
// (any case) mapped to ["HH:MM", "HH:MM"] or nil for closed, plus ISO-8601
// holiday dates. Malformed entries degrade to closed with a logged warning;
// the due-date walk never sees an invalid pair.
func ParseCalendar(weekly map[string][]string, holidays []string) *Calendar {
	cal := NewCalendar()
	for day, span := range weekly {
		wd, ok := weekdayNames[strings.ToLower(day)]
		if !ok {
			log.Warn().Str("day", day).Msg("unknown weekday in business hours, skipping")
			continue
		}
		if span == nil {
			continue
		}
		if len(span) != 2 {
			log.Warn().Str("day", day).Strs("entry", span).Msg("malformed business hours entry, treating day as closed")
			continue
		}
		open, err1 := parseClock(span[0])
		close_, err2 := parseClock(span[1])
		if err1 != nil || err2 != nil {
			log.Warn().Str("day", day).Strs("entry", span).Msg("unparsable business hours, treating day as closed")
			continue
		}
		if close_ <= open {
			log.Warn().Str("day", day).Strs("entry", span).Msg("close time not after open time, treating day as closed")
			continue
		}
		cal.Hours[wd] = Hours{OpenSec: open, CloseSec: close_}
	}
	for _, s := range holidays {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			log.Warn().Str("date", s).Msg("invalid holiday date, skipping")
			continue
		}
		cal.Holidays[midnightUTC(d)] = struct{}{}
	}
	return cal
}

// parseClock parses "HH:MM" or "HH:MM:SS" into seconds from midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// IsOperating reports whether the calendar date of t (UTC) is a business day.
func (c *Calendar) IsOperating(t time.Time) bool {
	day := midnightUTC(t)
	if _, ok := c.Holidays[day]; ok {
		return false
	}
	_, ok := c.Hours[day.Weekday()]
	return ok
}

// HoursFor returns the operating window for the calendar date of t (UTC).
// ok is false on holidays and closed weekdays.
func (c *Calendar) HoursFor(t time.Time) (Hours, bool) {
	day := midnightUTC(t)
	if _, holiday := c.Holidays[day]; holiday {
		return Hours{}, false
	}
	h, ok := c.Hours[day.Weekday()]
	return h, ok
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
