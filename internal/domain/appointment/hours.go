package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

// DayHours is the resolved calendar for one clinic day.
type DayHours struct {
	Day string
	// Configured is false when the clinic has no record for the day.
	Configured bool
	Closed     bool
	Open       Minute
	Close      Minute
	Break      *MinuteSpan
}

// IsClosed treats a missing record the same as an explicitly closed day.
func (d DayHours) IsClosed() bool {
	return !d.Configured || d.Closed
}

// DayKey is the lower-cased weekday name used as the calendar key.
func DayKey(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseClock parses "HH:MM" (seconds, if present, are ignored).
func ParseClock(hm string) (Minute, error) {
	hm = strings.TrimSpace(hm)
	if len(hm) == 8 {
		hm = hm[:5]
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", hm)
	}
	return Minute(t.Hour()*60 + t.Minute()), nil
}

func FormatClock(m Minute) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MinuteOf is the local time-of-day of t in minutes.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// ResolveDay converts a stored record into DayHours. rec may be nil.
func ResolveDay(day string, rec *models.ClinicOperatingHour) (DayHours, error) {
	out := DayHours{Day: day}
	if rec == nil {
		return out, nil
	}

	out.Configured = true
	if rec.IsClosed {
		out.Closed = true
		return out, nil
	}

	open, err := ParseClock(rec.OpenTime)
	if err != nil {
		return out, err
	}
	closeAt, err := ParseClock(rec.CloseTime)
	if err != nil {
		return out, err
	}
	if !open.Before(closeAt) {
		return out, fmt.Errorf("%s: open time %s is not before close time %s", day, rec.OpenTime, rec.CloseTime)
	}
	out.Open = open
	out.Close = closeAt

	if rec.BreakStart != nil && rec.BreakEnd != nil && *rec.BreakStart != "" && *rec.BreakEnd != "" {
		bs, err := ParseClock(*rec.BreakStart)
		if err != nil {
			return out, err
		}
		be, err := ParseClock(*rec.BreakEnd)
		if err != nil {
			return out, err
		}
		if bs.Before(be) {
			out.Break = &MinuteSpan{Start: bs, End: be}
		}
	}

	return out, nil
}

// At places a minute offset on the local calendar date of day.
func At(day time.Time, m Minute) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(m)/60, int(m)%60, 0, 0, day.Location())
}
