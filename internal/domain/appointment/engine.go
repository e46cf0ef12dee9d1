package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

// Engine answers availability questions against a Repository. Build it on
// the transactional repository when the answer is acted upon.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Hours resolves the calendar of clinic on the local date of day.
func (e *Engine) Hours(ctx context.Context, clinic *models.Clinic, day time.Time) (DayHours, error) {
	key := DayKey(day.In(timezone.Location(clinic.Timezone)))

	rec, err := e.repo.GetOperatingHour(ctx, clinic.ID, key)
	if err != nil {
		return DayHours{}, fmt.Errorf("operating hours for clinic %d: %w", clinic.ID, err)
	}
	return ResolveDay(key, rec)
}

// Day loads hours and blocking bookings of one clinic day.
func (e *Engine) Day(ctx context.Context, clinic *models.Clinic, day time.Time) (DaySchedule, error) {
	date := timezone.StartOfDay(day, timezone.Location(clinic.Timezone))

	hours, err := e.Hours(ctx, clinic, date)
	if err != nil {
		return DaySchedule{}, err
	}

	out := DaySchedule{Date: date, Hours: hours}
	if hours.IsClosed() {
		return out, nil
	}

	booked, err := e.repo.ListBlockingAppointments(ctx, clinic.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return DaySchedule{}, fmt.Errorf("bookings for clinic %d: %w", clinic.ID, err)
	}
	out.Booked = booked
	return out, nil
}

// Validate checks a requested slot; see the package-level Validate for the
// order of checks.
func (e *Engine) Validate(
	ctx context.Context,
	clinic *models.Clinic,
	start time.Time,
	minutes int,
	now time.Time,
	excludeID uint,
) error {
	start = start.In(timezone.Location(clinic.Timezone))

	day, err := e.Day(ctx, clinic, start)
	if err != nil {
		return err
	}
	return Validate(day, start, minutes, now, excludeID)
}

// FindNext searches from the day after from, over at most maxDays days,
// for the earliest free slot.
func (e *Engine) FindNext(
	ctx context.Context,
	clinic *models.Clinic,
	minutes int,
	from time.Time,
	maxDays int,
	excludeID uint,
) (time.Time, error) {
	if maxDays <= 0 {
		maxDays = DefaultSearchDays
	}

	base := timezone.StartOfDay(from, timezone.Location(clinic.Timezone))

	for i := 1; i <= maxDays; i++ {
		day, err := e.Day(ctx, clinic, base.AddDate(0, 0, i))
		if err != nil {
			return time.Time{}, err
		}

		if starts := Candidates(day, minutes, excludeID, 1); len(starts) > 0 {
			return starts[0], nil
		}
	}

	return time.Time{}, Reject(ReasonNoSlotFound)
}

// Slots lists every free start on a single day.
func (e *Engine) Slots(ctx context.Context, clinic *models.Clinic, date time.Time, minutes int, now time.Time) ([]time.Time, error) {
	day, err := e.Day(ctx, clinic, date)
	if err != nil {
		return nil, err
	}

	all := Candidates(day, minutes, 0, 0)
	out := all[:0]
	for _, s := range all {
		if CheckNotPast(s, now) == nil {
			out = append(out, s)
		}
	}
	return out, nil
}
