package appointment

import (
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

// DaySchedule is everything needed to place bookings on one clinic day.
type DaySchedule struct {
	// Date is local midnight in the clinic timezone.
	Date   time.Time
	Hours  DayHours
	Booked []models.Appointment
}

// Validate runs the slot checks in order and returns the first failure.
// start must already be in the clinic timezone.
func Validate(day DaySchedule, start time.Time, minutes int, now time.Time, excludeID uint) error {
	// --------------------------------------------------
	// 1. Calendar
	// --------------------------------------------------
	if day.Hours.IsClosed() {
		return Reject(ReasonClinicClosed)
	}

	startMin := MinuteOf(start)
	endMin := startMin + Minute(minutes)

	if startMin.Before(day.Hours.Open) {
		return Reject(ReasonBeforeOpening)
	}
	if day.Hours.Close.Before(endMin) {
		return Reject(ReasonAfterClosing)
	}
	if day.Hours.Break != nil && (MinuteSpan{Start: startMin, End: endMin}).Overlaps(*day.Hours.Break) {
		return Reject(ReasonBreakConflict)
	}

	// --------------------------------------------------
	// 2. Existing bookings
	// --------------------------------------------------
	w := WindowAt(start, minutes)
	if hit := FindConflict(w, day.Booked, excludeID); hit != nil {
		conflict := WindowOf(hit)
		return &RejectError{Reason: ReasonSlotTaken, Conflict: &conflict}
	}

	// --------------------------------------------------
	// 3. Horizon
	// --------------------------------------------------
	if start.After(now.AddDate(0, BookingHorizonMonths, 0)) {
		return Reject(ReasonTooFarAhead)
	}

	return nil
}

// Candidates walks the day from opening in SlotStep increments and returns
// every start that fits before closing, clears the break and overlaps no
// blocking appointment.
func Candidates(day DaySchedule, minutes int, excludeID uint, limit int) []time.Time {
	if day.Hours.IsClosed() {
		return nil
	}

	step := Minute(SlotStep / time.Minute)
	var out []time.Time

	for cur := day.Hours.Open; cur+Minute(minutes) <= day.Hours.Close; cur += step {
		span := MinuteSpan{Start: cur, End: cur + Minute(minutes)}
		if day.Hours.Break != nil && span.Overlaps(*day.Hours.Break) {
			continue
		}

		start := At(day.Date, cur)
		if FindConflict(WindowAt(start, minutes), day.Booked, excludeID) != nil {
			continue
		}

		out = append(out, start)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out
}

func ToTimeSlots(starts []time.Time, minutes int) []TimeSlot {
	out := make([]TimeSlot, 0, len(starts))
	for _, s := range starts {
		out = append(out, TimeSlot{
			Start: s.Format("15:04"),
			End:   s.Add(time.Duration(minutes) * time.Minute).Format("15:04"),
		})
	}
	return out
}
