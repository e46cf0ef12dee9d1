package appointment

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultDurationMinutes = 30
	MinDurationMinutes     = 15
	MaxDurationMinutes     = 480

	SlotStep = 30 * time.Minute
	// PastTolerance lets a booking start slightly in the past.
	PastTolerance = 15 * time.Minute
	// BookingHorizonMonths bounds how far ahead a slot may be booked.
	BookingHorizonMonths = 6
	DefaultSearchDays    = 30
)

type AvailabilityInput struct {
	ClinicID uint
	// Date is YYYY-MM-DD in the clinic's timezone.
	Date            string
	DurationMinutes int
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Reason identifies why a requested slot was rejected.
type Reason string

const (
	ReasonClinicClosed    Reason = "clinic_closed"
	ReasonBeforeOpening   Reason = "before_opening"
	ReasonAfterClosing    Reason = "after_closing"
	ReasonBreakConflict   Reason = "break_conflict"
	ReasonSlotTaken       Reason = "slot_taken"
	ReasonTooFarAhead     Reason = "too_far_ahead"
	ReasonPastCutoff      Reason = "past_cutoff"
	ReasonInvalidDuration Reason = "invalid_duration"
	ReasonNoSlotFound     Reason = "no_slot_found"
)

var reasonMessages = map[Reason]string{
	ReasonClinicClosed:    "The clinic is closed on this day.",
	ReasonBeforeOpening:   "The requested time is before opening.",
	ReasonAfterClosing:    "The appointment would end after closing.",
	ReasonBreakConflict:   "The appointment overlaps the clinic break.",
	ReasonSlotTaken:       "This time slot is already booked.",
	ReasonTooFarAhead:     "Appointments can be booked at most 6 months ahead.",
	ReasonPastCutoff:      "The requested time is in the past.",
	ReasonInvalidDuration: "Duration must be between 15 and 480 minutes.",
	ReasonNoSlotFound:     "No available slot was found.",
}

func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// Field names the booking field a rejection is about.
func (r Reason) Field() string {
	switch r {
	case ReasonInvalidDuration:
		return "duration_minutes"
	case ReasonNoSlotFound:
		return ""
	default:
		return "scheduled_at"
	}
}

type RejectError struct {
	Reason Reason
	// Conflict is set for ReasonSlotTaken.
	Conflict *Window
}

func (e *RejectError) Error() string {
	if e.Conflict != nil {
		return fmt.Sprintf("%s: conflicts with %s-%s", e.Reason,
			e.Conflict.Start.Format(time.RFC3339), e.Conflict.End.Format(time.RFC3339))
	}
	return string(e.Reason)
}

func Reject(r Reason) error {
	return &RejectError{Reason: r}
}

func ReasonOf(err error) (Reason, bool) {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}

func IsReject(err error, r Reason) bool {
	got, ok := ReasonOf(err)
	return ok && got == r
}

// NormalizeDuration applies the default and enforces the allowed range.
func NormalizeDuration(minutes int) (int, error) {
	if minutes == 0 {
		return DefaultDurationMinutes, nil
	}
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return 0, Reject(ReasonInvalidDuration)
	}
	return minutes, nil
}

// CheckNotPast rejects starts earlier than now minus PastTolerance.
func CheckNotPast(start, now time.Time) error {
	if start.Before(now.Add(-PastTolerance)) {
		return Reject(ReasonPastCutoff)
	}
	return nil
}
