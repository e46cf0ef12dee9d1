package appointment

import (
	"time"

	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
)

const ClosurePriorityReason = "Auto-rescheduled due to clinic closure"

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusConfirmed, now)
}

func Start(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusInProgress, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusCompleted, now)
}

func MarkNoShow(ap *models.Appointment, now time.Time) error {
	return moveTo(ap, StatusNoShow, now)
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if !CanBeCancelled(ap, now) {
		return httperr.ErrBusiness("cannot_be_cancelled")
	}
	if err := moveTo(ap, StatusCancelled, now); err != nil {
		return err
	}
	ap.CancellationReason = reason
	return nil
}

// Reschedule moves an appointment to a new start; the slot itself must
// already have been validated.
func Reschedule(ap *models.Appointment, start time.Time, now time.Time) error {
	if !CanBeRescheduled(ap, now) {
		return httperr.ErrBusiness("cannot_be_rescheduled")
	}
	setSchedule(ap, start)
	return nil
}

// RescheduleForClosure bypasses the owner-facing reschedule rules.
func RescheduleForClosure(ap *models.Appointment, start time.Time) {
	setSchedule(ap, start)
	ap.IsPriority = true
	ap.PriorityReason = ClosurePriorityReason
}

func setSchedule(ap *models.Appointment, start time.Time) {
	ap.ScheduledAt = start
	ap.EndsAt = ap.End()
	ap.Reminder24SentAt = nil
	ap.Reminder1SentAt = nil
}

func moveTo(ap *models.Appointment, to Status, now time.Time) error {
	if err := checkTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	return nil
}

// Apply runs the action that leads to the given status.
func Apply(ap *models.Appointment, to Status, now time.Time) error {
	switch to {
	case StatusConfirmed:
		return Confirm(ap, now)
	case StatusInProgress:
		return Start(ap, now)
	case StatusCompleted:
		return Complete(ap, now)
	case StatusNoShow:
		return MarkNoShow(ap, now)
	case StatusCancelled:
		return Cancel(ap, now, "")
	}
	return httperr.ErrBusiness("invalid_state")
}
