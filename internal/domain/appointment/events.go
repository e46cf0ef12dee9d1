package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ereshiii/pet-connect/internal/models"
)

type EventKind string

const (
	EventReminder24Hours         EventKind = "appointmentReminder24Hours"
	EventReminder1Hour           EventKind = "appointmentReminder1Hour"
	EventFollowUpReminder        EventKind = "followUpAppointmentReminder"
	EventOverdue                 EventKind = "appointmentOverdue"
	EventClinicClosureReschedule EventKind = "clinicClosureRescheduled"
)

const ClosureEventReason = "unexpected clinic closure"

type Recipient string

const (
	RecipientOwner  Recipient = "owner"
	RecipientClinic Recipient = "clinic"
)

// Event is the payload handed to a Notifier.
type Event struct {
	ID            string     `json:"id"`
	Kind          EventKind  `json:"kind"`
	Recipient     Recipient  `json:"recipient"`
	AppointmentID uint       `json:"appointment_id"`
	ClinicID      uint       `json:"clinic_id"`
	OwnerID       uint       `json:"owner_id"`
	PetID         uint       `json:"pet_id"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	PreviousAt    *time.Time `json:"previous_at,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

func NewEvent(kind EventKind, ap *models.Appointment, now time.Time) Event {
	recipient := RecipientOwner
	if kind == EventOverdue {
		recipient = RecipientClinic
	}

	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		Recipient:     recipient,
		AppointmentID: ap.ID,
		ClinicID:      ap.ClinicID,
		OwnerID:       ap.OwnerID,
		PetID:         ap.PetID,
		ScheduledAt:   ap.ScheduledAt,
		OccurredAt:    now,
	}
}

func ClosureRescheduledEvent(ap *models.Appointment, previous time.Time, now time.Time) Event {
	ev := NewEvent(EventClinicClosureReschedule, ap, now)
	ev.PreviousAt = &previous
	ev.Reason = ClosureEventReason
	return ev
}

// ReminderEvent picks the reminder kind for ap.
func ReminderEvent(kind ReminderKind, ap *models.Appointment, now time.Time) Event {
	switch {
	case kind == Reminder1Hour:
		return NewEvent(EventReminder1Hour, ap, now)
	case ap.IsFollowUp:
		return NewEvent(EventFollowUpReminder, ap, now)
	default:
		return NewEvent(EventReminder24Hours, ap, now)
	}
}
