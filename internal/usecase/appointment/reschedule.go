package appointment

import (
	"context"
	"time"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/metrics"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type RescheduleAppointmentInput struct {
	AppointmentID uint
	Actor         Actor
	Date          string
	Time          string
}

type RescheduleAppointment struct {
	repo    domain.Repository
	audit   audit.Recorder
	metrics metrics.Recorder
	clock   timezone.Clock
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	metrics metrics.Recorder,
	clock timezone.Clock,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		clock:   clock,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	ap, previous, err := uc.reschedule(ctx, in)
	if err != nil {
		if reason, ok := domain.ReasonOf(err); ok {
			uc.metrics.BookingRejected(string(reason))
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		ActorID:  audit.Ptr(in.Actor.UserID),
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"from": previous,
			"to":   ap.ScheduledAt,
		},
	})

	return ap, nil
}

func (uc *RescheduleAppointment) reschedule(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, time.Time, error) {

	ap, err := loadForActor(ctx, uc.repo, in.AppointmentID, in.Actor)
	if err != nil {
		return nil, time.Time{}, err
	}

	clinic, err := uc.repo.GetClinicByID(ctx, ap.ClinicID)
	if err != nil {
		return nil, time.Time{}, mapNotFound(err, "clinic_not_found")
	}

	start, err := parseStart(clinic, in.Date, in.Time)
	if err != nil {
		return nil, time.Time{}, err
	}

	now := timezone.NowIn(uc.clock, clinic.Timezone)
	if !domain.CanBeRescheduled(ap, now) {
		return nil, time.Time{}, httperr.ErrBusiness("cannot_be_rescheduled")
	}
	if err := domain.CheckNotPast(start, now); err != nil {
		return nil, time.Time{}, err
	}

	var previous time.Time
	err = uc.repo.WithClinicLock(ctx, clinic.ID, func(tx domain.Repository) error {
		// Re-read under the lock; a batch job may have moved it meanwhile.
		current, err := tx.GetAppointment(ctx, ap.ID)
		if err != nil {
			return mapNotFound(err, "appointment_not_found")
		}
		previous = current.ScheduledAt
		st := domain.Status(current.Status)

		if err := domain.NewEngine(tx).Validate(ctx, clinic, start, current.DurationMinutes, now, current.ID); err != nil {
			return err
		}
		if err := domain.Reschedule(current, start, now); err != nil {
			return err
		}
		// Cancel and status changes do not take the clinic lock.
		saved, err := tx.UpdateAppointmentIf(ctx, current, st)
		if err != nil {
			return err
		}
		if !saved {
			return httperr.ErrBusiness("invalid_state")
		}
		ap = current
		return nil
	})
	if err != nil {
		return nil, time.Time{}, slotTaken(err)
	}

	return ap, previous, nil
}
