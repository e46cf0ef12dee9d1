package appointment

import (
	"context"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	previous := domain.Status(ap.Status)
	if err := domain.Cancel(ap, uc.clock.Now(), reason); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateAppointmentIf(ctx, ap, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		ActorID:  audit.Ptr(actor.UserID),
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{"reason": reason},
	})

	return ap, nil
}
