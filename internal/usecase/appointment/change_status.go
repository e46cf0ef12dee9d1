package appointment

import (
	"context"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

// ChangeStatus covers the staff-driven transitions: confirm, start,
// complete and no-show.
type ChangeStatus struct {
	repo  domain.Repository
	audit audit.Recorder
	clock timezone.Clock
}

func NewChangeStatus(
	repo domain.Repository,
	audit audit.Recorder,
	clock timezone.Clock,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

var staffActions = map[domain.Status]string{
	domain.StatusConfirmed:  "appointment_confirmed",
	domain.StatusInProgress: "appointment_started",
	domain.StatusCompleted:  "appointment_completed",
	domain.StatusNoShow:     "appointment_no_show",
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
	to domain.Status,
) (*models.Appointment, error) {

	action, ok := staffActions[to]
	if !ok {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	ap, err := loadForActor(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaffOf(ap.ClinicID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	previous := domain.Status(ap.Status)
	if err := domain.Apply(ap, to, uc.clock.Now()); err != nil {
		return nil, err
	}

	saved, err := uc.repo.UpdateAppointmentIf(ctx, ap, previous)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		ActorID:  audit.Ptr(actor.UserID),
		Action:   action,
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{"from": previous, "to": to},
	})

	return ap, nil
}
