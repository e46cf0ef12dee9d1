package appointment

import (
	"context"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetAvailability(repo domain.Repository, clock timezone.Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, mapNotFound(err, "clinic_not_found")
	}

	day, err := time.ParseInLocation("2006-01-02", in.Date, timezone.Location(clinic.Timezone))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	minutes, err := domain.NormalizeDuration(in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.clock, clinic.Timezone)
	starts, err := domain.NewEngine(uc.repo).Slots(ctx, clinic, day, minutes, now)
	if err != nil {
		return nil, err
	}

	return domain.ToTimeSlots(starts, minutes), nil
}
