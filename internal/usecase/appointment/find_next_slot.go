package appointment

import (
	"context"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type FindNextSlotInput struct {
	ClinicID uint
	// From is YYYY-MM-DD; empty means today. The search starts the day after.
	From            string
	DurationMinutes int
}

type NextSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

type FindNextSlot struct {
	repo    domain.Repository
	clock   timezone.Clock
	maxDays int
}

func NewFindNextSlot(repo domain.Repository, clock timezone.Clock, maxDays int) *FindNextSlot {
	return &FindNextSlot{repo: repo, clock: clock, maxDays: maxDays}
}

func (uc *FindNextSlot) Execute(
	ctx context.Context,
	in FindNextSlotInput,
) (*NextSlot, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, mapNotFound(err, "clinic_not_found")
	}

	minutes, err := domain.NormalizeDuration(in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	from := timezone.NowIn(uc.clock, clinic.Timezone)
	if in.From != "" {
		from, err = time.ParseInLocation("2006-01-02", in.From, timezone.Location(clinic.Timezone))
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}

	start, err := domain.NewEngine(uc.repo).FindNext(ctx, clinic, minutes, from, uc.maxDays, 0)
	if err != nil {
		return nil, err
	}

	return &NextSlot{
		Start:           start,
		End:             start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}, nil
}
