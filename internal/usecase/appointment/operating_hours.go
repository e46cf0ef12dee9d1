package appointment

import (
	"context"
	"strings"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
)

type OperatingDay struct {
	DayOfWeek  string
	IsClosed   bool
	OpenTime   string
	CloseTime  string
	BreakStart string
	BreakEnd   string
}

type GetOperatingHours struct {
	repo domain.Repository
}

func NewGetOperatingHours(repo domain.Repository) *GetOperatingHours {
	return &GetOperatingHours{repo: repo}
}

func (uc *GetOperatingHours) Execute(ctx context.Context, clinicID uint) ([]models.ClinicOperatingHour, error) {
	return uc.repo.ListOperatingHours(ctx, clinicID)
}

type UpdateOperatingHours struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateOperatingHours(repo domain.Repository, audit audit.Recorder) *UpdateOperatingHours {
	return &UpdateOperatingHours{repo: repo, audit: audit}
}

// Execute replaces the clinic's whole week. Days left out become
// unconfigured, which the calendar treats as closed.
func (uc *UpdateOperatingHours) Execute(
	ctx context.Context,
	actor Actor,
	clinicID uint,
	days []OperatingDay,
) ([]models.ClinicOperatingHour, error) {

	if !actor.IsStaffOf(clinicID) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	seen := map[string]bool{}
	rows := make([]models.ClinicOperatingHour, 0, len(days))

	for _, d := range days {
		row, err := toOperatingHour(clinicID, d)
		if err != nil {
			return nil, err
		}
		if seen[row.DayOfWeek] {
			return nil, httperr.ErrBusiness("duplicate_day")
		}
		seen[row.DayOfWeek] = true
		rows = append(rows, row)
	}

	if err := uc.repo.ReplaceOperatingHours(ctx, clinicID, rows); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		ActorID:  audit.Ptr(actor.UserID),
		Action:   "operating_hours_updated",
		Entity:   "clinic",
		EntityID: audit.Ptr(clinicID),
		Metadata: map[string]any{"days": len(rows)},
	})

	return rows, nil
}

func toOperatingHour(clinicID uint, d OperatingDay) (models.ClinicOperatingHour, error) {
	day := strings.ToLower(strings.TrimSpace(d.DayOfWeek))
	if !domain.IsWeekday(day) {
		return models.ClinicOperatingHour{}, httperr.ErrBusiness("invalid_day_of_week")
	}

	row := models.ClinicOperatingHour{
		ClinicID:  clinicID,
		DayOfWeek: day,
		IsClosed:  d.IsClosed,
	}
	if d.IsClosed {
		return row, nil
	}

	row.OpenTime = d.OpenTime
	row.CloseTime = d.CloseTime
	if (d.BreakStart == "") != (d.BreakEnd == "") {
		return row, httperr.ErrBusiness("incomplete_break")
	}
	if d.BreakStart != "" {
		bs, be := d.BreakStart, d.BreakEnd
		row.BreakStart = &bs
		row.BreakEnd = &be
	}

	hours, err := domain.ResolveDay(day, &row)
	if err != nil {
		return row, httperr.ErrBusiness("invalid_hours")
	}
	if row.BreakStart != nil {
		if hours.Break == nil || hours.Break.Start.Before(hours.Open) || hours.Close.Before(hours.Break.End) {
			return row, httperr.ErrBusiness("invalid_break")
		}
	}

	return row, nil
}
