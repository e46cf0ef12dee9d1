package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

// Actor is the authenticated caller. Staff carry the clinic they work for.
type Actor struct {
	UserID   uint
	ClinicID *uint
}

func (a Actor) IsStaff() bool {
	return a.ClinicID != nil
}

func (a Actor) IsStaffOf(clinicID uint) bool {
	return a.ClinicID != nil && *a.ClinicID == clinicID
}

// CanAccess: owners see their own appointments, staff those of their clinic.
func (a Actor) CanAccess(ap *models.Appointment) bool {
	if a.IsStaffOf(ap.ClinicID) {
		return true
	}
	return a.UserID != 0 && ap.OwnerID == a.UserID
}

func mapNotFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

// loadForActor fetches an appointment and checks the actor may touch it.
func loadForActor(ctx context.Context, repo domain.Repository, id uint, actor Actor) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "appointment_not_found")
	}
	if !actor.CanAccess(ap) {
		return nil, httperr.ErrBusiness("forbidden")
	}
	return ap, nil
}

// parseStart reads a clinic-local date and time.
func parseStart(clinic *models.Clinic, date, clock string) (time.Time, error) {
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		date+" "+clock,
		timezone.Location(clinic.Timezone),
	)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return start, nil
}

// slotTaken turns a lost race on the overlap constraint into a rejection.
func slotTaken(err error) error {
	if httperr.IsExclusionConflict(err) {
		return domain.Reject(domain.ReasonSlotTaken)
	}
	return err
}
