package appointment

import (
	"context"
	"strings"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/metrics"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	ClinicID uint
	OwnerID  uint
	PetID    uint

	// ServiceIDs must name exactly one service.
	ServiceIDs      []uint
	StaffID         *uint
	Date            string
	Time            string
	DurationMinutes int
	IsFollowUp      bool

	Reason              string
	ContactPhone        string
	Notes               string
	SpecialInstructions string
}

func (in BookAppointmentInput) validate() error {
	if len(in.ServiceIDs) != 1 || in.ServiceIDs[0] == 0 {
		return httperr.ErrBusiness("invalid_service")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return httperr.ErrBusiness("reason_required")
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		return httperr.ErrBusiness("contact_phone_required")
	}
	return nil
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	audit   audit.Recorder
	metrics metrics.Recorder
	clock   timezone.Clock
}

func NewBookAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	metrics metrics.Recorder,
	clock timezone.Clock,
) *BookAppointment {
	return &BookAppointment{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
		clock:   clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.book(ctx, in)
	if err != nil {
		if reason, ok := domain.ReasonOf(err); ok {
			uc.metrics.BookingRejected(string(reason))
		}
		return nil, err
	}

	uc.metrics.BookingCreated()
	uc.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		ActorID:  audit.Ptr(in.OwnerID),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"scheduled_at": ap.ScheduledAt,
			"duration":     ap.DurationMinutes,
		},
	})

	return ap, nil
}

func (uc *BookAppointment) book(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	if err := in.validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Clinic
	// --------------------------------------------------
	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, mapNotFound(err, "clinic_not_found")
	}

	// --------------------------------------------------
	// 2. Date / time in the clinic timezone
	// --------------------------------------------------
	start, err := parseStart(clinic, in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	minutes, err := domain.NormalizeDuration(in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.clock, clinic.Timezone)
	if err := domain.CheckNotPast(start, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Validate and insert under the clinic lock
	// --------------------------------------------------
	ap := &models.Appointment{
		ClinicID:        clinic.ID,
		OwnerID:         in.OwnerID,
		PetID:           in.PetID,
		ServiceID:       in.ServiceIDs[0],
		StaffID:         in.StaffID,
		ScheduledAt:     start,
		DurationMinutes: minutes,
		Status:          string(domain.InitialStatus()),
		IsFollowUp:      in.IsFollowUp,

		Reason:              strings.TrimSpace(in.Reason),
		ContactPhone:        strings.TrimSpace(in.ContactPhone),
		Notes:               in.Notes,
		SpecialInstructions: in.SpecialInstructions,
	}
	ap.EndsAt = ap.End()

	err = uc.repo.WithClinicLock(ctx, clinic.ID, func(tx domain.Repository) error {
		if err := domain.NewEngine(tx).Validate(ctx, clinic, start, minutes, now, 0); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, slotTaken(err)
	}

	return ap, nil
}
