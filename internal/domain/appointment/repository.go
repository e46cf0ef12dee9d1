package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ReminderKind string

const (
	Reminder24Hours ReminderKind = "24h"
	Reminder1Hour   ReminderKind = "1h"
)

// Query selects appointments for batch jobs. Results are ordered by ID and
// paged with AfterID/Limit.
type Query struct {
	ClinicID uint
	Statuses []Status

	// ScheduledFrom is inclusive.
	ScheduledFrom *time.Time
	// ScheduledUntil is inclusive.
	ScheduledUntil *time.Time
	// ScheduledBefore is exclusive.
	ScheduledBefore *time.Time

	ReminderUnsent ReminderKind

	AfterID uint
	Limit   int
}

type Repository interface {
	// -------- Clinic --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	ListClinics(
		ctx context.Context,
	) ([]models.Clinic, error)

	// -------- Operating hours --------
	// GetOperatingHour returns nil, nil when the day has no record.
	GetOperatingHour(
		ctx context.Context,
		clinicID uint,
		day string,
	) (*models.ClinicOperatingHour, error)

	ListOperatingHours(
		ctx context.Context,
		clinicID uint,
	) ([]models.ClinicOperatingHour, error)

	ReplaceOperatingHours(
		ctx context.Context,
		clinicID uint,
		hours []models.ClinicOperatingHour,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	// UpdateAppointmentIf saves ap only if the stored status still equals
	// expected. It reports whether a row was written.
	UpdateAppointmentIf(
		ctx context.Context,
		ap *models.Appointment,
		expected Status,
	) (bool, error)

	// MarkReminderSent stamps a reminder only while the appointment still
	// starts at scheduledAt.
	MarkReminderSent(
		ctx context.Context,
		id uint,
		scheduledAt time.Time,
		kind ReminderKind,
		at time.Time,
	) (bool, error)

	// ListBlockingAppointments returns blocking appointments overlapping
	// [start, end).
	ListBlockingAppointments(
		ctx context.Context,
		clinicID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		clinicID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	FindAppointments(
		ctx context.Context,
		q Query,
	) ([]models.Appointment, error)

	// -------- Concurrency --------
	// WithClinicLock runs fn in a transaction holding the clinic's row lock.
	WithClinicLock(
		ctx context.Context,
		clinicID uint,
		fn func(tx Repository) error,
	) error
}
