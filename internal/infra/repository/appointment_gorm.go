package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &clinic, nil
}

func (r *AppointmentGormRepository) ListClinics(
	ctx context.Context,
) ([]models.Clinic, error) {

	var clinics []models.Clinic
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&clinics).Error; err != nil {
		return nil, err
	}
	return clinics, nil
}

// --------------------------------------------------
// Operating hours
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOperatingHour(
	ctx context.Context,
	clinicID uint,
	day string,
) (*models.ClinicOperatingHour, error) {

	var rec models.ClinicOperatingHour
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND day_of_week = ?", clinicID, day).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AppointmentGormRepository) ListOperatingHours(
	ctx context.Context,
	clinicID uint,
) ([]models.ClinicOperatingHour, error) {

	var hours []models.ClinicOperatingHour
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("id ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *AppointmentGormRepository) ReplaceOperatingHours(
	ctx context.Context,
	clinicID uint,
	hours []models.ClinicOperatingHour,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("clinic_id = ?", clinicID).
			Delete(&models.ClinicOperatingHour{}).Error; err != nil {
			return err
		}

		if len(hours) == 0 {
			return nil
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].ClinicID = clinicID
		}
		return tx.Create(&hours).Error
	})
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointmentIf(
	ctx context.Context,
	ap *models.Appointment,
	expected domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(ap).
		Where("status = ?", string(expected)).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(ap)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id uint,
	scheduledAt time.Time,
	kind domain.ReminderKind,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND scheduled_at = ?", id, scheduledAt).
		UpdateColumn(reminderColumn(kind), at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func reminderColumn(kind domain.ReminderKind) string {
	if kind == domain.Reminder1Hour {
		return "reminder_1h_sent_at"
	}
	return "reminder_24h_sent_at"
}

func (r *AppointmentGormRepository) ListBlockingAppointments(
	ctx context.Context,
	clinicID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"clinic_id = ? AND status IN ? AND scheduled_at < ? AND ends_at > ?",
			clinicID,
			domain.StatusStrings(domain.BlockingStatuses),
			end,
			start,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	clinicID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Owner").
		Where(
			"clinic_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			clinicID,
			start,
			end,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) FindAppointments(
	ctx context.Context,
	q domain.Query,
) ([]models.Appointment, error) {

	tx := r.db.WithContext(ctx).
		Where("id > ?", q.AfterID).
		Order("id ASC")

	if q.ClinicID != 0 {
		tx = tx.Where("clinic_id = ?", q.ClinicID)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", domain.StatusStrings(q.Statuses))
	}
	if q.ScheduledFrom != nil {
		tx = tx.Where("scheduled_at >= ?", *q.ScheduledFrom)
	}
	if q.ScheduledUntil != nil {
		tx = tx.Where("scheduled_at <= ?", *q.ScheduledUntil)
	}
	if q.ScheduledBefore != nil {
		tx = tx.Where("scheduled_at < ?", *q.ScheduledBefore)
	}
	switch q.ReminderUnsent {
	case domain.Reminder24Hours:
		tx = tx.Where("reminder_24h_sent_at IS NULL")
	case domain.Reminder1Hour:
		tx = tx.Where("reminder_1h_sent_at IS NULL")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var apps []models.Appointment
	if err := tx.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Concurrency
// --------------------------------------------------

// WithClinicLock serialises writers of one clinic on its row lock.
func (r *AppointmentGormRepository) WithClinicLock(
	ctx context.Context,
	clinicID uint,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clinic models.Clinic
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&clinic, clinicID).Error; err != nil {
			return notFound(err)
		}

		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
