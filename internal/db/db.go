package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ereshiii/pet-connect/internal/config"
	"github.com/ereshiii/pet-connect/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDev() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// overlapConstraint backs the per-clinic lock: two blocking appointments of
// one clinic can never share time, even if a writer skips the lock.
const overlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				clinic_id WITH =,
				tstzrange(scheduled_at, ends_at, '[)') WITH &&
			)
			WHERE (status IN ('scheduled', 'confirmed', 'in_progress'));
	END IF;
END
$$;`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.Pet{},
		&models.ClinicOperatingHour{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}
	if err := db.Exec(overlapConstraint).Error; err != nil {
		return fmt.Errorf("create overlap constraint: %w", err)
	}

	return db.Exec(`
		UPDATE clinic_operating_hours
		SET day_of_week = LOWER(day_of_week)
		WHERE day_of_week <> LOWER(day_of_week)
	`).Error
}
