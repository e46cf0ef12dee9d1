package models

import "time"

// ClinicOperatingHour is one weekday of a clinic's weekly calendar.
// Times are "HH:MM" in the clinic's timezone.
type ClinicOperatingHour struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"uniqueIndex:idx_clinic_day;not null" json:"clinic_id"`

	DayOfWeek string `gorm:"size:10;uniqueIndex:idx_clinic_day;not null" json:"day_of_week"`
	IsClosed  bool   `gorm:"default:false" json:"is_closed"`

	OpenTime   string  `gorm:"size:5" json:"open_time"`
	CloseTime  string  `gorm:"size:5" json:"close_time"`
	BreakStart *string `gorm:"size:5" json:"break_start"`
	BreakEnd   *string `gorm:"size:5" json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
