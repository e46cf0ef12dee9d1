package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClinicID uint   `gorm:"index;not null" json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	PetID uint `json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	OwnerID uint `gorm:"index" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`

	ServiceID uint  `gorm:"index;not null" json:"service_id"`
	StaffID   *uint `gorm:"index" json:"staff_id,omitempty"`

	ScheduledAt     time.Time `gorm:"index;not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:30;not null" json:"duration_minutes"`
	// EndsAt mirrors ScheduledAt+DurationMinutes for the overlap constraint.
	EndsAt time.Time `gorm:"not null" json:"ends_at"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	IsPriority     bool   `gorm:"default:false" json:"is_priority"`
	PriorityReason string `gorm:"size:255" json:"priority_reason,omitempty"`
	IsFollowUp     bool   `gorm:"default:false" json:"is_follow_up"`

	Reason              string `gorm:"size:255;not null" json:"reason"`
	ContactPhone        string `gorm:"size:20;not null" json:"contact_phone"`
	Notes               string `gorm:"size:1000" json:"notes"`
	SpecialInstructions string `gorm:"size:1000" json:"special_instructions,omitempty"`
	CancellationReason  string `gorm:"size:255" json:"cancellation_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Reminder24SentAt *time.Time `gorm:"column:reminder_24h_sent_at" json:"-"`
	Reminder1SentAt  *time.Time `gorm:"column:reminder_1h_sent_at" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) Duration() time.Duration {
	return time.Duration(a.DurationMinutes) * time.Minute
}

func (a *Appointment) End() time.Time {
	return a.ScheduledAt.Add(a.Duration())
}

func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.EndsAt = a.End()
	return nil
}
