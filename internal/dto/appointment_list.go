package dto

import (
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

type AppointmentListDTO struct {
	ID              uint      `json:"id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	ServiceID       uint      `json:"service_id"`
	StaffID         *uint     `json:"staff_id,omitempty"`
	Reason          string    `json:"reason"`
	PetName         string    `json:"pet_name"`
	OwnerName       string    `json:"owner_name"`
	ContactPhone    string    `json:"contact_phone"`
	IsPriority      bool      `json:"is_priority"`
	PriorityReason  string    `json:"priority_reason,omitempty"`
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:              ap.ID,
			ScheduledAt:     ap.ScheduledAt,
			EndsAt:          ap.End(),
			DurationMinutes: ap.DurationMinutes,
			Status:          ap.Status,
			ServiceID:       ap.ServiceID,
			StaffID:         ap.StaffID,
			Reason:          ap.Reason,
			PetName:         ap.Pet.Name,
			OwnerName:       ap.Owner.Name,
			ContactPhone:    ap.ContactPhone,
			IsPriority:      ap.IsPriority,
			PriorityReason:  ap.PriorityReason,
		})
	}
	return out
}
