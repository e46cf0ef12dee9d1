package appointment

import (
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

const (
	// AutoResolveAfter is how long past its start an open appointment waits
	// before being closed automatically.
	AutoResolveAfter = 2 * time.Hour
	// ConfirmedGrace: a confirmed visit this close to its start still counts
	// as attended when auto-resolved.
	ConfirmedGrace = 4 * time.Hour
	// RescheduleLockout blocks rescheduling of confirmed visits.
	RescheduleLockout = 24 * time.Hour
	// OverdueAfter is the age at which the clinic gets an overdue notice.
	OverdueAfter = 24 * time.Hour
)

// ShouldAutoStart reports whether a scheduled visit has reached its start.
func ShouldAutoStart(ap *models.Appointment, now time.Time) bool {
	return Status(ap.Status) == StatusScheduled && !ap.ScheduledAt.After(now)
}

// ResolveOverdue picks the final status for an appointment left open
// AutoResolveAfter past its start. ok is false when nothing applies.
func ResolveOverdue(ap *models.Appointment, now time.Time) (Status, bool) {
	st := Status(ap.Status)
	if st.IsTerminal() {
		return "", false
	}
	if !ap.ScheduledAt.Before(now.Add(-AutoResolveAfter)) {
		return "", false
	}

	switch {
	case st == StatusInProgress:
		return StatusCompleted, true
	case st == StatusConfirmed && now.Sub(ap.ScheduledAt) <= ConfirmedGrace:
		return StatusCompleted, true
	default:
		return StatusNoShow, true
	}
}

func IsOverdue(ap *models.Appointment, now time.Time) bool {
	st := Status(ap.Status)
	if st != StatusConfirmed && st != StatusInProgress {
		return false
	}
	return ap.ScheduledAt.Before(now.Add(-OverdueAfter))
}

func CanBeCancelled(ap *models.Appointment, now time.Time) bool {
	return !Status(ap.Status).IsTerminal() && ap.ScheduledAt.After(now)
}

func CanBeRescheduled(ap *models.Appointment, now time.Time) bool {
	switch Status(ap.Status) {
	case StatusScheduled:
		return true
	case StatusConfirmed:
		return ap.ScheduledAt.Sub(now) > RescheduleLockout
	default:
		return false
	}
}
