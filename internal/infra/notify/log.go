package notify

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
)

// LogNotifier writes events to the log. Used when no Redis is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Notify(ctx context.Context, ev domain.Event) error {
	n.log.Info().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("recipient", string(ev.Recipient)).
		Uint("appointment_id", ev.AppointmentID).
		Uint("clinic_id", ev.ClinicID).
		Time("scheduled_at", ev.ScheduledAt).
		Msg("notification")
	return nil
}

var _ domain.Notifier = (*LogNotifier)(nil)
