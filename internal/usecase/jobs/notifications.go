package jobs

import (
	"context"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/models"
)

// NotifyOverdue tells clinics about confirmed or started visits more than
// OverdueAfter past their start. Nothing is written.
func (r *Runner) NotifyOverdue(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	res, log := r.begin(NotifyOverdue, opts)
	defer r.finish(res, log, started)

	now := r.clock.Now()
	cutoff := now.Add(-domain.OverdueAfter)
	q := domain.Query{
		Statuses:        []domain.Status{domain.StatusConfirmed, domain.StatusInProgress},
		ScheduledBefore: &cutoff,
	}

	err := r.each(ctx, q, func(ap *models.Appointment) {
		res.Processed++
		if !domain.IsOverdue(ap, now) {
			res.Skipped++
			return
		}
		if opts.DryRun {
			res.Succeeded++
			res.Changes = append(res.Changes, change("notify_overdue", ap, domain.Status(ap.Status)))
			return
		}

		if err := r.notify(ctx, domain.NewEvent(domain.EventOverdue, ap, now)); err != nil {
			log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("overdue notification failed")
			res.Failed++
			return
		}
		res.Succeeded++
		res.Changes = append(res.Changes, change("notify_overdue", ap, domain.Status(ap.Status)))
	})
	return *res, err
}

// reminderWindows are processed nearest first. The 24h window starts where
// the 1h window ends so an appointment never gets both at once.
var reminderWindows = []struct {
	kind     domain.ReminderKind
	from, to time.Duration
}{
	{domain.Reminder1Hour, 0, time.Hour},
	{domain.Reminder24Hours, time.Hour, 24 * time.Hour},
}

// SendReminders notifies owners of upcoming visits once per reminder kind.
func (r *Runner) SendReminders(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	res, log := r.begin(SendReminders, opts)
	defer r.finish(res, log, started)

	now := r.clock.Now()

	for _, w := range reminderWindows {
		from := now.Add(w.from)
		until := now.Add(w.to)
		q := domain.Query{
			Statuses:       []domain.Status{domain.StatusScheduled, domain.StatusConfirmed},
			ScheduledFrom:  &from,
			ScheduledUntil: &until,
			ReminderUnsent: w.kind,
		}

		kind := w.kind
		err := r.each(ctx, q, func(ap *models.Appointment) {
			res.Processed++
			ev := domain.ReminderEvent(kind, ap, now)
			action := "reminder_" + string(kind)

			if opts.DryRun {
				res.Succeeded++
				res.Changes = append(res.Changes, change(action, ap, domain.Status(ap.Status)))
				return
			}

			alog := log.With().Uint("appointment_id", ap.ID).Str("kind", string(ev.Kind)).Logger()
			if err := r.notify(ctx, ev); err != nil {
				alog.Error().Err(err).Msg("reminder failed, will retry next run")
				res.Failed++
				return
			}

			saved, err := r.repo.MarkReminderSent(ctx, ap.ID, ap.ScheduledAt, kind, now)
			if err != nil {
				alog.Error().Err(err).Msg("cannot record reminder")
				res.Failed++
				return
			}
			if !saved {
				alog.Info().Msg("appointment moved meanwhile, reminder not recorded")
			}
			res.Succeeded++
			res.Changes = append(res.Changes, change(action, ap, domain.Status(ap.Status)))
		})
		if err != nil {
			return *res, err
		}
	}

	return *res, nil
}
