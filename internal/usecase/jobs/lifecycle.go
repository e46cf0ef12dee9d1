package jobs

import (
	"context"
	"time"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/models"
)

// StartDue moves scheduled appointments whose start has passed to
// in_progress.
func (r *Runner) StartDue(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	res, log := r.begin(StartAppointments, opts)
	defer r.finish(res, log, started)

	now := r.clock.Now()
	q := domain.Query{
		Statuses:       []domain.Status{domain.StatusScheduled},
		ScheduledUntil: &now,
	}

	err := r.each(ctx, q, func(ap *models.Appointment) {
		res.Processed++
		if !domain.ShouldAutoStart(ap, now) {
			res.Skipped++
			return
		}
		r.transition(ctx, res, ap, domain.StatusInProgress, now, opts)
	})
	return *res, err
}

// ResolveOverdue closes appointments left open past AutoResolveAfter.
func (r *Runner) ResolveOverdue(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	res, log := r.begin(UpdateOverdue, opts)
	defer r.finish(res, log, started)

	now := r.clock.Now()
	cutoff := now.Add(-domain.AutoResolveAfter)
	q := domain.Query{
		Statuses:        domain.BlockingStatuses,
		ScheduledBefore: &cutoff,
	}

	err := r.each(ctx, q, func(ap *models.Appointment) {
		res.Processed++
		to, ok := domain.ResolveOverdue(ap, now)
		if !ok {
			res.Skipped++
			return
		}
		r.transition(ctx, res, ap, to, now, opts)
	})
	return *res, err
}

// transition applies one automatic status change with compare-and-set, so a
// concurrent manual change wins.
func (r *Runner) transition(
	ctx context.Context,
	res *Result,
	ap *models.Appointment,
	to domain.Status,
	now time.Time,
	opts Options,
) {
	log := r.log.With().Str("job", res.Job).Uint("appointment_id", ap.ID).Logger()
	from := domain.Status(ap.Status)

	if opts.DryRun {
		if !domain.CanTransition(from, to) {
			res.Skipped++
			return
		}
		res.Succeeded++
		res.Changes = append(res.Changes, change("transition", ap, to))
		return
	}

	if err := domain.Apply(ap, to, now); err != nil {
		log.Warn().Err(err).Str("from", string(from)).Str("to", string(to)).Msg("transition rejected")
		res.Skipped++
		return
	}

	saved, err := r.repo.UpdateAppointmentIf(ctx, ap, from)
	if err != nil {
		log.Error().Err(err).Msg("update failed")
		res.Failed++
		return
	}
	if !saved {
		log.Info().Msg("status changed concurrently, skipped")
		res.Skipped++
		return
	}

	res.Succeeded++
	res.Changes = append(res.Changes, change("transition", ap, to))
	r.record("appointment_auto_"+string(to), ap, from)
}
