package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

var errMoved = errors.New("appointment changed since it was listed")

// RepairClosures moves today's open appointments of clinics that are closed
// today to the next free slot.
//
// It only fails as a whole when the clinic list cannot be read. A clinic
// whose hours or appointments cannot be read counts as one failure.
func (r *Runner) RepairClosures(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	res, log := r.begin(CheckClosures, opts)
	defer r.finish(res, log, started)

	clinics, err := r.repo.ListClinics(ctx)
	if err != nil {
		return *res, fmt.Errorf("list clinics: %w", err)
	}

	engine := domain.NewEngine(r.repo)

	for i := range clinics {
		plan := &planned{Repository: r.repo}
		clinic := &clinics[i]
		clog := log.With().Uint("clinic_id", clinic.ID).Logger()

		now := timezone.NowIn(r.clock, clinic.Timezone)
		hours, err := engine.Hours(ctx, clinic, now)
		if err != nil {
			res.Failed++
			clog.Error().Err(err).Msg("cannot resolve operating hours")
			continue
		}
		if !hours.IsClosed() {
			continue
		}
		clog.Info().Str("day", hours.Day).Bool("configured", hours.Configured).Msg("clinic closed today")

		dayStart := timezone.StartOfDay(now, timezone.Location(clinic.Timezone))
		dayEnd := dayStart.AddDate(0, 0, 1)
		q := domain.Query{
			ClinicID:        clinic.ID,
			Statuses:        []domain.Status{domain.StatusScheduled, domain.StatusConfirmed},
			ScheduledFrom:   &dayStart,
			ScheduledBefore: &dayEnd,
		}

		err = r.each(ctx, q, func(ap *models.Appointment) {
			res.Processed++
			r.repairOne(ctx, res, clog, plan, clinic, ap, now, dayStart, dayEnd, opts)
		})
		if err != nil {
			if ctx.Err() != nil {
				return *res, err
			}
			res.Failed++
			clog.Error().Err(err).Msg("cannot list appointments")
		}
	}

	return *res, nil
}

func (r *Runner) repairOne(
	ctx context.Context,
	res *Result,
	log zerolog.Logger,
	plan *planned,
	clinic *models.Clinic,
	ap *models.Appointment,
	now, dayStart, dayEnd time.Time,
	opts Options,
) {
	log = log.With().Uint("appointment_id", ap.ID).Logger()
	previous := ap.ScheduledAt

	if opts.DryRun {
		next, err := domain.NewEngine(plan).FindNext(ctx, clinic, ap.DurationMinutes, now, r.searchMaxDays, ap.ID)
		if err != nil {
			r.repairFailed(res, log, err)
			return
		}
		moved := *ap
		moved.ScheduledAt = next
		moved.EndsAt = moved.End()
		plan.extra = append(plan.extra, moved)

		res.Succeeded++
		res.Changes = append(res.Changes, rescheduled(ap, next))
		return
	}

	err := r.repo.WithClinicLock(ctx, clinic.ID, func(tx domain.Repository) error {
		current, err := tx.GetAppointment(ctx, ap.ID)
		if err != nil {
			return err
		}
		st := domain.Status(current.Status)
		if (st != domain.StatusScheduled && st != domain.StatusConfirmed) ||
			current.ScheduledAt.Before(dayStart) || !current.ScheduledAt.Before(dayEnd) {
			return errMoved
		}

		next, err := domain.NewEngine(tx).FindNext(ctx, clinic, current.DurationMinutes, now, r.searchMaxDays, current.ID)
		if err != nil {
			return err
		}

		domain.RescheduleForClosure(current, next)
		saved, err := tx.UpdateAppointmentIf(ctx, current, st)
		if err != nil {
			return err
		}
		if !saved {
			return errMoved
		}
		*ap = *current
		return nil
	})

	switch {
	case errors.Is(err, errMoved), errors.Is(err, domain.ErrNotFound):
		log.Info().Msg("appointment changed meanwhile, skipped")
		res.Skipped++
		return
	case err != nil:
		r.repairFailed(res, log, err)
		return
	}

	res.Succeeded++
	res.Changes = append(res.Changes, rescheduled(&models.Appointment{
		ID:          ap.ID,
		ClinicID:    ap.ClinicID,
		Status:      ap.Status,
		ScheduledAt: previous,
	}, ap.ScheduledAt))
	r.record("appointment_auto_rescheduled", ap, domain.Status(ap.Status))

	log.Info().Time("from", previous).Time("to", ap.ScheduledAt).Msg("appointment rescheduled")

	if err := r.notify(ctx, domain.ClosureRescheduledEvent(ap, previous, r.clock.Now())); err != nil {
		log.Error().Err(err).Msg("reschedule notification failed")
		res.NotifyFailed++
	}
}

func (r *Runner) repairFailed(res *Result, log zerolog.Logger, err error) {
	res.Failed++
	switch {
	case domain.IsReject(err, domain.ReasonNoSlotFound):
		log.Warn().Int("search_days", r.searchMaxDays).Msg("no slot found, appointment left unchanged")
	case httperr.IsExclusionConflict(err):
		log.Warn().Err(err).Msg("slot taken concurrently, appointment left unchanged")
	default:
		log.Error().Err(err).Msg("reschedule failed")
	}
}

func rescheduled(ap *models.Appointment, next time.Time) Change {
	c := change("reschedule", ap, domain.Status(ap.Status))
	c.NewScheduledAt = &next
	return c
}

// planned overlays the slots a dry run has already handed out so later
// appointments of the same clinic do not get the same slot.
type planned struct {
	domain.Repository
	extra []models.Appointment
}

func (p *planned) ListBlockingAppointments(ctx context.Context, clinicID uint, start, end time.Time) ([]models.Appointment, error) {
	out, err := p.Repository.ListBlockingAppointments(ctx, clinicID, start, end)
	if err != nil {
		return nil, err
	}
	w := domain.Window{Start: start, End: end}
	for _, ap := range p.extra {
		if ap.ClinicID == clinicID && w.Overlaps(domain.WindowOf(&ap)) {
			out = append(out, ap)
		}
	}
	return out, nil
}
