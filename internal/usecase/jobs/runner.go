// Package jobs holds the batch jobs run by the scheduler CLI.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/metrics"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

const (
	CheckClosures     = "check-closures"
	StartAppointments = "start-appointments"
	UpdateOverdue     = "update-overdue"
	NotifyOverdue     = "notify-overdue"
	SendReminders     = "send-reminders"
)

const DefaultBatchSize = 100

type Options struct {
	// DryRun computes changes without writing or notifying.
	DryRun bool
}

// Change describes one appointment a job touched, or would touch.
type Change struct {
	AppointmentID  uint       `json:"appointment_id"`
	ClinicID       uint       `json:"clinic_id"`
	Action         string     `json:"action"`
	Status         string     `json:"status,omitempty"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	NewScheduledAt *time.Time `json:"new_scheduled_at,omitempty"`
}

// Result is the per-run summary.
type Result struct {
	Job       string `json:"job"`
	DryRun    bool   `json:"dry_run"`
	Processed int    `json:"processed"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	// NotifyFailed counts persisted changes whose notification was lost.
	NotifyFailed int      `json:"notify_failed"`
	Changes      []Change `json:"changes,omitempty"`
}

type Deps struct {
	Repo     domain.Repository
	Notifier domain.Notifier
	Audit    audit.Recorder
	Metrics  metrics.Recorder
	Clock    timezone.Clock
	Log      zerolog.Logger

	BatchSize     int
	SearchMaxDays int
}

type Runner struct {
	repo     domain.Repository
	notifier domain.Notifier
	audit    audit.Recorder
	metrics  metrics.Recorder
	clock    timezone.Clock
	log      zerolog.Logger

	batchSize     int
	searchMaxDays int
}

func NewRunner(d Deps) *Runner {
	r := &Runner{
		repo:          d.Repo,
		notifier:      d.Notifier,
		audit:         d.Audit,
		metrics:       d.Metrics,
		clock:         d.Clock,
		log:           d.Log.With().Str("component", "jobs").Logger(),
		batchSize:     d.BatchSize,
		searchMaxDays: d.SearchMaxDays,
	}
	if r.audit == nil {
		r.audit = audit.Nop{}
	}
	if r.metrics == nil {
		r.metrics = metrics.Nop{}
	}
	if r.clock == nil {
		r.clock = timezone.SystemClock{}
	}
	if r.batchSize <= 0 {
		r.batchSize = DefaultBatchSize
	}
	if r.searchMaxDays <= 0 {
		r.searchMaxDays = domain.DefaultSearchDays
	}
	return r
}

// Names lists the known jobs, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]func(*Runner, context.Context, Options) (Result, error){
	CheckClosures:     (*Runner).RepairClosures,
	StartAppointments: (*Runner).StartDue,
	UpdateOverdue:     (*Runner).ResolveOverdue,
	NotifyOverdue:     (*Runner).NotifyOverdue,
	SendReminders:     (*Runner).SendReminders,
}

// Run executes a job by name.
func (r *Runner) Run(ctx context.Context, name string, opts Options) (Result, error) {
	job, ok := registry[name]
	if !ok {
		return Result{Job: name}, fmt.Errorf("unknown job %q", name)
	}
	return job(r, ctx, opts)
}

// each pages through q in ID order and calls fn for every appointment.
func (r *Runner) each(ctx context.Context, q domain.Query, fn func(ap *models.Appointment)) error {
	q.Limit = r.batchSize
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := r.repo.FindAppointments(ctx, q)
		if err != nil {
			return fmt.Errorf("find appointments: %w", err)
		}
		for i := range page {
			fn(&page[i])
		}
		if len(page) < q.Limit {
			return nil
		}
		q.AfterID = page[len(page)-1].ID
	}
}

func (r *Runner) begin(job string, opts Options) (*Result, zerolog.Logger) {
	log := r.log.With().Str("job", job).Bool("dry_run", opts.DryRun).Logger()
	log.Info().Msg("job started")
	return &Result{Job: job, DryRun: opts.DryRun}, log
}

func (r *Runner) finish(res *Result, log zerolog.Logger, started time.Time) {
	r.metrics.JobOutcome(res.Job, "succeeded", res.Succeeded)
	r.metrics.JobOutcome(res.Job, "failed", res.Failed)
	r.metrics.JobOutcome(res.Job, "skipped", res.Skipped)
	r.metrics.JobOutcome(res.Job, "notify_failed", res.NotifyFailed)

	log.Info().
		Int("processed", res.Processed).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Int("notify_failed", res.NotifyFailed).
		Dur("took", time.Since(started)).
		Msg("job finished")
}

func (r *Runner) notify(ctx context.Context, ev domain.Event) error {
	err := r.notifier.Notify(ctx, ev)
	r.metrics.NotificationSent(string(ev.Kind), err == nil)
	return err
}

func (r *Runner) record(action string, ap *models.Appointment, from domain.Status) {
	r.audit.Dispatch(audit.Event{
		ClinicID: ap.ClinicID,
		Action:   action,
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{"from": from, "to": ap.Status, "scheduled_at": ap.ScheduledAt},
	})
}

func change(action string, ap *models.Appointment, status domain.Status) Change {
	return Change{
		AppointmentID: ap.ID,
		ClinicID:      ap.ClinicID,
		Action:        action,
		Status:        string(status),
		ScheduledAt:   ap.ScheduledAt,
	}
}
