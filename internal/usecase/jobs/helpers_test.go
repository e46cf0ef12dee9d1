package jobs

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
	"github.com/ereshiii/pet-connect/internal/infra/notify"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type outcomeSpy struct {
	mu       sync.Mutex
	outcomes map[string]int
	sent     map[string]int
}

func (s *outcomeSpy) BookingCreated()        {}
func (s *outcomeSpy) BookingRejected(string) {}
func (s *outcomeSpy) JobOutcome(job, outcome string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcomes == nil {
		s.outcomes = map[string]int{}
	}
	s.outcomes[job+"/"+outcome] += n
}
func (s *outcomeSpy) NotificationSent(kind string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = map[string]int{}
	}
	if ok {
		s.sent[kind]++
	}
}

type fixture struct {
	repo     *apptest.Repo
	notifier *notify.Recorder
	metrics  *outcomeSpy
}

// newFixture: clinic 1 opens 09:00-17:00 with a 12:00-13:00 break and is
// closed on Sundays. Clinic 2 opens every day. Clinic 3 has no hours.
func newFixture() *fixture {
	repo := apptest.New()
	repo.AddClinic(models.Clinic{ID: 1, Name: "Happy Paws", Timezone: "UTC"})
	repo.AddClinic(models.Clinic{ID: 2, Name: "Open Always", Timezone: "UTC"})
	repo.AddClinic(models.Clinic{ID: 3, Name: "Unconfigured", Timezone: "UTC"})
	repo.SetWeek(1, "09:00", "17:00", "12:00", "13:00")
	repo.SetClosed(1, "sunday")
	repo.SetWeek(2, "08:00", "20:00", "", "")

	return &fixture{
		repo:     repo,
		notifier: &notify.Recorder{},
		metrics:  &outcomeSpy{},
	}
}

func (f *fixture) runner(now time.Time, batch int) *Runner {
	return NewRunner(Deps{
		Repo:      f.repo,
		Notifier:  f.notifier,
		Metrics:   f.metrics,
		Clock:     timezone.FixedClock{At: now},
		Log:       zerolog.Nop(),
		BatchSize: batch,
	})
}

func (f *fixture) add(clinicID uint, status domain.Status, at time.Time) uint {
	return f.repo.Add(models.Appointment{
		ClinicID:        clinicID,
		OwnerID:         7,
		PetID:           1,
		Status:          string(status),
		ScheduledAt:     at,
		DurationMinutes: 30,
	})
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}
