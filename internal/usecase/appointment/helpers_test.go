package appointment

import (
	"sync"
	"time"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

// Friday 2026-10-16 08:00 UTC.
var fixedNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type auditSpy struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSpy) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *auditSpy) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

type metricsSpy struct {
	mu       sync.Mutex
	created  int
	rejected map[string]int
}

func (m *metricsSpy) JobOutcome(string, string, int) {}
func (m *metricsSpy) NotificationSent(string, bool)  {}
func (m *metricsSpy) BookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}
func (m *metricsSpy) BookingRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[reason]++
}

type fixture struct {
	repo    *apptest.Repo
	audit   *auditSpy
	metrics *metricsSpy
	clock   timezone.Clock
}

// newFixture opens clinic 1 every day 09:00-17:00 with a 12:00-13:00 break,
// Sundays closed.
func newFixture() *fixture {
	repo := apptest.New()
	repo.AddClinic(models.Clinic{ID: 1, Name: "Happy Paws", Timezone: "UTC"})
	repo.AddClinic(models.Clinic{ID: 2, Name: "Other", Timezone: "UTC"})
	repo.SetWeek(1, "09:00", "17:00", "12:00", "13:00")
	repo.SetClosed(1, "sunday")

	return &fixture{
		repo:    repo,
		audit:   &auditSpy{},
		metrics: &metricsSpy{},
		clock:   timezone.FixedClock{At: fixedNow},
	}
}

func (f *fixture) seed(ownerID uint, status domain.Status, at time.Time) uint {
	return f.repo.Add(models.Appointment{
		ClinicID:        1,
		OwnerID:         ownerID,
		PetID:           1,
		Status:          string(status),
		ScheduledAt:     at,
		DurationMinutes: 30,
	})
}

func staff(clinicID uint) Actor {
	return Actor{UserID: 100, ClinicID: &clinicID}
}

func owner(id uint) Actor {
	return Actor{UserID: id}
}

func tzClock(at time.Time) timezone.Clock {
	return timezone.FixedClock{At: at}
}
