package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
	"github.com/ereshiii/pet-connect/internal/models"
)

func seed() (*apptest.Repo, *models.Clinic) {
	repo := apptest.New()
	clinic := models.Clinic{ID: 1, Name: "Paws", Timezone: "UTC"}
	repo.AddClinic(clinic)
	repo.SetHours(1, "monday", "09:00", "12:00", "", "")
	repo.SetHours(1, "tuesday", "09:00", "12:00", "", "")
	repo.SetClosed(1, "saturday")
	return repo, &clinic
}

func TestFindNextSkipsClosedAndUnconfiguredDays(t *testing.T) {
	repo, clinic := seed()
	engine := domain.NewEngine(repo)

	// Friday: Saturday closed, Sunday unconfigured, Monday open.
	friday := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	got, err := engine.FindNext(context.Background(), clinic, 30, friday, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), got)
}

func TestFindNextStartsTomorrow(t *testing.T) {
	repo, clinic := seed()
	engine := domain.NewEngine(repo)

	// Monday morning: Monday itself is never searched.
	monday := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

	got, err := engine.FindNext(context.Background(), clinic, 30, monday, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC), got)
}

func TestFindNextSkipsBookedSlots(t *testing.T) {
	repo, clinic := seed()
	repo.Add(models.Appointment{
		ClinicID:        1,
		Status:          string(domain.StatusScheduled),
		ScheduledAt:     time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
	})
	engine := domain.NewEngine(repo)

	got, err := engine.FindNext(context.Background(), clinic, 60, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), 30, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC), got)
}

func TestFindNextNoSlot(t *testing.T) {
	repo, clinic := seed()
	engine := domain.NewEngine(repo)

	// Four hours never fit into a three hour day.
	_, err := engine.FindNext(context.Background(), clinic, 240, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), 30, 0)
	assert.True(t, domain.IsReject(err, domain.ReasonNoSlotFound))
}

func TestFindNextHonoursMaxDays(t *testing.T) {
	repo, clinic := seed()
	engine := domain.NewEngine(repo)

	// Friday + 2 days only reaches Sunday.
	_, err := engine.FindNext(context.Background(), clinic, 30, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), 2, 0)
	assert.True(t, domain.IsReject(err, domain.ReasonNoSlotFound))
}

func TestEngineValidateUsesClinicTimezone(t *testing.T) {
	repo := apptest.New()
	clinic := models.Clinic{ID: 2, Timezone: "America/Sao_Paulo"}
	repo.AddClinic(clinic)
	repo.SetHours(2, "monday", "09:00", "17:00", "", "")
	engine := domain.NewEngine(repo)

	// 12:00 UTC is 09:00 in Sao Paulo.
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, engine.Validate(context.Background(), &clinic, start, 30, now, 0))

	err := engine.Validate(context.Background(), &clinic, start.Add(-time.Hour), 30, now, 0)
	assert.True(t, domain.IsReject(err, domain.ReasonBeforeOpening))
}

func TestSlotsDropsPastStarts(t *testing.T) {
	repo, clinic := seed()
	engine := domain.NewEngine(repo)

	now := time.Date(2026, 10, 19, 10, 10, 0, 0, time.UTC)
	got, err := engine.Slots(context.Background(), clinic, now, 30, now)
	require.NoError(t, err)

	// 10:00 is within the 15 minute tolerance, 09:30 is not.
	require.NotEmpty(t, got)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), got[0])
}

func TestEngineSurfacesRepositoryErrors(t *testing.T) {
	repo, clinic := seed()
	repo.Fail["GetOperatingHour"] = apptest.ErrBoom
	engine := domain.NewEngine(repo)

	_, err := engine.FindNext(context.Background(), clinic, 30, time.Now(), 3, 0)
	assert.ErrorIs(t, err, apptest.ErrBoom)
}
