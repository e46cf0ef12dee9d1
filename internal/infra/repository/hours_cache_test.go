package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ereshiii/pet-connect/internal/domain/appointment/apptest"
	"github.com/ereshiii/pet-connect/internal/models"
)

func TestCachedHoursServesRepeatLookups(t *testing.T) {
	mem := apptest.New()
	mem.SetHours(1, "monday", "09:00", "17:00", "", "")
	cached := NewCachedHours(mem, time.Minute)
	ctx := context.Background()

	first, err := cached.GetOperatingHour(ctx, 1, "monday")
	require.NoError(t, err)
	require.NotNil(t, first)

	missing, err := cached.GetOperatingHour(ctx, 1, "sunday")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Backing store now fails; cached answers keep flowing.
	mem.Fail["GetOperatingHour"] = apptest.ErrBoom
	again, err := cached.GetOperatingHour(ctx, 1, "monday")
	require.NoError(t, err)
	assert.Equal(t, "09:00", again.OpenTime)

	missing, err = cached.GetOperatingHour(ctx, 1, "sunday")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCachedHoursInvalidatesOnReplace(t *testing.T) {
	mem := apptest.New()
	mem.SetHours(1, "monday", "09:00", "17:00", "", "")
	cached := NewCachedHours(mem, time.Minute)
	ctx := context.Background()

	_, err := cached.GetOperatingHour(ctx, 1, "monday")
	require.NoError(t, err)

	require.NoError(t, cached.ReplaceOperatingHours(ctx, 1, []models.ClinicOperatingHour{
		{DayOfWeek: "monday", OpenTime: "10:00", CloseTime: "14:00"},
	}))

	rec, err := cached.GetOperatingHour(ctx, 1, "monday")
	require.NoError(t, err)
	assert.Equal(t, "10:00", rec.OpenTime)
}
