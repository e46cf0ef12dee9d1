package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ereshiii/pet-connect/internal/models"
)

func strp(s string) *string { return &s }

func TestResolveDayMissingIsClosed(t *testing.T) {
	d, err := ResolveDay("sunday", nil)
	require.NoError(t, err)
	assert.False(t, d.Configured)
	assert.True(t, d.IsClosed())
}

func TestResolveDayExplicitlyClosed(t *testing.T) {
	d, err := ResolveDay("sunday", &models.ClinicOperatingHour{IsClosed: true})
	require.NoError(t, err)
	assert.True(t, d.Configured)
	assert.True(t, d.IsClosed())
}

func TestResolveDayWithBreak(t *testing.T) {
	d, err := ResolveDay("monday", &models.ClinicOperatingHour{
		OpenTime:   "09:00",
		CloseTime:  "17:30:00",
		BreakStart: strp("12:00"),
		BreakEnd:   strp("13:00"),
	})
	require.NoError(t, err)

	assert.False(t, d.IsClosed())
	assert.Equal(t, Minute(540), d.Open)
	assert.Equal(t, Minute(1050), d.Close)
	require.NotNil(t, d.Break)
	assert.Equal(t, MinuteSpan{Start: 720, End: 780}, *d.Break)
}

func TestResolveDayIgnoresHalfBreak(t *testing.T) {
	d, err := ResolveDay("monday", &models.ClinicOperatingHour{
		OpenTime:   "09:00",
		CloseTime:  "17:00",
		BreakStart: strp("12:00"),
	})
	require.NoError(t, err)
	assert.Nil(t, d.Break)
}

func TestResolveDayRejectsInvertedHours(t *testing.T) {
	_, err := ResolveDay("monday", &models.ClinicOperatingHour{OpenTime: "18:00", CloseTime: "09:00"})
	assert.Error(t, err)

	_, err = ResolveDay("monday", &models.ClinicOperatingHour{OpenTime: "9am", CloseTime: "17:00"})
	assert.Error(t, err)
}

func TestDayKeyAndClock(t *testing.T) {
	assert.Equal(t, "monday", DayKey(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "08:05", FormatClock(485))
	assert.True(t, IsWeekday("friday"))
	assert.False(t, IsWeekday("Friday"))
}
