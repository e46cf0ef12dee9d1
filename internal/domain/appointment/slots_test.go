package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ereshiii/pet-connect/internal/models"
)

// Monday 2026-10-19, 09:00-17:00 with a 12:00-13:00 break.
func monday() DaySchedule {
	return DaySchedule{
		Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Hours: DayHours{
			Day:        "monday",
			Configured: true,
			Open:       540,
			Close:      1020,
			Break:      &MinuteSpan{Start: 720, End: 780},
		},
	}
}

func at(h, m int) time.Time {
	return time.Date(2026, 10, 19, h, m, 0, 0, time.UTC)
}

func TestValidateReasons(t *testing.T) {
	booked := monday()
	booked.Booked = []models.Appointment{
		{ID: 7, Status: string(StatusScheduled), ScheduledAt: at(10, 0), DurationMinutes: 30},
	}

	closed := monday()
	closed.Hours = DayHours{Day: "monday"}

	tests := []struct {
		name    string
		day     DaySchedule
		start   time.Time
		minutes int
		now     time.Time
		want    Reason
	}{
		{"closed", closed, at(10, 0), 30, now, ReasonClinicClosed},
		{"before opening", monday(), at(8, 30), 30, now, ReasonBeforeOpening},
		{"after closing", monday(), at(16, 45), 30, now, ReasonAfterClosing},
		{"break", monday(), at(11, 45), 30, now, ReasonBreakConflict},
		{"taken", booked, at(10, 15), 30, now, ReasonSlotTaken},
		{"too far ahead", monday(), at(10, 0), 30, at(10, 0).AddDate(0, -7, 0), ReasonTooFarAhead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.day, tt.start, tt.minutes, tt.now, 0)
			assert.True(t, IsReject(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateExactBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  Reason
	}{
		{"starts at opening", at(9, 0), ""},
		{"one minute before opening", at(8, 59), ReasonBeforeOpening},
		{"ends at closing", at(16, 30), ""},
		{"ends one minute after closing", at(16, 31), ReasonAfterClosing},
		{"ends at break start", at(11, 30), ""},
		{"ends one minute into break", at(11, 31), ReasonBreakConflict},
		{"starts at break end", at(13, 0), ""},
		{"starts one minute before break end", at(12, 59), ReasonBreakConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(monday(), tt.start, 30, now, 0)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsReject(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	day := monday()
	day.Booked = []models.Appointment{
		{ID: 7, Status: string(StatusScheduled), ScheduledAt: at(11, 30), DurationMinutes: 60},
	}

	// Overlaps both the break and a booking; the break is checked first.
	err := Validate(day, at(11, 45), 30, now, 0)
	assert.True(t, IsReject(err, ReasonBreakConflict))

	// Past the horizon and taken: taken is reported.
	err = Validate(day, at(11, 0), 60, at(11, 0).AddDate(-1, 0, 0), 0)
	assert.True(t, IsReject(err, ReasonSlotTaken))
}

func TestValidateSlotTakenCarriesWindow(t *testing.T) {
	day := monday()
	day.Booked = []models.Appointment{
		{ID: 7, Status: string(StatusInProgress), ScheduledAt: at(10, 0), DurationMinutes: 45},
	}

	err := Validate(day, at(10, 30), 30, now, 0)

	var re *RejectError
	require.ErrorAs(t, err, &re)
	require.NotNil(t, re.Conflict)
	assert.Equal(t, at(10, 0), re.Conflict.Start)
	assert.Equal(t, at(10, 45), re.Conflict.End)
}

func TestValidateAcceptsEdges(t *testing.T) {
	day := monday()
	day.Booked = []models.Appointment{
		{ID: 7, Status: string(StatusScheduled), ScheduledAt: at(10, 0), DurationMinutes: 30},
		{ID: 8, Status: string(StatusCancelled), ScheduledAt: at(14, 0), DurationMinutes: 30},
	}

	assert.NoError(t, Validate(day, at(9, 0), 30, now, 0), "at opening")
	assert.NoError(t, Validate(day, at(16, 30), 30, now, 0), "ends at closing")
	assert.NoError(t, Validate(day, at(11, 30), 30, now, 0), "ends at break start")
	assert.NoError(t, Validate(day, at(10, 30), 30, now, 0), "back-to-back")
	assert.NoError(t, Validate(day, at(14, 0), 30, now, 0), "cancelled does not block")
	assert.NoError(t, Validate(day, at(10, 0), 30, now, 7), "rescheduling itself")
}

func TestNormalizeDuration(t *testing.T) {
	d, err := NormalizeDuration(0)
	require.NoError(t, err)
	assert.Equal(t, 30, d)

	d, err = NormalizeDuration(480)
	require.NoError(t, err)
	assert.Equal(t, 480, d)

	_, err = NormalizeDuration(10)
	assert.True(t, IsReject(err, ReasonInvalidDuration))
	_, err = NormalizeDuration(481)
	assert.True(t, IsReject(err, ReasonInvalidDuration))
}

func TestCheckNotPast(t *testing.T) {
	assert.NoError(t, CheckNotPast(now.Add(-15*time.Minute), now))
	assert.True(t, IsReject(CheckNotPast(now.Add(-16*time.Minute), now), ReasonPastCutoff))
}

func TestCandidatesSkipBreakAndBookings(t *testing.T) {
	day := monday()
	day.Booked = []models.Appointment{
		{ID: 7, Status: string(StatusConfirmed), ScheduledAt: at(9, 0), DurationMinutes: 60},
	}

	got := Candidates(day, 60, 0, 0)
	require.NotEmpty(t, got)

	assert.Equal(t, at(10, 0), got[0])
	for _, s := range got {
		span := MinuteSpan{Start: MinuteOf(s), End: MinuteOf(s) + 60}
		assert.False(t, span.Overlaps(*day.Hours.Break), "slot %s overlaps break", s)
	}
	assert.Equal(t, at(16, 0), got[len(got)-1])

	slots := ToTimeSlots(got[:1], 60)
	assert.Equal(t, TimeSlot{Start: "10:00", End: "11:00"}, slots[0])
}
