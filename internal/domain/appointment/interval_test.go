package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ereshiii/pet-connect/internal/models"
)

func TestSpanOverlaps(t *testing.T) {
	a := MinuteSpan{Start: 600, End: 630}

	assert.True(t, a.Overlaps(MinuteSpan{Start: 615, End: 645}))
	assert.True(t, a.Overlaps(MinuteSpan{Start: 590, End: 700}))
	assert.False(t, a.Overlaps(MinuteSpan{Start: 630, End: 660}), "back-to-back")
	assert.False(t, a.Overlaps(MinuteSpan{Start: 570, End: 600}), "back-to-back")
}

func TestFindConflict(t *testing.T) {
	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	existing := []models.Appointment{
		{ID: 1, Status: string(StatusCancelled), ScheduledAt: base, DurationMinutes: 60},
		{ID: 2, Status: string(StatusCompleted), ScheduledAt: base, DurationMinutes: 60},
		{ID: 3, Status: string(StatusConfirmed), ScheduledAt: base.Add(30 * time.Minute), DurationMinutes: 30},
	}

	hit := FindConflict(WindowAt(base, 45), existing, 0)
	require.NotNil(t, hit)
	assert.Equal(t, uint(3), hit.ID)

	assert.Nil(t, FindConflict(WindowAt(base, 30), existing, 0), "ends where #3 starts")
	assert.Nil(t, FindConflict(WindowAt(base, 45), existing, 3), "excluded")
}
