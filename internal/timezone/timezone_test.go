package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), Location("Not/AZone").String())
	assert.Equal(t, "America/Sao_Paulo", Location("America/Sao_Paulo").String())
}

func TestStartOfDay(t *testing.T) {
	loc := Location("America/Sao_Paulo")
	at := time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC) // 23:30 on the 9th locally

	got := StartOfDay(at, loc)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), got)
}

func TestNowInUsesClock(t *testing.T) {
	at := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	got := NowIn(FixedClock{At: at}, "UTC")
	assert.True(t, got.Equal(at))
}
