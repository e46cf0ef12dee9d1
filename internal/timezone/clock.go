package timezone

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// NowIn reads clock in the given clinic timezone.
func NowIn(clock Clock, tz string) time.Time {
	return clock.Now().In(Location(tz))
}
