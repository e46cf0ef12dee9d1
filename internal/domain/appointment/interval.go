package appointment

import (
	"time"

	"github.com/ereshiii/pet-connect/internal/models"
)

type point[T any] interface {
	Before(T) bool
}

// Span is a half-open interval [Start, End).
type Span[T point[T]] struct {
	Start T
	End   T
}

// Overlaps is the one overlap test used for breaks and bookings alike.
// Touching spans (a.End == b.Start) do not overlap.
func (a Span[T]) Overlaps(b Span[T]) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Minute counts minutes since local midnight.
type Minute int

func (m Minute) Before(o Minute) bool { return m < o }

type MinuteSpan = Span[Minute]

// Window is a span of absolute instants.
type Window = Span[time.Time]

func WindowAt(start time.Time, minutes int) Window {
	return Window{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func WindowOf(ap *models.Appointment) Window {
	return Window{Start: ap.ScheduledAt, End: ap.End()}
}

// FindConflict returns the first blocking appointment overlapping w,
// ignoring excludeID (0 excludes nothing).
func FindConflict(w Window, existing []models.Appointment, excludeID uint) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !Status(ap.Status).Blocks() {
			continue
		}
		if w.Overlaps(WindowOf(ap)) {
			return ap
		}
	}
	return nil
}
