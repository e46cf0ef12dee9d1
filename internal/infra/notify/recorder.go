package notify

import (
	"context"
	"sync"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
)

// Recorder keeps every event in memory; handy in tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
	// Err, when set, is returned for every Notify call.
	Err error
}

func (r *Recorder) Notify(ctx context.Context, ev domain.Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

var _ domain.Notifier = (*Recorder)(nil)
