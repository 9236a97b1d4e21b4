package testutil

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/event"
)

// BusRecorder wraps a real Bus and records every published event for later
// inspection.
type BusRecorder struct {
	Bus *event.Bus

	mu     sync.Mutex
	events []event.Event
}

// NewBusRecorder returns a BusRecorder around a fresh Bus.
func NewBusRecorder() *BusRecorder {
	r := &BusRecorder{Bus: event.NewBus(zap.NewNop())}
	r.Bus.SubscribeAll(func(_ context.Context, e event.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	return r
}

// Events returns a copy of all recorded events.
func (r *BusRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics of all recorded events in publish order.
func (r *BusRecorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}

// Reset clears all recorded events.
func (r *BusRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
