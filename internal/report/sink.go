// Package report delivers kiosk events to presentation and export layers.
package report

import (
	"context"
	"sync"

	"kiosk-service/internal/models"

	"go.uber.org/multierr"
)

// Sink receives kiosk events. Implementations ignore event types they do not handle.
type Sink interface {
	Emit(ctx context.Context, event models.Event) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, event models.Event) error

func (f SinkFunc) Emit(ctx context.Context, event models.Event) error {
	return f(ctx, event)
}

// Discard drops every event
var Discard Sink = SinkFunc(func(context.Context, models.Event) error { return nil })

// Fanout emits every event to all sinks, in order
type Fanout []Sink

func (f Fanout) Emit(ctx context.Context, event models.Event) error {
	var err error
	for _, s := range f {
		err = multierr.Append(err, s.Emit(ctx, event))
	}
	return err
}

// Recorder keeps every event in memory
type Recorder struct {
	mu     sync.Mutex
	events []models.Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events in emission order
func (r *Recorder) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the event type of every recorded event
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Meta().EventType
	}
	return types
}

// Last returns the most recent event of the given type, or nil
func (r *Recorder) Last(eventType string) models.Event {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Meta().EventType == eventType {
			return events[i]
		}
	}
	return nil
}

// Reset forgets all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
