package testutil

import (
	"sync"
)

// Event is one call recorded by RecordingPublisher.
type Event struct {
	Name    string
	Payload any
}

// RecordingPublisher is a workspace.Publisher that keeps every event it is
// given. It is safe for concurrent use.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements workspace.Publisher.
func (p *RecordingPublisher) Publish(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Names returns the recorded event names in order.
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Name
	}
	return names
}
