package memory

import (
	"context"
	"sync"

	"roadmap-backend/application/ports"
	"roadmap-backend/domain/events"
)

// EventPublisher is an in-memory ports.EventPublisher that records
// published events, useful for local runs and test assertions
type EventPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
}

// NewEventPublisher creates a new recording publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Publish records the events
func (p *EventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, evts...)
	return nil
}

// Published returns a copy of everything published so far
func (p *EventPublisher) Published() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.published))
	copy(out, p.published)
	return out
}

var _ ports.EventPublisher = (*EventPublisher)(nil)
