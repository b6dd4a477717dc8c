package eventbus

import (
	"context"
	"sync"
	"time"
)

type EventType string

const (
	EventExecutionCompleted      EventType = "execution.completed"
	EventDeploymentCreated       EventType = "deployment.created"
	EventDeploymentStatusChanged EventType = "deployment.status_changed"
	EventDeploymentDeleted       EventType = "deployment.deleted"
)

// Event is the JSON payload published for every lifecycle change. Channel is
// the owning user's id so a subscriber can fan out per user.
type Event struct {
	Type       EventType `json:"type"`
	Channel    string    `json:"channel"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type nopBus struct{}

// Nop drops every event; used when REDIS_ADDR is unset.
func Nop() Bus { return nopBus{} }

func (nopBus) Publish(context.Context, Event) error { return nil }
func (nopBus) Close() error                         { return nil }

// Memory keeps published events in order. Tests use it to assert on what a
// service emitted.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Publish(_ context.Context, evt Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
