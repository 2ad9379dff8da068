// Package events describes the session lifecycle notifications a client
// emits and the sinks that receive them.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/utils"
)

type Type string

const (
	TypeLogin    Type = "session.login"
	TypeLogout   Type = "session.logout"
	TypeVerified Type = "session.verified"
	TypeRejected Type = "session.rejected"
)

// Event never carries the session token.
type Event struct {
	ID         string     `json:"id"`
	Type       Type       `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	UserID     string     `json:"user_id,omitempty"`
	Role       enums.Role `json:"role,omitempty"`
	Path       string     `json:"path,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

func New(t Type, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: at.UTC()}
}

// RoutingKey is the topic the event is published under.
func (e Event) RoutingKey() string {
	return string(e.Type)
}

func (e Event) Encode() ([]byte, error) {
	return utils.StructToBytes(e)
}

func Decode(data []byte) (Event, error) {
	var e Event
	err := utils.BytesToStruct(data, &e)
	return e, err
}

type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }

// Buffer keeps events in memory.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *Buffer) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Types lists the buffered event types in order.
func (b *Buffer) Types() []Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]Type, len(b.events))
	for i, e := range b.events {
		types[i] = e.Type
	}
	return types
}
