package mq

import (
	"context"
	"time"
)

// Channel is the Redis channel and RabbitMQ exchange events go to.
const Channel = "blog.events"

const (
	BlogCreated     = "blog-created"
	BlogUpdated     = "blog-updated"
	BlogApproved    = "blog-approved"
	BlogDenied      = "blog-denied"
	BlogEditorsPick = "blog-editors-pick"
	BlogDeleted     = "blog-deleted"
	UserCreated     = "user-created"
	UserDeleted     = "user-deleted"
)

type Event struct {
	Type       string    `json:"type"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewEvent(typ, entityType, entityID string) Event {
	return Event{
		Type:       typ,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now().UTC(),
	}
}

// Emitter publishes lifecycle events. Handlers log Emit failures and carry on.
type Emitter interface {
	Emit(ctx context.Context, e Event) error
}

type Noop struct{}

func (Noop) Emit(context.Context, Event) error { return nil }

var _ Emitter = Noop{}
