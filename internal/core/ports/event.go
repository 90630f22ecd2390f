package ports

import (
	"context"
	"time"
)

type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

type EntityChangedEvent struct {
	ID         string       `json:"id"`
	Entity     string       `json:"entity"`
	EntityID   string       `json:"entity_id"`
	Action     ChangeAction `json:"action"`
	Hard       bool         `json:"hard,omitempty"`
	SocietyID  string       `json:"society_id,omitempty"`
	ActorID    string       `json:"actor_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type ChangeEventPublisher interface {
	PublishEntityChanged(ctx context.Context, evt EntityChangedEvent) error
}
