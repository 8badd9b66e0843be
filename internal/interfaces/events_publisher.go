package interfaces

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
