// Package messaging defines the event publishing contracts shared by the service.
package messaging

import (
	"context"
)

// CartItemAddedSubject is the subject cart item events are published on.
const CartItemAddedSubject = "cart.item.added"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards events. Used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
