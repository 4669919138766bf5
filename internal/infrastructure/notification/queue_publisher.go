// Package notification delivers user events from the user service to the
// notification service, over RabbitMQ and over REST.
package notification

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueuePublisher puts user events on the user-events queue.
type QueuePublisher struct {
	pub JSONPublisher
}

func NewQueuePublisher(pub JSONPublisher) *QueuePublisher {
	return &QueuePublisher{pub: pub}
}

func (p *QueuePublisher) Name() string { return "rabbitmq" }

func (p *QueuePublisher) Publish(ctx context.Context, ev event.UserEvent) error {
	return p.pub.PublishJSON(ctx, ev)
}
