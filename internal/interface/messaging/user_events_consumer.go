// Package messaging consumes user lifecycle events from RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
)

// EventHandler processes one decoded user event.
type EventHandler interface {
	HandleUserEvent(ctx context.Context, ev *event.UserEvent) error
}

type UserEventsConsumer struct {
	handler EventHandler
	logger  *logrus.Logger
}

func NewUserEventsConsumer(handler EventHandler, logger *logrus.Logger) *UserEventsConsumer {
	return &UserEventsConsumer{handler: handler, logger: logger}
}

func (c *UserEventsConsumer) log() *logrus.Logger {
	if c.logger == nil {
		return logrus.StandardLogger()
	}
	return c.logger
}

// Run handles deliveries until ctx is cancelled or the channel is closed.
func (c *UserEventsConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.log().Warn("user events channel closed")
				return
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle acks a delivery once its event was processed. Undecodable messages
// and handler failures are nacked without requeue: retries already happened
// inside the handler, and a poison message must not loop. A failure after ctx
// was cancelled is requeued instead, since shutdown cut the retries short.
func (c *UserEventsConsumer) Handle(ctx context.Context, d amqp.Delivery) {
	var ev event.UserEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		c.log().WithError(err).WithField("delivery_tag", d.DeliveryTag).Error("bad user event message")
		c.nack(d)
		return
	}

	fields := logrus.Fields{"operation": ev.Operation, "email": ev.Email, "language": ev.Language}
	c.log().WithFields(fields).Info("received user event")

	if err := c.handler.HandleUserEvent(ctx, &ev); err != nil {
		if ctx.Err() != nil {
			c.log().WithError(err).WithFields(fields).Warn("interrupted by shutdown, requeueing user event")
			c.requeue(d)
			return
		}
		c.log().WithError(err).WithFields(fields).Error("failed to process user event")
		c.nack(d)
		return
	}
	if err := d.Ack(false); err != nil {
		c.log().WithError(err).WithFields(fields).Warn("ack failed")
	}
}

func (c *UserEventsConsumer) nack(d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		c.log().WithError(err).WithField("delivery_tag", d.DeliveryTag).Warn("nack failed")
	}
}

func (c *UserEventsConsumer) requeue(d amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		c.log().WithError(err).WithField("delivery_tag", d.DeliveryTag).Warn("requeue failed")
	}
}
