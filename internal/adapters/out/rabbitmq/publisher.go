// Package rabbitmq publishes batch lifecycle events to a durable topic exchange.
// The routing key of every message is the event type, so consumers can bind to
// "batch.#" or to a single transition such as "batch.completed".
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dispatch/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "dispatch.batches"

var _ ports.EventPublisher = &Publisher{}

type Publisher struct {
	conn     Connection
	exchange string
}

func NewPublisher(conn Connection, exchange string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{conn: conn, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, events ...ports.BatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	for _, event := range events {
		body, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}

		err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.Type, err)
		}
	}
	return nil
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...ports.BatchEvent) error {
	return nil
}
