package queue

import (
	"context"
	"fmt"

	"github.com/octabyte/medtrack-gommon/events"
	"github.com/octabyte/medtrack-gommon/otel"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch     Channel
	config PublishConfig
}

func NewPublisher(ch Channel, config PublishConfig) *Publisher {
	if config.ContentType == "" {
		config.ContentType = contentTypeJSON
	}
	if config.DeliveryMode == 0 {
		config.DeliveryMode = amqp.Transient
	}
	return &Publisher{ch, config}
}

// Publish sends message to the configured exchange under routingKey. The trace
// context of ctx travels in the message headers.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message amqp.Publishing) error {
	message.ContentType = p.config.ContentType
	message.DeliveryMode = p.config.DeliveryMode
	if message.AppId == "" {
		message.AppId = p.config.AppID
	}

	headers := amqp.Table{}
	for key, value := range message.Headers {
		headers[key] = value
	}
	for key, value := range otel.InjectTraceHeaders(ctx, nil) {
		headers[key] = value
	}
	message.Headers = headers

	return p.ch.PublishWithContext(
		ctx,
		p.config.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		message,
	)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// EventSink publishes session events as JSON messages keyed by event type.
type EventSink struct {
	publisher *Publisher
}

var _ events.Sink = (*EventSink)(nil)

func NewEventSink(publisher *Publisher) *EventSink {
	return &EventSink{publisher: publisher}
}

func (s *EventSink) Publish(ctx context.Context, e events.Event) error {
	body, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	return s.publisher.Publish(ctx, e.RoutingKey(), amqp.Publishing{
		MessageId: e.ID,
		Timestamp: e.OccurredAt,
		Type:      string(e.Type),
		Body:      body,
	})
}
