package queue

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection dials the broker, opens a channel and declares the event
// exchange.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid queue config: %w", err)
	}

	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = DeclareExchange(ch, config.Exchange); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Connection{conn, ch}, nil
}

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func DeclareExchange(ch exchangeDeclarer, config ExchangeConfig) error {
	kind := config.Kind
	if kind == "" {
		kind = ExchangeKindTopic
	}
	return ch.ExchangeDeclare(
		config.Name,
		string(kind),
		config.Durable,
		config.AutoDelete,
		false,
		false,
		config.Args,
	)
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}
