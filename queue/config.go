package queue

type ConnectionConfig struct {
	// URI: The RabbitMQ connection URI, including credentials.
	URI string `validate:"required,url"`
	// Exchange: The exchange session events are published to. It is declared
	// on connect.
	Exchange ExchangeConfig
}

type ExchangeConfig struct {
	// Name: The exchange name.
	Name string `validate:"required"`
	// Kind: topic, fanout or direct. Defaults to topic.
	Kind ExchangeKind `validate:"omitempty,oneof=topic fanout direct"`
	// Durable: Whether the exchange survives a broker restart.
	Durable bool
	// AutoDelete: Whether the exchange is removed once no queue is bound.
	AutoDelete bool
	// Args: Extra declaration arguments, e.g. `alternate-exchange`.
	Args map[string]interface{}
}

type PublishConfig struct {
	// Exchange: The name of the exchange to be used for message publishing.
	Exchange string `validate:"required"`
	// ContentType: The content type of published messages.
	// Defaults to "application/json".
	ContentType string
	// DeliveryMode: amqp.Transient (1) or amqp.Persistent (2).
	// Defaults to transient.
	DeliveryMode uint8 `validate:"omitempty,oneof=1 2"`
	// AppID: Stamped on every message so consumers can tell clients apart.
	AppID string
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
