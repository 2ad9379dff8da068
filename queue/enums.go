package queue

type ExchangeKind string

const (
	ExchangeKindTopic  ExchangeKind = "topic"  // Routed by session.* keys
	ExchangeKindFanout ExchangeKind = "fanout" // Every bound queue gets every event
	ExchangeKindDirect ExchangeKind = "direct" // Exact routing key match
)

const contentTypeJSON = "application/json"
