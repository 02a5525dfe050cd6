package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config captures the broker address and the names this service uses.
type Config struct {
	URL             string
	StatusQueue     string
	AnomalyExchange string
	Prefetch        int
}

// Connect dials the broker.
func Connect(cfg Config) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return conn, nil
}
