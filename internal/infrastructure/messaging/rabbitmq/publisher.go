package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

const publishTimeout = 5 * time.Second

// AnomalyPublisher broadcasts anomalies on a fanout exchange.
type AnomalyPublisher struct {
	ch       *amqp.Channel
	exchange string
}

func NewAnomalyPublisher(conn *amqp.Connection, cfg Config) (*AnomalyPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.AnomalyExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", cfg.AnomalyExchange, err)
	}
	return &AnomalyPublisher{ch: ch, exchange: cfg.AnomalyExchange}, nil
}

// Publish sends a as a persistent JSON message. The anomaly ID doubles as
// the message ID.
func (p *AnomalyPublisher) Publish(ctx context.Context, a domain.Anomaly) error {
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(ctx, p.exchange, string(a.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    a.ID,
		Timestamp:    a.DetectedAt,
		Type:         string(a.Kind),
		Body:         body,
	})
}

func (p *AnomalyPublisher) Close() error {
	return p.ch.Close()
}
