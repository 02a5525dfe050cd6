package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/fleetlog/duty-status/internal/core/domain"
	"github.com/fleetlog/duty-status/internal/core/ports"
)

const defaultPrefetch = 32

// reportMessage is the wire shape of a status report on the queue.
type reportMessage struct {
	TenantID          string `json:"tenant_id"`
	OperatorID        string `json:"operator_id"`
	ContactPhone      string `json:"contact_phone"`
	CardID            string `json:"card_id"`
	ExternalServiceID string `json:"external_service_id"`
	Status            string `json:"status"`
	Timestamp         int64  `json:"timestamp"`
	DeviceID          string `json:"device_id"`
	Source            string `json:"source"`
}

// Consumer feeds status reports from a durable queue into a ReportProcessor.
// Messages are acknowledged only after processing; storage failures are
// requeued, everything else is dropped.
type Consumer struct {
	ch        *amqp.Channel
	queue     string
	prefetch  int
	processor ports.ReportProcessor
	log       zerolog.Logger
}

func NewConsumer(conn *amqp.Connection, cfg Config, processor ports.ReportProcessor, log zerolog.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp qos: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.StatusQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", cfg.StatusQueue, err)
	}
	return &Consumer{
		ch:        ch,
		queue:     cfg.StatusQueue,
		prefetch:  prefetch,
		processor: processor,
		log:       log,
	}, nil
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume %s: %w", c.queue, err)
	}
	c.log.Info().Str("queue", c.queue).Int("prefetch", c.prefetch).Msg("consuming status reports")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("amqp: delivery channel closed")
			}
			ack, requeue := c.handle(ctx, msg.Body)
			if ack {
				_ = msg.Ack(false)
			} else {
				_ = msg.Nack(false, requeue)
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.ch.Close()
}

// handle processes one message body and decides its fate.
func (c *Consumer) handle(ctx context.Context, body []byte) (ack, requeue bool) {
	var m reportMessage
	if err := json.Unmarshal(body, &m); err != nil {
		c.log.Warn().Err(err).Msg("malformed status report dropped")
		return false, false
	}
	source := m.Source
	if source == "" {
		source = "amqp"
	}

	err := c.processor.Process(ctx, ports.StatusReport{
		TenantID:          m.TenantID,
		OperatorID:        m.OperatorID,
		ContactPhone:      m.ContactPhone,
		CardID:            m.CardID,
		ExternalServiceID: m.ExternalServiceID,
		Status:            m.Status,
		Timestamp:         m.Timestamp,
		DeviceID:          m.DeviceID,
		Source:            source,
	})
	switch {
	case err == nil:
		return true, false
	case errors.Is(err, domain.ErrStorage):
		c.log.Error().Err(err).Str("tenant", m.TenantID).Msg("status report requeued")
		return false, true
	default:
		c.log.Warn().Err(err).Str("tenant", m.TenantID).Str("operator", m.OperatorID).Msg("status report rejected")
		return false, false
	}
}
