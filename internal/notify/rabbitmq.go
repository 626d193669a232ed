package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taste-haven/internal/model"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 10 * time.Second

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// RabbitMQ publishes order events to a topic exchange.
type RabbitMQ struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitMQ dials the broker and declares a durable topic exchange.
func NewRabbitMQ(url, exchange string, logger zerolog.Logger) (*RabbitMQ, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	r := newRabbitMQ(ch, exchange, logger)
	r.conn = conn
	return r, nil
}

func newRabbitMQ(ch channel, exchange string, logger zerolog.Logger) *RabbitMQ {
	return &RabbitMQ{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With().Str("notifier", "rabbitmq").Str("exchange", exchange).Logger(),
	}
}

// OrderPlaced publishes a persistent JSON message with routing key order.placed.
func (r *RabbitMQ) OrderPlaced(ctx context.Context, order *model.Order) error {
	body, err := json.Marshal(NewEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = r.ch.PublishWithContext(ctx, r.exchange, EventOrderPlaced, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    order.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID).Int("message_size", len(body)).Msg("order event published")
	return nil
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	if err := r.ch.Close(); err != nil {
		return err
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
