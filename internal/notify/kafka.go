package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taste-haven/internal/model"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Kafka publishes order events to a topic, keyed by order id.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaConfig returns the producer settings used for order events.
func NewKafkaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 10 * time.Second
	cfg.Net.ReadTimeout = 10 * time.Second
	cfg.Net.WriteTimeout = 10 * time.Second
	return cfg
}

// NewKafka creates a synchronous producer for the given brokers.
func NewKafka(brokers []string, topic string, logger zerolog.Logger) (*Kafka, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafka(producer, topic, logger), nil
}

func newKafka(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *Kafka {
	return &Kafka{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("notifier", "kafka").Str("topic", topic).Logger(),
	}
}

// OrderPlaced sends the event and waits for the broker acknowledgement.
func (k *Kafka) OrderPlaced(ctx context.Context, order *model.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(order.ID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(EventOrderPlaced)},
		},
	})
	if err != nil {
		k.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to send order event")
		return fmt.Errorf("failed to send order event: %w", err)
	}

	k.logger.Debug().
		Str("order_id", order.ID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("order event sent")
	return nil
}

// Close flushes and closes the producer.
func (k *Kafka) Close() error {
	return k.producer.Close()
}
