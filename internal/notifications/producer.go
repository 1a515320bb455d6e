package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"bookmate/internal/shared/config"
	"bookmate/pkg/logger"
)

// Producer publishes booking confirmations to the notification topic.
type Producer interface {
	Publish(ctx context.Context, msg *BookingConfirmation) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a synchronous, idempotent producer. Messages are
// acknowledged by all in-sync replicas before Publish returns.
func NewKafkaProducer(cfg config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	// Idempotent writes require at most one in-flight request per broker.
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.Topic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, msg *BookingConfirmation) error {
	payload, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking confirmation: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(msg.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: msg.ConfirmedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking confirmation: %w", err)
	}

	p.log.InfoContext(ctx, "booking confirmation published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"reservation_number", msg.ReservationNumber)
	return nil
}

func (p *kafkaProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
