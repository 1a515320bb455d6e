package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"bookmate/internal/shared/config"
	"bookmate/pkg/logger"
)

const (
	deliveryMaxRetries = 3
	deliveryBackoff    = time.Second
)

// Deliverer hands one confirmation to the recipient.
type Deliverer interface {
	Deliver(ctx context.Context, msg *BookingConfirmation) error
}

// LogDeliverer writes confirmations to the structured log. It stands in for
// a real mail or push sender.
type LogDeliverer struct {
	log *logger.Logger
}

func NewLogDeliverer() *LogDeliverer {
	return &LogDeliverer{log: logger.GetDefault()}
}

func (d *LogDeliverer) Deliver(ctx context.Context, msg *BookingConfirmation) error {
	d.log.InfoContext(ctx, "booking confirmation delivered",
		"email", msg.Email,
		"reservation_number", msg.ReservationNumber,
		"event_title", msg.EventTitle,
		"seats", msg.Seats,
		"total_price", msg.TotalPrice)
	return nil
}

// Consumer drains the notification topic with a pool of consumer group
// workers and hands each confirmation to the deliverer.
type Consumer struct {
	group     sarama.ConsumerGroup
	topics    []string
	deliverer Deliverer
	workers   int
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaConsumer(cfg config.KafkaConfig, deliverer Deliverer) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Consumer{
		group:     group,
		topics:    []string{cfg.Topic},
		deliverer: deliverer,
		workers:   workers,
		log:       logger.GetDefault(),
	}, nil
}

// Start launches the worker pool. Workers run until Stop is called or the
// parent context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.drainErrors()

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.log.Info("notification workers started", "workers", c.workers, "topics", c.topics)
	return nil
}

func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{
		deliverer: c.deliverer,
		workerID:  workerID,
		backoff:   deliveryBackoff,
		log:       c.log,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			// Consume blocks through one group session and returns on
			// rebalance; the loop rejoins.
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.log.Warn("consumer session ended with error",
					"worker", workerID, "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) drainErrors() {
	for err := range c.group.Errors() {
		c.log.Warn("consumer group error", "error", err)
	}
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("notification workers stopped")
	return nil
}

type groupHandler struct {
	deliverer Deliverer
	workerID  int
	backoff   time.Duration
	log       *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			var msg BookingConfirmation
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				// A payload that cannot be decoded will never succeed;
				// mark it so it cannot wedge the partition.
				h.log.Error("dropping undecodable confirmation",
					"worker", h.workerID,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err)
				session.MarkMessage(message, "")
				continue
			}

			if err := h.deliverWithRetry(session.Context(), &msg); err != nil {
				// Left unmarked: the message is redelivered after the
				// next rebalance, giving at-least-once delivery.
				h.log.Error("failed to deliver confirmation",
					"worker", h.workerID,
					"reservation_number", msg.ReservationNumber,
					"error", err)
				continue
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) deliverWithRetry(ctx context.Context, msg *BookingConfirmation) error {
	var lastErr error
	for attempt := 0; attempt <= deliveryMaxRetries; attempt++ {
		lastErr = h.deliverer.Deliver(ctx, msg)
		if lastErr == nil {
			return nil
		}
		if attempt == deliveryMaxRetries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
