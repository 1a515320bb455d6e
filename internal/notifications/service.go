package notifications

import (
	"context"
	"time"

	"bookmate/internal/shared/config"
	"bookmate/pkg/logger"
)

// Service is the notification pipeline facade. The booking flow publishes
// into it; Start/Stop manage the delivery workers.
type Service interface {
	PublishBookingConfirmed(ctx context.Context, userID int64, email, reservationNumber, eventTitle string, seats []string, totalPrice int64) error
	Start(ctx context.Context) error
	Stop() error
}

// NewService wires the pipeline from configuration. With Kafka disabled the
// returned service logs confirmations locally instead of publishing.
func NewService(cfg config.KafkaConfig) (Service, error) {
	if !cfg.Enabled {
		return NewDisabledService(), nil
	}

	producer, err := NewKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	consumer, err := NewKafkaConsumer(cfg, NewLogDeliverer())
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &kafkaService{
		producer: producer,
		consumer: consumer,
		log:      logger.GetDefault(),
	}, nil
}

type kafkaService struct {
	producer Producer
	consumer *Consumer
	log      *logger.Logger
}

func (s *kafkaService) PublishBookingConfirmed(ctx context.Context, userID int64, email, reservationNumber, eventTitle string, seats []string, totalPrice int64) error {
	msg := &BookingConfirmation{
		UserID:            userID,
		Email:             email,
		ReservationNumber: reservationNumber,
		EventTitle:        eventTitle,
		Seats:             seats,
		TotalPrice:        totalPrice,
		ConfirmedAt:       time.Now(),
	}
	return s.producer.Publish(ctx, msg)
}

func (s *kafkaService) Start(ctx context.Context) error {
	return s.consumer.Start(ctx)
}

func (s *kafkaService) Stop() error {
	if err := s.consumer.Stop(); err != nil {
		s.log.Warn("failed to stop notification consumer", "error", err)
	}
	return s.producer.Close()
}

// disabledService keeps the booking flow oblivious to whether the pipeline
// is on. Confirmations land in the log and nothing else happens.
type disabledService struct {
	log *logger.Logger
}

func NewDisabledService() Service {
	return &disabledService{log: logger.GetDefault()}
}

func (s *disabledService) PublishBookingConfirmed(ctx context.Context, userID int64, email, reservationNumber, eventTitle string, seats []string, totalPrice int64) error {
	s.log.InfoContext(ctx, "booking confirmed, notification pipeline disabled",
		"user_id", userID,
		"email", email,
		"reservation_number", reservationNumber,
		"event_title", eventTitle,
		"seats", seats,
		"total_price", totalPrice)
	return nil
}

func (s *disabledService) Start(ctx context.Context) error {
	return nil
}

func (s *disabledService) Stop() error {
	return nil
}
