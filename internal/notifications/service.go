package notifications

import (
	"context"
	"fmt"

	"busbooking/internal/shared/config"
	"busbooking/pkg/logger"
)

// Service owns the booking event publisher and, when Kafka is enabled, the email consumers.
type Service struct {
	publisher Publisher
	consumer  *KafkaConsumer
	workers   int
}

// NewService wires notifications from cfg. With Kafka disabled events are only logged.
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		return &Service{publisher: LogPublisher{}}, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.BookingTopic

	publisher, err := NewKafkaPublisher(producerConfig)
	if err != nil {
		return nil, err
	}

	var emailService EmailService = LogEmailService{}
	if cfg.Email.SMTPHost != "" {
		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email))
		if err != nil {
			publisher.Close()
			return nil, err
		}
		emailService = smtpService
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumerConfig.Topics = []string{cfg.Kafka.BookingTopic}

	consumer, err := NewKafkaConsumer(consumerConfig, emailService)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return &Service{publisher: publisher, consumer: consumer, workers: cfg.Kafka.ConsumerWorkers}, nil
}

func (s *Service) Publisher() Publisher {
	return s.publisher
}

func (s *Service) Start(ctx context.Context) {
	if s.consumer == nil {
		return
	}
	workers := s.workers
	if workers <= 0 {
		workers = 1
	}
	s.consumer.Start(ctx, workers)
}

func (s *Service) Stop() error {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			logger.GetDefault().WithError(err).Error("error stopping consumer")
		}
	}
	return s.publisher.Close()
}
