package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"ms-event-setup/internal/logger"
	"ms-event-setup/internal/models"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer, Logger: log}
}

// PublishEventLaunched streams the launched-event record, keyed by
// event ID, for downstream consumers (listings, notifications, search).
func (p *Producer) PublishEventLaunched(ev models.LaunchedEvent) error {
	msgBytes, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", p.Writer.Topic, fmt.Sprintf("event %s (%s)", ev.EventID, ev.Slug))
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(ev.EventID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// MockProducer satisfies the launch service's publisher in mock mode or
// when Kafka is disabled.
type MockProducer struct {
	Logger *logger.Logger
}

func (p *MockProducer) PublishEventLaunched(ev models.LaunchedEvent) error {
	if p.Logger != nil {
		p.Logger.LogKafka("MOCK", "event-launched", fmt.Sprintf("event %s (%s)", ev.EventID, ev.Slug))
	}
	return nil
}
