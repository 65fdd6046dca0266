package pkg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// LedgerEvent describes one balance-affecting operation, published for
// downstream audit and analytics consumers.
type LedgerEvent struct {
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	Service    string    `json:"service"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes ledger events. Publication is best-effort: the
// ledger itself is the source of truth and callers only log failures.
type EventPublisher interface {
	Publish(event LedgerEvent) error
}

// KafkaPublisher publishes ledger events to a Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(event LedgerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(
		context.Background(),
		kafka.Message{
			Key:   []byte(event.UserID),
			Value: data,
		},
	)
}

// NoopPublisher drops events; used when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(LedgerEvent) error { return nil }
