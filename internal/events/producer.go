// Package events publishes moderation events to Kafka for downstream audit
// consumers. The stream is optional; with no brokers configured nothing is
// published.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeRecordSubmitted = "record.submitted"
	TypeRecordReviewed  = "record.reviewed"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	EmittedAt time.Time   `json:"emitted_at"`
	Payload   interface{} `json:"payload,omitempty"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish emits one event keyed by the record timestamp, so all events for
// a record land on the same partition.
func (p *Publisher) Publish(ctx context.Context, eventType, recordTimestamp string, payload interface{}) error {
	data, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: recordTimestamp,
		EmittedAt: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(recordTimestamp),
		Value: data,
	}); err != nil {
		return fmt.Errorf("events: publish failed: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
