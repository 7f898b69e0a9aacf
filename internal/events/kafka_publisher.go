package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/platform/kafka"
)

// eventWriter is the subset of the platform producer the publisher needs.
type eventWriter interface {
	PublishKeyed(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// KafkaPublisher emits admin audit events as CloudEvents on one topic.
type KafkaPublisher struct {
	writer eventWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(producer *kafka.Producer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: producer, topic: topic, logger: logger}
}

// Publish wraps data in a CloudEvent keyed by the booking or payment id.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	event, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		return err
	}
	if key == "" {
		key = event.ID
	}
	return p.writer.PublishKeyed(ctx, p.topic, key, event)
}
