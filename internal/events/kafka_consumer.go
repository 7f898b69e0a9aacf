package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/platform/kafka"
)

// BookingRefresher reloads one booking from upstream into the snapshot.
type BookingRefresher interface {
	RefreshBooking(ctx context.Context, bookingRef string) error
}

// PaymentEventConsumer listens to payment events and refetches the affected booking, since
// the server cascades payment outcomes into booking status.
type PaymentEventConsumer struct {
	consumer  *kafka.Consumer
	refresher BookingRefresher
	logger    *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	topic string,
	refresher BookingRefresher,
	logger *zap.Logger,
) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer:  kafka.NewConsumer(brokers, groupID, topic, logger),
		refresher: refresher,
		logger:    logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentConfirmed, PaymentFailed, PaymentRefunded, PaymentAwaitingVerification:
		return c.handlePaymentChanged(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentChanged(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}
	ref := evt.BookingRef()
	if ref == "" {
		c.logger.Warn("payment event without booking reference",
			zap.String("payment_id", evt.PaymentID),
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	c.logger.Info("processing payment event",
		zap.String("type", cloudEvent.Type),
		zap.String("booking_ref", ref),
		zap.String("payment_id", evt.PaymentID),
	)

	if err := c.refresher.RefreshBooking(ctx, ref); err != nil {
		c.logger.Error("failed to refresh booking after payment event",
			zap.String("booking_ref", ref),
			zap.Error(err),
		)
		return err
	}
	return nil
}
