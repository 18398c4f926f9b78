package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"laptopshop-svc/middleware"
	"laptopshop-svc/models"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

func InitConsumer(broker string, logger *zap.Logger) (sarama.Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true
	config.Consumer.Retry.Backoff = 1 * time.Second

	consumer, err := sarama.NewConsumer([]string{broker}, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Info("Kafka consumer initialized", zap.String("broker", broker))
	return consumer, nil
}

// StartNotifier consumes order events and logs simulated customer emails.
// It blocks until the context is cancelled.
func StartNotifier(ctx context.Context, consumer sarama.Consumer, topic string, logger *zap.Logger) error {
	partitionConsumer, err := consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("failed to consume partition: %w", err)
	}
	defer partitionConsumer.Close()

	logger.Info("Order notifier started", zap.String("topic", topic))

	for {
		select {
		case message := <-partitionConsumer.Messages():
			if err := handleMessage(message, logger); err != nil {
				logger.Error("Failed to handle order event", zap.Error(err))
			}
		case err := <-partitionConsumer.Errors():
			logger.Error("Kafka consumer error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}

func handleMessage(message *sarama.ConsumerMessage, logger *zap.Logger) error {
	// Extract trace context from Kafka message headers
	var propagator propagation.TextMapPropagator = otel.GetTextMapPropagator()
	carrier := consumerHeaderCarrier(message.Headers)
	ctx := propagator.Extract(context.Background(), carrier)

	ctx, span := otel.Tracer("laptopshop").Start(ctx, "ProcessOrderNotification")
	defer span.End()

	var event models.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	span.SetAttributes(
		attribute.String("event.type", event.EventType),
		attribute.String("order.id", event.OrderID),
	)

	traceID := middleware.GetTraceID(ctx)
	switch event.EventType {
	case "order_created":
		logger.Info("Order confirmation notification sent",
			zap.String("trace_id", traceID),
			zap.String("order_id", event.OrderID),
			zap.String("customer_id", event.CustomerID),
			zap.Float64("total", event.Total),
		)
		fmt.Printf("[EMAIL] Subject: Order Confirmation\n")
		fmt.Printf("[EMAIL] Body: Your order %s has been placed successfully!\n\n", event.OrderID)
	case "order_status_changed":
		logger.Info("Order status notification sent",
			zap.String("trace_id", traceID),
			zap.String("order_id", event.OrderID),
			zap.String("status", string(event.Status)),
		)
		fmt.Printf("[EMAIL] Subject: Order Update\n")
		fmt.Printf("[EMAIL] Body: Your order %s is now %s.\n\n", event.OrderID, event.Status)
	default:
		logger.Debug("Unknown event type", zap.String("event_type", event.EventType))
	}

	return nil
}

// consumerHeaderCarrier implements the TextMapCarrier interface for Kafka headers (for consumer)
type consumerHeaderCarrier []*sarama.RecordHeader

func (c consumerHeaderCarrier) Get(key string) string {
	for _, h := range c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c consumerHeaderCarrier) Set(key, value string) {
	// Not needed for extraction
}

func (c consumerHeaderCarrier) Keys() []string {
	keys := make([]string, len(c))
	for i, h := range c {
		keys[i] = string(h.Key)
	}
	return keys
}
