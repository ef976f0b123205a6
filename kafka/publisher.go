package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/garage-management/internal/workorder/domain"
	"github.com/tair/garage-management/pkg/logger"
)

// Publisher wraps a Kafka producer and implements the work-order
// domain.Publisher interface.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishStatusChanged publishes a work-order status change event with tracing
func (p *Publisher) PublishStatusChanged(ctx context.Context, order *domain.WorkOrder, oldStatus string) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.workorder_status_changed",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicWorkOrderStatusChanged),
			attribute.String("event.type", EventTypeWorkOrderStatusChanged),
			attribute.String("work_order.number", order.OrderNumber),
			attribute.String("work_order.old_status", oldStatus),
			attribute.String("work_order.new_status", order.Status),
		),
	)
	defer span.End()

	event := WorkOrderStatusChangedEvent{
		EventID:     fmt.Sprintf("evt_%s", uuid.New().String()),
		EventType:   EventTypeWorkOrderStatusChanged,
		WorkOrderID: order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		CustomerID:  order.CustomerID,
		TotalCost:   order.TotalCost,
		Timestamp:   time.Now().UTC(),
	}

	span.SetAttributes(attribute.String("event.id", event.EventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(EventTypeWorkOrderStatusChanged)},
		{Key: []byte("event_id"), Value: []byte(event.EventID)},
	}
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(key),
			Value: []byte(value),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicWorkOrderStatusChanged,
		Key:     sarama.StringEncoder(order.OrderNumber),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicWorkOrderStatusChanged).
			Str("order_number", order.OrderNumber).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", event.EventID).
		Str("topic", TopicWorkOrderStatusChanged).
		Str("order_number", order.OrderNumber).
		Str("old_status", oldStatus).
		Str("new_status", order.Status).
		Msg("Work order status change published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every event. Used when Kafka is not configured.
type NopPublisher struct{}

// PublishStatusChanged discards the event
func (NopPublisher) PublishStatusChanged(ctx context.Context, order *domain.WorkOrder, oldStatus string) error {
	logger.Debug(ctx).
		Str("order_number", order.OrderNumber).
		Str("old_status", oldStatus).
		Str("new_status", order.Status).
		Msg("Status change notification dropped (no broker configured)")
	return nil
}
