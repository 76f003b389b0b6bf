// Package events publishes risk alert transitions to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/pslrisk/internal/config"
	"github.com/turtacn/pslrisk/internal/domain/models"
	"github.com/turtacn/pslrisk/internal/domain/service"
	"github.com/turtacn/pslrisk/pkg/logger"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaAlertPublisher is a Kafka-backed implementation of service.AlertPublisher.
// Messages are keyed by tenant so that a tenant's transitions stay ordered within a partition.
type KafkaAlertPublisher struct {
	writer MessageWriter
	logger logger.Logger
}

// NewKafkaAlertPublisher creates a publisher writing to cfg.AlertTopic.
func NewKafkaAlertPublisher(cfg config.KafkaConfig, log logger.Logger) service.AlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return NewKafkaAlertPublisherWithWriter(writer, log)
}

// NewKafkaAlertPublisherWithWriter creates a publisher over an existing writer.
func NewKafkaAlertPublisherWithWriter(writer MessageWriter, log logger.Logger) *KafkaAlertPublisher {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &KafkaAlertPublisher{
		writer: writer,
		logger: log.WithComponent("KafkaAlertPublisher"),
	}
}

// Publish sends one alert event.
func (p *KafkaAlertPublisher) Publish(ctx context.Context, event models.AlertEvent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal alert event", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Alert.TenantID),
		Value: bytes,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "alert_type", Value: []byte(event.Alert.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(ctx, "failed to write alert event to Kafka", err,
			logger.String("alert_id", event.Alert.ID),
			logger.String("action", string(event.Action)),
		)
		return err
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}

// NoopAlertPublisher drops every event. It is used when Kafka is disabled.
type NoopAlertPublisher struct{}

func (NoopAlertPublisher) Publish(context.Context, models.AlertEvent) error { return nil }
func (NoopAlertPublisher) Close() error                                      { return nil }
