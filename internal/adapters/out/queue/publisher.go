// Package queue provides the Kafka implementation of the transaction event
// publisher. Events are emitted after database commits so downstream systems
// (billing, tracking, reporting) can react to transaction lifecycle changes.
package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"freightops/internal/core/ports"

	"github.com/IBM/sarama"
)

// transactionEventMessage is the wire format of a transaction lifecycle event.
type transactionEventMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transactionId"`
	Code          string    `json:"code"`
	PackingListID string    `json:"packingListId"`
	FlowName      string    `json:"flowName"`
	StepCode      string    `json:"stepCode,omitempty"`
	PackageIDs    []string  `json:"packageIds,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// KafkaTransactionEventPublisher publishes transaction lifecycle events to a
// Kafka topic. Messages are keyed by transaction ID so all events of one
// transaction land on the same partition in order.
type KafkaTransactionEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaTransactionEventPublisher creates a publisher backed by a synchronous
// Kafka producer.
func NewKafkaTransactionEventPublisher(
	brokers []string,
	topic string,
	logger *slog.Logger,
) (*KafkaTransactionEventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &KafkaTransactionEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish sends the event to the configured topic.
func (p *KafkaTransactionEventPublisher) Publish(_ context.Context, event ports.TransactionEvent) error {
	payload, err := json.Marshal(transactionEventMessage{
		Kind:          event.Kind,
		TransactionID: event.TransactionID,
		Code:          event.Code,
		PackingListID: event.PackingListID,
		FlowName:      event.FlowName,
		StepCode:      event.StepCode,
		PackageIDs:    event.PackageIDs,
		OccurredAt:    event.OccurredAt,
	})
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TransactionID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.logger.Error("failed to publish transaction event",
			"kind", event.Kind,
			"transactionId", event.TransactionID,
			"error", err)
		return err
	}

	p.logger.Debug("published transaction event",
		"kind", event.Kind,
		"transactionId", event.TransactionID,
		"partition", partition,
		"offset", offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *KafkaTransactionEventPublisher) Close() error {
	return p.producer.Close()
}

// NoopTransactionEventPublisher discards events. Used when no broker is
// configured, so the application layer never has to branch on event wiring.
type NoopTransactionEventPublisher struct {
	logger *slog.Logger
}

// NewNoopTransactionEventPublisher creates a publisher that logs and drops events.
func NewNoopTransactionEventPublisher(logger *slog.Logger) *NoopTransactionEventPublisher {
	return &NoopTransactionEventPublisher{logger: logger}
}

// Publish logs the event at debug level and discards it.
func (p *NoopTransactionEventPublisher) Publish(_ context.Context, event ports.TransactionEvent) error {
	p.logger.Debug("dropping transaction event, no broker configured",
		"kind", event.Kind,
		"transactionId", event.TransactionID)
	return nil
}
