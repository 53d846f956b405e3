package repository

import (
	"context"
	"fmt"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/repository"

	"github.com/google/uuid"
)

type kafkaPublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSink publishes each audit row as a JSON message keyed by a random id.
type KafkaSink struct {
	producer kafkaPublisher
	topic    string
}

type auditMessage struct {
	ID    string                 `json:"id"`
	Table string                 `json:"table"`
	Row   map[string]interface{} `json:"row"`
}

func NewKafkaSink(producer kafkaPublisher, topic string) repository.AuditSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Append(ctx context.Context, rec *models.AuditRecord) error {
	id := uuid.NewString()
	msg := auditMessage{ID: id, Table: rec.Table, Row: rec.Map()}
	if err := s.producer.Publish(ctx, s.topic, []byte(id), msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", s.topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
