package repository

import (
	"context"
	"fmt"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends audit rows to a Redis stream.
type RedisSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewRedisSink(client redis.UniversalClient, stream string) repository.AuditSink {
	return &RedisSink{client: client, stream: stream, maxLen: 100000}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Append(ctx context.Context, rec *models.AuditRecord) error {
	values := make(map[string]interface{}, len(rec.Columns)+1)
	values["table"] = rec.Table
	for _, c := range rec.Columns {
		v, err := scalarValue(c.Value)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
		if v == nil {
			v = ""
		}
		values[c.Name] = v
	}

	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("redis xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
