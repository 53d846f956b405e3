package repository

import (
	"context"
	"fmt"

	"SignalAPI/internal/domain/repository"
	"SignalAPI/pkg/clickhouse"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"
	"SignalAPI/pkg/kafka"
	applogger "SignalAPI/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// OpenAuditSink connects the sink selected by cfg.Audit.Sink. It returns a nil
// sink, and no error, when auditing is off or the sink lacks credentials.
func OpenAuditSink(ctx context.Context, cfg *config.Config, l *applogger.Logger) (repository.AuditSink, error) {
	if cfg.Audit.Sink == config.SinkNone || cfg.Audit.Sink == "" {
		l.Info("audit logging disabled")
		return nil, nil
	}
	if !cfg.AuditCredentialsPresent() {
		l.Warn("audit sink has no credentials, audit logging disabled", applogger.String("sink", cfg.Audit.Sink))
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Audit.Timeout)
	defer cancel()

	switch cfg.Audit.Sink {
	case config.SinkSupabase:
		return NewSupabaseSink(cfg.Audit.Supabase.URL, cfg.Audit.Supabase.Key,
			xhttp.NewClient(xhttp.WithTimeout(cfg.Audit.Timeout)))

	case config.SinkPostgres:
		pool, err := NewPool(ctx, cfg.Audit.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresSink(pool), nil

	case config.SinkClickHouse:
		ch, err := clickhouse.NewClient(ctx,
			clickhouse.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
			clickhouse.WithDatabase(cfg.ClickHouse.Database),
			clickhouse.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			clickhouse.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			clickhouse.WithHTTP(cfg.ClickHouse.UseHTTP),
			clickhouse.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		)
		if err != nil {
			return nil, err
		}
		return NewClickHouseSink(ch), nil

	case config.SinkKafka:
		p, err := NewKafkaProducer(cfg)
		if err != nil {
			return nil, err
		}
		return NewKafkaSink(p, cfg.Kafka.Topic), nil

	case config.SinkRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Audit.Redis.Addr,
			Password: cfg.Audit.Redis.Password,
			DB:       cfg.Audit.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisSink(client, cfg.Audit.Redis.Stream), nil

	default:
		return nil, fmt.Errorf("unknown audit sink %q", cfg.Audit.Sink)
	}
}

// NewKafkaProducer builds a producer from the kafka config section.
func NewKafkaProducer(cfg *config.Config) (*kafka.Producer, error) {
	return kafka.NewProducer(
		kafka.WithBrokers(cfg.Kafka.Brokers),
		kafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		kafka.WithCompression(cfg.Kafka.Compression),
		kafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		kafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
}
