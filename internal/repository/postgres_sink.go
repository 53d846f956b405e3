package repository

import (
	"context"
	"fmt"
	"strings"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a Postgres pool and verifies it with a ping.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink inserts audit rows directly, e.g. into the database behind Supabase.
type PostgresSink struct {
	db    execer
	close func()
}

func NewPostgresSink(pool *Pool) repository.AuditSink {
	return &PostgresSink{db: pool, close: pool.Close}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Append(ctx context.Context, rec *models.AuditRecord) error {
	query, args := insertSQL(rec)
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres insert into %s: %w", rec.Table, err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func insertSQL(rec *models.AuditRecord) (string, []any) {
	cols := make([]string, len(rec.Columns))
	marks := make([]string, len(rec.Columns))
	args := make([]any, len(rec.Columns))
	for i, c := range rec.Columns {
		cols[i] = pgx.Identifier{c.Name}.Sanitize()
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c.Value
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{rec.Table}.Sanitize(), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return query, args
}
