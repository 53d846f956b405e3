package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/repository"
)

type clickhouseInserter interface {
	Insert(ctx context.Context, table string, columns []string, values []interface{}) error
	InitSchema(ctx context.Context, stmts []string) error
	Close() error
}

// ClickHouseSink appends audit rows to MergeTree tables, creating each table
// from the first row it sees.
type ClickHouseSink struct {
	ch clickhouseInserter

	mu      sync.Mutex
	created map[string]bool
}

func NewClickHouseSink(ch clickhouseInserter) repository.AuditSink {
	return &ClickHouseSink{ch: ch, created: make(map[string]bool)}
}

func (s *ClickHouseSink) Name() string { return "clickhouse" }

func (s *ClickHouseSink) Append(ctx context.Context, rec *models.AuditRecord) error {
	values := make([]interface{}, len(rec.Columns))
	for i, c := range rec.Columns {
		v, err := scalarValue(c.Value)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
		values[i] = v
	}

	if err := s.ensureTable(ctx, rec); err != nil {
		return err
	}
	if err := s.ch.Insert(ctx, rec.Table, rec.Names(), values); err != nil {
		return fmt.Errorf("clickhouse insert into %s: %w", rec.Table, err)
	}
	return nil
}

func (s *ClickHouseSink) ensureTable(ctx context.Context, rec *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created[rec.Table] {
		return nil
	}
	if err := s.ch.InitSchema(ctx, []string{createTableDDL(rec)}); err != nil {
		return fmt.Errorf("clickhouse schema for %s: %w", rec.Table, err)
	}
	s.created[rec.Table] = true
	return nil
}

func (s *ClickHouseSink) Close() error {
	return s.ch.Close()
}

func createTableDDL(rec *models.AuditRecord) string {
	cols := make([]string, len(rec.Columns))
	for i, c := range rec.Columns {
		cols[i] = fmt.Sprintf("`%s` %s", c.Name, clickhouseType(c.Value))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = MergeTree ORDER BY tuple()",
		rec.Table, strings.Join(cols, ", "))
}

func clickhouseType(v interface{}) string {
	switch v.(type) {
	case int, int64:
		return "Int64"
	case float64:
		return "Float64"
	case bool:
		return "Bool"
	case string:
		return "String"
	default:
		return "Nullable(String)"
	}
}
