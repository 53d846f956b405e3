package repository

import (
	"context"

	"SignalAPI/internal/domain/models"
)

// AuditSink appends audit rows to an external store.
type AuditSink interface {
	Append(ctx context.Context, rec *models.AuditRecord) error
	Name() string
	Close() error
}

type Metrics interface {
	RecordPrediction(variant, label string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordAuditWrite(sink, result string)
	SetModelReady(ready bool)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordPrediction(string, string) {}
func (NopMetrics) RecordError(string)              {}
func (NopMetrics) RecordLatency(string, float64)   {}
func (NopMetrics) RecordAuditWrite(string, string) {}
func (NopMetrics) SetModelReady(bool)              {}
