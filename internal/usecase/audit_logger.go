package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"
	drepo "SignalAPI/internal/domain/repository"
	applogger "SignalAPI/pkg/logger"
)

// AuditLogger writes audit records to an optional sink. A nil sink turns
// every write into a no-op.
type AuditLogger struct {
	sink    drepo.AuditSink
	metrics drepo.Metrics
	l       *applogger.Logger
	timeout time.Duration
	wg      sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

func NewAuditLogger(sink drepo.AuditSink, metrics drepo.Metrics, l *applogger.Logger, timeout time.Duration) *AuditLogger {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &AuditLogger{sink: sink, metrics: metrics, l: l, timeout: timeout}
}

// Enabled reports whether records reach a sink.
func (a *AuditLogger) Enabled() bool {
	return a.sink != nil
}

// SinkName returns the sink name, or "none".
func (a *AuditLogger) SinkName() string {
	if a.sink == nil {
		return "none"
	}
	return a.sink.Name()
}

// Write appends rec synchronously.
func (a *AuditLogger) Write(ctx context.Context, rec *models.AuditRecord) error {
	if a.sink == nil || rec == nil {
		return nil
	}

	start := time.Now()
	err := a.sink.Append(ctx, rec)
	a.metrics.RecordLatency("audit", time.Since(start).Seconds())
	if err != nil {
		a.metrics.RecordAuditWrite(a.sink.Name(), "error")
		return fmt.Errorf("%w: %v", domain.ErrAudit, err)
	}
	a.metrics.RecordAuditWrite(a.sink.Name(), "ok")
	return nil
}

// Dispatch writes rec in the background. Failures are logged and counted,
// never returned.
func (a *AuditLogger) Dispatch(rec *models.AuditRecord) {
	if a.sink == nil || rec == nil {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.Write(ctx, rec); err != nil {
			a.l.Warn("audit write failed",
				applogger.String("sink", a.sink.Name()),
				applogger.String("table", rec.Table),
				applogger.Error(err),
			)
		}
	}()
}

// Wait blocks until every dispatched write has finished.
func (a *AuditLogger) Wait() {
	a.wg.Wait()
}

// Close waits for pending writes and closes the sink. Later calls return
// the first result.
func (a *AuditLogger) Close() error {
	a.closeOnce.Do(func() {
		a.Wait()
		if a.sink != nil {
			a.closeErr = a.sink.Close()
		}
	})
	return a.closeErr
}
