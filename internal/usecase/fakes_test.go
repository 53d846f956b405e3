package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/service"
	"SignalAPI/pkg/config"

	"github.com/stretchr/testify/require"
)

type fakePredictor struct {
	size  int
	prob  float64
	err   error
	delay time.Duration
	calls int32
}

func (f *fakePredictor) Predict(ctx context.Context, in models.Tensor) (float64, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.prob, f.err
}

func (f *fakePredictor) InputSize() int { return f.size }
func (f *fakePredictor) Name() string   { return "fake" }

func (f *fakePredictor) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

func loaderFor(p service.Predictor) PredictorLoader {
	return func(context.Context) (service.Predictor, error) { return p, nil }
}

func failingLoader(context.Context) (service.Predictor, error) {
	return nil, errors.New("open models/ia.json: no such file or directory")
}

type fakeSink struct {
	mu      sync.Mutex
	records []*models.AuditRecord
	err     error
	closed  bool
	closes  int
}

func (s *fakeSink) Append(_ context.Context, rec *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.closes++
	return nil
}

func (s *fakeSink) Records() []*models.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.AuditRecord(nil), s.records...)
}

func testConfig(t *testing.T, variant string) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Variant = variant
	cfg.Audit.Table = config.DefaultAuditTable(variant)
	return cfg
}

func candles(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		p := 5000 + float64(i%7)
		out[i] = models.Candle{Open: p, High: p + 2, Low: p - 2, Close: p + 1, Volume: 10, Time: int64(1700000000 + 60*i)}
	}
	return out
}

func pricesCSV(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(5000 + i%10)
	}
	return strings.Join(parts, ",")
}
