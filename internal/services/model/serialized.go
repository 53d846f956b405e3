package model

import (
	"context"
	"sync"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/service"
)

// Serialized allows one Predict at a time on the wrapped predictor.
type Serialized struct {
	mu    sync.Mutex
	inner service.Predictor
}

func NewSerialized(inner service.Predictor) *Serialized {
	return &Serialized{inner: inner}
}

func (s *Serialized) Predict(ctx context.Context, in models.Tensor) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.inner.Predict(ctx, in)
}

func (s *Serialized) InputSize() int { return s.inner.InputSize() }
func (s *Serialized) Name() string   { return s.inner.Name() }
