package service

import (
	"context"

	"SignalAPI/internal/domain/models"
)

// Predictor runs a pre-trained model on one input tensor and returns the
// probability of an upward move.
type Predictor interface {
	Predict(ctx context.Context, in models.Tensor) (float64, error)
	// InputSize is the number of scalar inputs the model consumes.
	InputSize() int
	Name() string
}
