package features

import (
	"fmt"
	"math"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"
	"SignalAPI/pkg/util"
)

// WindowPreparer normalizes the most recent TimeStep prices for the sequence model.
type WindowPreparer struct {
	timeStep int
}

func NewWindowPreparer(timeStep int) *WindowPreparer {
	return &WindowPreparer{timeStep: timeStep}
}

func (p *WindowPreparer) Size() int {
	return p.timeStep
}

// ParsePrices reads the comma separated Prices field.
func ParsePrices(raw string) ([]float64, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: field 'Prices' not found", domain.ErrInvalidInput)
	}
	prices, err := util.ParseFloatList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: Prices: %v", domain.ErrInvalidInput, err)
	}
	for i, v := range prices {
		if !util.Finite(v) {
			return nil, fmt.Errorf("%w: Prices: item %d is not finite", domain.ErrInvalidInput, i)
		}
	}
	return prices, nil
}

// Prepare min-max scales the last timeStep prices into a (1, N, 1) tensor.
// A flat window scales to all zeros.
func (p *WindowPreparer) Prepare(prices []float64) (models.Tensor, error) {
	if len(prices) < p.timeStep {
		return models.Tensor{}, fmt.Errorf("%w: incomplete series: expected %d, received %d",
			domain.ErrInvalidInput, p.timeStep, len(prices))
	}
	window := prices[len(prices)-p.timeStep:]

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range window {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(window))
	if hi > lo {
		span := hi - lo
		for i, v := range window {
			out[i] = (v - lo) / span
		}
	}
	return models.NewTensor(out, 1, p.timeStep, 1), nil
}
