package features

import (
	"testing"

	"SignalAPI/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowPreparerConstantWindow(t *testing.T) {
	p := NewWindowPreparer(300)
	prices := make([]float64, 300)
	for i := range prices {
		prices[i] = 5123.5
	}

	tensor, err := p.Prepare(prices)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 300, 1}, tensor.Shape)
	for _, v := range tensor.Data {
		assert.Equal(t, 0.0, v)
	}
}

func TestWindowPreparerUsesLastPrices(t *testing.T) {
	p := NewWindowPreparer(3)

	tensor, err := p.Prepare([]float64{100, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, tensor.Data)
	assert.Equal(t, 3, tensor.Size())
}

func TestWindowPreparerShortSeries(t *testing.T) {
	p := NewWindowPreparer(300)

	_, err := p.Prepare(make([]float64, 299))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "expected 300, received 299")
}

func TestParsePrices(t *testing.T) {
	got, err := ParsePrices("1.0,2.0,,3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	_, err = ParsePrices("")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'Prices' not found")

	_, err = ParsePrices("1.0,abc")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParsePrices("1.0,NaN")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
