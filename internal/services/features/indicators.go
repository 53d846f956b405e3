package features

import (
	"fmt"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"
	"SignalAPI/pkg/util"

	"github.com/markcheno/go-talib"
)

// DefaultColumns is the column order the shipped indicator model was trained on.
var DefaultColumns = []string{
	"RSI_14",
	"MACDh_12_26_9",
	"ADX_14",
	"CCI_14_0.015",
	"BBP_5_2.0",
	"BBL_5_2.0",
	"ATR_14",
}

type series struct {
	high, low, close []float64
}

// indicator computes the value on the final bar. lookback is the number of
// leading bars talib leaves unset; with no more bars than that the value is 0.
type indicator struct {
	lookback int
	last     func(s series) float64
}

var indicators = map[string]indicator{
	"RSI_14": {lookback: 14, last: func(s series) float64 {
		return lastOf(talib.Rsi(s.close, 14))
	}},
	"MACDh_12_26_9": {lookback: 33, last: func(s series) float64 {
		_, _, hist := talib.Macd(s.close, 12, 26, 9)
		return lastOf(hist)
	}},
	"ADX_14": {lookback: 27, last: func(s series) float64 {
		return lastOf(talib.Adx(s.high, s.low, s.close, 14))
	}},
	// talib's CCI uses the 0.015 constant
	"CCI_14_0.015": {lookback: 13, last: func(s series) float64 {
		return lastOf(talib.Cci(s.high, s.low, s.close, 14))
	}},
	"BBP_5_2.0": {lookback: 4, last: func(s series) float64 {
		upper, _, lower := talib.BBands(s.close, 5, 2.0, 2.0, talib.SMA)
		u, l := lastOf(upper), lastOf(lower)
		return (s.close[len(s.close)-1] - l) / (u - l)
	}},
	"BBL_5_2.0": {lookback: 4, last: func(s series) float64 {
		_, _, lower := talib.BBands(s.close, 5, 2.0, 2.0, talib.SMA)
		return lastOf(lower)
	}},
	"ATR_14": {lookback: 14, last: func(s series) float64 {
		return lastOf(talib.Atr(s.high, s.low, s.close, 14))
	}},
}

func lastOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

// IndicatorPreparer turns a candle window into the indicator feature vector.
type IndicatorPreparer struct {
	columns    []string
	minCandles int
}

// NewIndicatorPreparer fails on column names it cannot compute.
func NewIndicatorPreparer(columns []string, minCandles int) (*IndicatorPreparer, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	for _, c := range columns {
		if _, ok := indicators[c]; !ok {
			return nil, fmt.Errorf("unknown feature column %q", c)
		}
	}
	if minCandles < 1 {
		minCandles = 1
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &IndicatorPreparer{columns: cols, minCandles: minCandles}, nil
}

// Columns returns the feature names in model order.
func (p *IndicatorPreparer) Columns() []string {
	return p.columns
}

// Size is the length of every vector Prepare returns.
func (p *IndicatorPreparer) Size() int {
	return len(p.columns)
}

// Prepare computes every configured indicator over the whole window and keeps
// the last row. Values that are not available yet, NaN or infinite become 0.
func (p *IndicatorPreparer) Prepare(candles []models.Candle) (models.FeatureVector, error) {
	if len(candles) < p.minCandles {
		return models.FeatureVector{}, fmt.Errorf("%w: at least %d candles required, received %d",
			domain.ErrInvalidInput, p.minCandles, len(candles))
	}
	for i, c := range candles {
		if !util.Finite(c.Open) || !util.Finite(c.High) || !util.Finite(c.Low) || !util.Finite(c.Close) {
			return models.FeatureVector{}, fmt.Errorf("%w: candle %d has a non-finite price", domain.ErrInvalidInput, i)
		}
	}

	_, high, low, closes := models.Series(candles)
	s := series{high: high, low: low, close: closes}

	values := make([]float64, len(p.columns))
	for i, name := range p.columns {
		ind := indicators[name]
		if len(closes) <= ind.lookback {
			continue
		}
		values[i] = util.OrZero(ind.last(s))
	}

	names := make([]string, len(p.columns))
	copy(names, p.columns)
	return models.FeatureVector{Names: names, Values: values}, nil
}
