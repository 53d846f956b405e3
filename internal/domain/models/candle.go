package models

// Candle is one OHLCV bar. Callers send bars oldest first.
type Candle struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Time   int64
}

// Series splits candles into the column slices indicator functions expect.
func Series(candles []Candle) (open, high, low, close []float64) {
	n := len(candles)
	open = make([]float64, n)
	high = make([]float64, n)
	low = make([]float64, n)
	close = make([]float64, n)
	for i, c := range candles {
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		close[i] = c.Close
	}
	return open, high, low, close
}
