package models

// CandleInput is a bar as posted by clients. Pointers let validation tell
// a missing field from a zero.
type CandleInput struct {
	Open   *float64 `json:"open" validate:"required"`
	High   *float64 `json:"high" validate:"required"`
	Low    *float64 `json:"low" validate:"required"`
	Close  *float64 `json:"close" validate:"required"`
	Volume *float64 `json:"volume" validate:"required"`
	Time   *float64 `json:"time" validate:"required"`
}

// Candle converts a validated input bar.
func (c CandleInput) Candle() Candle {
	return Candle{
		Open:   *c.Open,
		High:   *c.High,
		Low:    *c.Low,
		Close:  *c.Close,
		Volume: *c.Volume,
		Time:   int64(*c.Time),
	}
}

type IndicatorRequest struct {
	Candles []CandleInput `json:"candles" validate:"required,dive"`
}

func (r *IndicatorRequest) ToCandles() []Candle {
	out := make([]Candle, len(r.Candles))
	for i, c := range r.Candles {
		out[i] = c.Candle()
	}
	return out
}

type IndicatorResponse struct {
	Signal      string  `json:"sinal"`
	Probability float64 `json:"probabilidade"`
}

type IndicatorErrorResponse struct {
	Signal  string `json:"sinal"`
	Message string `json:"mensagem"`
}

// WindowRequest is the price-window payload. CandleTime and Signal are passed
// through to the audit row untouched, whatever JSON type the client used.
type WindowRequest struct {
	Prices     string      `json:"Prices"`
	CandleTime interface{} `json:"CandleTime"`
	Signal     interface{} `json:"Signal"`
}

type WindowResponse struct {
	Signal     string  `json:"Signal"`
	Confidence float64 `json:"Confidence"`
}

type WindowErrorResponse struct {
	Error string `json:"Error"`
}
