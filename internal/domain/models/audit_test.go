package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndicatorRecordColumns(t *testing.T) {
	fv := FeatureVector{
		Names:  []string{"RSI_14", "MACDh_12_26_9", "ADX_14", "CCI_14_0.015", "BBP_5_2.0", "BBL_5_2.0", "ATR_14"},
		Values: []float64{1, 2, 3, 4, 5, 6, 7},
	}
	res := PredictionResult{Probability: 0.61234, Label: LabelBuy}

	rec := NewIndicatorRecord("wdo_trade_logs", 1700000000, res, fv)

	assert.Equal(t, "wdo_trade_logs", rec.Table)
	assert.Equal(t, []string{
		"timestamp", "probability", "signal",
		"rsi_14", "macdh_12_26_9", "adx_14", "cci_14_0_015", "bbp_5_2_0", "bbl_5_2_0", "atr_14",
	}, rec.Names())
	assert.Equal(t, []interface{}{int64(1700000000), 0.61234, "COMPRAR", 1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0}, rec.Values())
}

func TestNewWindowRecordColumns(t *testing.T) {
	now := time.Unix(1710000000, 0)
	req := &WindowRequest{Prices: "1,2", CandleTime: float64(1709999940), Signal: "BUY"}
	raw := map[string]interface{}{"Prices": "1,2", "CandleTime": float64(1709999940), "Signal": "BUY"}

	rec := NewWindowRecord("sinais_wdo", now, req, PredictionResult{Probability: 0.7}, raw)

	m := rec.Map()
	assert.Equal(t, []string{"timestamp", "sinal_mt5", "prediction_ia", "candle_time", "data_recebida"}, rec.Names())
	assert.Equal(t, int64(1710000000), m["timestamp"])
	require.NotNil(t, m["sinal_mt5"])
	assert.Equal(t, "BUY", *m["sinal_mt5"].(*string))
	assert.Equal(t, 0.7, m["prediction_ia"])
	assert.Equal(t, "1709999940", m["candle_time"])
	assert.Equal(t, raw, m["data_recebida"])
}

func TestNewWindowRecordDefaults(t *testing.T) {
	rec := NewWindowRecord("sinais_wdo", time.Now(), &WindowRequest{Prices: "1"}, PredictionResult{}, map[string]interface{}{})

	m := rec.Map()
	assert.Nil(t, m["sinal_mt5"])
	assert.Equal(t, "N/A", m["candle_time"])
}

func TestTensorNested(t *testing.T) {
	tensor := NewTensor([]float64{1, 2, 3, 4}, 1, 2, 2)
	assert.Equal(t, 4, tensor.Size())
	assert.Equal(t, []interface{}{
		[]interface{}{[]float64{1, 2}, []float64{3, 4}},
	}, tensor.Nested())
}
