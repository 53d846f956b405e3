package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/domain/service"
	"SignalAPI/internal/usecase"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPredictor struct {
	size  int
	prob  float64
	err   error
	mu    sync.Mutex
	calls int
}

func (s *stubPredictor) Predict(context.Context, models.Tensor) (float64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.prob, s.err
}

func (s *stubPredictor) InputSize() int { return s.size }
func (s *stubPredictor) Name() string   { return "stub" }

type memorySink struct {
	mu   sync.Mutex
	rows []*models.AuditRecord
}

func (m *memorySink) Append(_ context.Context, rec *models.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rec)
	return nil
}

func (m *memorySink) Name() string { return "memory" }
func (m *memorySink) Close() error { return nil }

type setup struct {
	e     *echo.Echo
	pred  *stubPredictor
	sink  *memorySink
	audit *usecase.AuditLogger
}

func newSetup(t *testing.T, variant string, pred *stubPredictor, withSink, initialize bool) *setup {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Variant = variant
	cfg.Audit.Table = config.DefaultAuditTable(variant)

	s := &setup{pred: pred}
	if withSink {
		s.sink = &memorySink{}
		s.audit = usecase.NewAuditLogger(s.sink, nil, nil, time.Second)
	} else {
		s.audit = usecase.NewAuditLogger(nil, nil, nil, time.Second)
	}

	load := func(context.Context) (service.Predictor, error) {
		if pred == nil {
			return nil, errors.New("model file missing")
		}
		return pred, nil
	}
	engine, err := usecase.NewEngine(cfg, load, s.audit, nil, nil)
	require.NoError(t, err)
	if initialize {
		engine.Initialize(context.Background())
	}

	s.e = echo.New()
	NewSignalHandler(engine, nil, cfg).RegisterRoutes(s.e)
	return s
}

func (s *setup) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func candlesJSON(n int) string {
	rows := make([]string, n)
	for i := range rows {
		p := 5000 + float64(i%5)
		rows[i] = fmt.Sprintf(`{"open":%v,"high":%v,"low":%v,"close":%v,"volume":120,"time":%d}`,
			p, p+3, p-3, p+1, 1700000000+60*i)
	}
	return `{"candles":[` + strings.Join(rows, ",") + `]}`
}

func pricesJSON(n int, extra string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(5000 + i%17)
	}
	return `{"Prices":"` + strings.Join(parts, ",") + `"` + extra + `}`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ready := newSetup(t, config.VariantIndicator, &stubPredictor{size: 7}, true, true)
	rec := ready.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Contains(t, body["message"], "connected")

	noAudit := newSetup(t, config.VariantIndicator, &stubPredictor{size: 7}, false, true)
	body = decode(t, noAudit.do(http.MethodGet, "/", ""))
	assert.Contains(t, body["message"], "disconnected")

	notReady := newSetup(t, config.VariantIndicator, nil, false, true)
	rec = notReady.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ERROR", decode(t, rec)["status"])
}

func TestIndicatorSignal(t *testing.T) {
	s := newSetup(t, config.VariantIndicator, &stubPredictor{size: 7, prob: 0.654321}, true, true)

	rec := s.do(http.MethodPost, "/signal", candlesJSON(40))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "COMPRAR", body["sinal"])
	assert.Equal(t, 0.6543, body["probabilidade"])

	s.audit.Wait()
	require.Len(t, s.sink.rows, 1)
	assert.Equal(t, "wdo_trade_logs", s.sink.rows[0].Table)
}

func TestIndicatorWait(t *testing.T) {
	s := newSetup(t, config.VariantIndicator, &stubPredictor{size: 7, prob: 0.59999}, false, true)

	body := decode(t, s.do(http.MethodPost, "/signal", candlesJSON(15)))
	assert.Equal(t, "AGUARDAR", body["sinal"])
	assert.Equal(t, 0.6, body["probabilidade"])
}

func TestIndicatorModelNotLoaded(t *testing.T) {
	s := newSetup(t, config.VariantIndicator, nil, false, true)

	rec := s.do(http.MethodPost, "/signal", candlesJSON(40))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ERRO", body["sinal"])
	assert.Equal(t, "model not loaded", body["mensagem"])
}

func TestIndicatorBadInput(t *testing.T) {
	pred := &stubPredictor{size: 7, prob: 0.9}
	s := newSetup(t, config.VariantIndicator, pred, false, true)

	tests := []struct {
		name string
		body string
	}{
		{"too few candles", candlesJSON(3)},
		{"missing close", `{"candles":[{"open":1,"high":1,"low":1,"volume":1,"time":1}]}`},
		{"string price", `{"candles":[{"open":"x","high":1,"low":1,"close":1,"volume":1,"time":1}]}`},
		{"no candles", `{}`},
		{"missing volume", `{"candles":[{"open":1,"high":1,"low":1,"close":1,"time":1}]}`},
		{"missing time", `{"candles":[{"open":1,"high":1,"low":1,"close":1,"volume":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/signal", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "ERRO", decode(t, rec)["sinal"])
		})
	}
	assert.Equal(t, 0, pred.calls)
}

func TestIndicatorHidesInternalErrors(t *testing.T) {
	s := newSetup(t, config.VariantIndicator, &stubPredictor{size: 7, err: errors.New("tensor shape mismatch in layer 3")}, false, true)

	rec := s.do(http.MethodPost, "/signal", candlesJSON(40))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, decode(t, rec)["mensagem"], "layer 3")
}

func TestIndicatorExposesInternalErrorsWhenConfigured(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.ExposeInternalErrors = true
	cfg.Audit.Table = config.DefaultAuditTable(cfg.Variant)

	pred := &stubPredictor{size: 7, err: errors.New("tensor shape mismatch in layer 3")}
	engine, err := usecase.NewEngine(cfg, func(context.Context) (service.Predictor, error) { return pred, nil }, nil, nil, nil)
	require.NoError(t, err)
	engine.Initialize(context.Background())

	e := echo.New()
	NewSignalHandler(engine, nil, cfg).RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/signal", strings.NewReader(candlesJSON(40)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["mensagem"], "layer 3")
}

func TestValidationErrorKeepsParams(t *testing.T) {
	h := &SignalHandler{logger: nil}
	verrs := xhttp.ValidationErrors{{
		Code:    "ERR_MIN",
		Field:   "candles",
		Message: "candles must contain at least 1 items",
		Params:  map[string]interface{}{"min": "1"},
	}}

	appErr := h.toAppError(verrs, indicatorErrors)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "candles", appErr.Field)
	assert.Equal(t, "1", appErr.Params["min"])
}

func TestWindowSignal(t *testing.T) {
	s := newSetup(t, config.VariantWindow, &stubPredictor{size: 300, prob: 0.81234}, true, true)

	rec := s.do(http.MethodPost, "/", pricesJSON(310, `,"CandleTime":"2024.03.01 10:05","Signal":"BUY"`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "BUY", body["Signal"])
	assert.Equal(t, 0.8123, body["Confidence"])

	s.audit.Wait()
	require.Len(t, s.sink.rows, 1)
	row := s.sink.rows[0].Map()
	assert.Equal(t, "sinais_wdo", s.sink.rows[0].Table)
	assert.Equal(t, "2024.03.01 10:05", row["candle_time"])
	raw, ok := row["data_recebida"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "BUY", raw["Signal"])
}

func TestWindowErrors(t *testing.T) {
	pred := &stubPredictor{size: 300, prob: 0.5}
	s := newSetup(t, config.VariantWindow, pred, false, true)

	rec := s.do(http.MethodPost, "/", `{"CandleTime":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["Error"], "'Prices' not found")

	rec = s.do(http.MethodPost, "/", pricesJSON(299, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["Error"], "expected 300, received 299")

	rec = s.do(http.MethodPost, "/", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, pred.calls)
}

func TestWindowModelNotLoaded(t *testing.T) {
	s := newSetup(t, config.VariantWindow, &stubPredictor{size: 300}, false, false)

	rec := s.do(http.MethodPost, "/", pricesJSON(300, ""))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AI model not loaded in the API", decode(t, rec)["Error"])
}

func TestRoutesFollowVariant(t *testing.T) {
	s := newSetup(t, config.VariantWindow, &stubPredictor{size: 300}, false, true)
	rec := s.do(http.MethodPost, "/signal", candlesJSON(20))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
