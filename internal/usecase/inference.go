package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"
	drepo "SignalAPI/internal/domain/repository"
	"SignalAPI/internal/domain/service"
	"SignalAPI/internal/services/features"
	"SignalAPI/internal/services/signal"
	"SignalAPI/pkg/config"
	applogger "SignalAPI/pkg/logger"
	"SignalAPI/pkg/util"
)

// PredictorLoader builds the process-wide predictor once.
type PredictorLoader func(ctx context.Context) (service.Predictor, error)

// Readiness describes what Initialize managed to set up.
type Readiness struct {
	Ready     bool
	Model     string
	AuditSink string
	Audit     bool
	Err       error
}

// Engine runs the request pipeline: prepare features, predict, map the
// label, dispatch the audit row. It stays unusable until Initialize succeeds.
type Engine struct {
	variant    string
	auditTable string
	timeout    time.Duration

	load       PredictorLoader
	indicator  *features.IndicatorPreparer
	window     *features.WindowPreparer
	twoClass   signal.TwoClass
	threeClass signal.ThreeClass

	audit   *AuditLogger
	metrics drepo.Metrics
	l       *applogger.Logger
	now     func() time.Time

	initMu    sync.Mutex
	mu        sync.RWMutex
	predictor service.Predictor
	readiness Readiness
}

func NewEngine(
	cfg *config.Config,
	load PredictorLoader,
	audit *AuditLogger,
	metrics drepo.Metrics,
	l *applogger.Logger,
) (*Engine, error) {
	ind, err := features.NewIndicatorPreparer(cfg.Features.Columns, cfg.Features.MinCandles)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	if audit == nil {
		audit = NewAuditLogger(nil, metrics, l, cfg.Audit.Timeout)
	}

	return &Engine{
		variant:    cfg.Variant,
		auditTable: cfg.Audit.Table,
		timeout:    cfg.Model.Timeout,
		load:       load,
		indicator:  ind,
		window:     features.NewWindowPreparer(cfg.Features.TimeStep),
		twoClass:   signal.TwoClass{Buy: cfg.Signal.BuyThreshold},
		threeClass: signal.ThreeClass{Buy: cfg.Signal.BuyThreshold, Sell: cfg.Signal.SellThreshold},
		audit:      audit,
		metrics:    metrics,
		l:          l,
		now:        time.Now,
	}, nil
}

func (e *Engine) Variant() string {
	return e.variant
}

// Initialize loads the predictor and checks that its input width matches the
// features of the configured variant. It does nothing once the engine is ready;
// a failed attempt leaves the engine uninitialized.
func (e *Engine) Initialize(ctx context.Context) Readiness {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if r := e.Readiness(); r.Ready {
		return r
	}

	r := Readiness{AuditSink: e.audit.SinkName(), Audit: e.audit.Enabled()}

	p, err := e.load(ctx)
	if err == nil && p == nil {
		err = errors.New("loader returned no predictor")
	}
	if err == nil {
		if want := e.inputSize(); p.InputSize() != want {
			err = fmt.Errorf("model %s takes %d inputs, %s features produce %d",
				p.Name(), p.InputSize(), e.variant, want)
		}
	}
	if err != nil {
		r.Err = err
		e.mu.Lock()
		e.readiness = r
		e.mu.Unlock()
		e.metrics.SetModelReady(false)
		e.l.Error("model not loaded", applogger.Error(err))
		return r
	}

	r.Ready = true
	r.Model = p.Name()
	e.mu.Lock()
	e.predictor = p
	e.readiness = r
	e.mu.Unlock()
	e.metrics.SetModelReady(true)
	e.l.Info("model loaded",
		applogger.String("model", p.Name()),
		applogger.String("variant", e.variant),
		applogger.Int("inputs", p.InputSize()),
		applogger.Bool("audit", r.Audit),
	)
	return r
}

// Readiness returns the result of the last Initialize.
func (e *Engine) Readiness() Readiness {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readiness
}

func (e *Engine) Ready() bool {
	return e.Readiness().Ready
}

// Indicator predicts from a candle window.
func (e *Engine) Indicator(ctx context.Context, candles []models.Candle) (models.PredictionResult, error) {
	p, err := e.current()
	if err != nil {
		return models.PredictionResult{}, err
	}

	fv, err := e.indicator.Prepare(candles)
	if err != nil {
		e.metrics.RecordError("invalid_input")
		return models.PredictionResult{}, err
	}

	res, err := e.predict(ctx, p, models.NewTensor(fv.Values, 1, len(fv.Values)), e.twoClass)
	if err != nil {
		return models.PredictionResult{}, err
	}

	last := candles[len(candles)-1].Time
	e.audit.Dispatch(models.NewIndicatorRecord(e.auditTable, last, res, fv))
	return res, nil
}

// Window predicts from the price-window payload. raw is the decoded request
// body and is stored as is in the audit row.
func (e *Engine) Window(ctx context.Context, req *models.WindowRequest, raw map[string]interface{}) (models.PredictionResult, error) {
	p, err := e.current()
	if err != nil {
		return models.PredictionResult{}, err
	}

	prices, err := features.ParsePrices(req.Prices)
	if err != nil {
		e.metrics.RecordError("invalid_input")
		return models.PredictionResult{}, err
	}
	tensor, err := e.window.Prepare(prices)
	if err != nil {
		e.metrics.RecordError("invalid_input")
		return models.PredictionResult{}, err
	}

	res, err := e.predict(ctx, p, tensor, e.threeClass)
	if err != nil {
		return models.PredictionResult{}, err
	}

	e.audit.Dispatch(models.NewWindowRecord(e.auditTable, e.now(), req, res, raw))
	return res, nil
}

func (e *Engine) current() (service.Predictor, error) {
	e.mu.RLock()
	p := e.predictor
	e.mu.RUnlock()
	if p == nil {
		e.metrics.RecordError("model_not_loaded")
		return nil, domain.ErrModelNotLoaded
	}
	return p, nil
}

func (e *Engine) inputSize() int {
	if e.variant == config.VariantWindow {
		return e.window.Size()
	}
	return e.indicator.Size()
}

func (e *Engine) predict(ctx context.Context, p service.Predictor, in models.Tensor, mapper signal.Mapper) (models.PredictionResult, error) {
	if len(in.Data) != p.InputSize() {
		e.metrics.RecordError("prediction")
		return models.PredictionResult{}, fmt.Errorf("%w: %d inputs for a model of %d",
			domain.ErrPrediction, len(in.Data), p.InputSize())
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	prob, err := p.Predict(ctx, in)
	e.metrics.RecordLatency("predict", time.Since(start).Seconds())
	if err != nil {
		e.metrics.RecordError("prediction")
		return models.PredictionResult{}, fmt.Errorf("%w: %v", domain.ErrPrediction, err)
	}
	if !util.Finite(prob) || prob < 0 || prob > 1 {
		e.metrics.RecordError("prediction")
		return models.PredictionResult{}, fmt.Errorf("%w: probability %v out of range", domain.ErrPrediction, prob)
	}

	label := mapper.Map(prob)
	e.metrics.RecordPrediction(e.variant, string(label))
	return models.PredictionResult{
		Probability: prob,
		Label:       label,
		Confidence:  util.Round(prob, 4),
		Timestamp:   e.now(),
	}, nil
}
