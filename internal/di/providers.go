package di

import (
	"context"

	drepo "SignalAPI/internal/domain/repository"
	"SignalAPI/internal/domain/service"
	"SignalAPI/internal/handler/api"
	"SignalAPI/internal/repository"
	"SignalAPI/internal/services/model"
	"SignalAPI/internal/usecase"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"
	applogger "SignalAPI/pkg/logger"
	"SignalAPI/pkg/metrics"
	"SignalAPI/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger builds the application logger. With the collector enabled and
// brokers configured, aggregated error logs are shipped to Kafka; the cleanup
// flushes them and closes the producer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if cfg.Logging.Collector.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err := repository.NewKafkaProducer(cfg)
		if err != nil {
			l.Warn("log collector disabled", applogger.Error(err))
			return l, cleanup, nil
		}
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
		cleanup = func() {
			l.RemoveCollector()
			_ = producer.Close()
		}
	}
	return l, cleanup, nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry,
// which is what the /metrics route serves.
func ProvideMetrics() drepo.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideAuditSink connects the audit sink. Failing to connect disables
// auditing instead of failing startup.
func ProvideAuditSink(cfg *config.Config, l *applogger.Logger) drepo.AuditSink {
	sink, err := repository.OpenAuditSink(context.Background(), cfg, l)
	if err != nil {
		l.Error("audit sink unavailable, audit logging disabled",
			applogger.String("sink", cfg.Audit.Sink),
			applogger.Error(err),
		)
		return nil
	}
	if sink != nil {
		l.Info("audit sink connected",
			applogger.String("sink", sink.Name()),
			applogger.String("table", cfg.Audit.Table),
		)
	}
	return sink
}

// ProvideAuditLogger owns the sink from here on; its cleanup drains pending
// writes and closes the sink connection.
func ProvideAuditLogger(cfg *config.Config, sink drepo.AuditSink, m drepo.Metrics, l *applogger.Logger) (*usecase.AuditLogger, func()) {
	a := usecase.NewAuditLogger(sink, m, l, cfg.Audit.Timeout)
	return a, func() {
		if err := a.Close(); err != nil {
			l.Warn("audit sink close error", applogger.Error(err))
		}
	}
}

// ProvidePredictorLoader defers model loading to Engine.Initialize.
func ProvidePredictorLoader(cfg *config.Config) usecase.PredictorLoader {
	return func(ctx context.Context) (service.Predictor, error) {
		return model.Load(ctx, cfg)
	}
}

func ProvideEngine(
	cfg *config.Config,
	load usecase.PredictorLoader,
	audit *usecase.AuditLogger,
	m drepo.Metrics,
	l *applogger.Logger,
) (*usecase.Engine, error) {
	return usecase.NewEngine(cfg, load, audit, m, l)
}

// ProvideHTTPHandler creates the echo handler for the configured variant.
func ProvideHTTPHandler(engine *usecase.Engine, l *applogger.Logger, cfg *config.Config) xhttp.Handler {
	return api.NewSignalHandler(engine, l, cfg)
}

func ProvideHTTPServer(h xhttp.Handler, l *applogger.Logger, cfg *config.Config) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.Engine,
	audit *usecase.AuditLogger,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, engine, audit, srv)
}
