package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"SignalAPI/internal/usecase"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"
	applogger "SignalAPI/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	engine     *usecase.Engine
	audit      *usecase.AuditLogger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.Engine,
	audit *usecase.AuditLogger,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		engine:     engine,
		audit:      audit,
		httpServer: httpServer,
	}
}

// Initialize loads the model. A failure is logged and the app keeps serving
// so the health check can report it.
func (a *App) Initialize(ctx context.Context) usecase.Readiness {
	r := a.engine.Initialize(ctx)
	if !r.Ready {
		a.l.Warn("serving without a model", applogger.Error(r.Err))
	}
	return r
}

// ServeHTTP serves one request through the router without starting a listener.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.httpServer.ServeHTTP(w, r)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := a.Initialize(ctx)
	a.l.Info("starting signal api",
		applogger.String("env", a.cfg.Environment),
		applogger.String("variant", a.cfg.Variant),
		applogger.Bool("model_ready", r.Ready),
		applogger.String("audit_sink", r.AuditSink),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops accepting requests, then drains pending audit writes.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.audit.Close(); err != nil {
		a.l.Warn("audit sink close error", applogger.Error(err))
	}

	a.l.Info("shutdown complete")
	return nil
}
