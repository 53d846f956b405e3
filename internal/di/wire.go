//go:build wireinject
// +build wireinject

package di

import (
	"SignalAPI/pkg/config"
	"SignalAPI/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Audit
		ProvideAuditSink,
		ProvideAuditLogger,

		// Inference
		ProvidePredictorLoader,
		ProvideEngine,

		// HTTP
		ProvideHTTPHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
