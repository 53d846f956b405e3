// Package handler is the serverless entry point. The platform calls Handler
// for every request; the app is built on the first one.
package handler

import (
	"context"
	"net/http"
	"sync"

	"SignalAPI/internal/di"
	"SignalAPI/pkg/config"
	"SignalAPI/pkg/server"
)

var (
	once    sync.Once
	app     *server.App
	initErr error
)

func boot() {
	cfg, err := config.FromEnv()
	if err != nil {
		initErr = err
		return
	}
	// the platform freezes the process between requests, so the cleanup
	// function has nowhere to run
	app, _, initErr = di.InitializeApp(cfg)
	if initErr != nil {
		return
	}
	app.Initialize(context.Background())
}

// Handler serves one request.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(boot)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"ERROR","message":"API offline or model not loaded"}`))
		return
	}
	app.ServeHTTP(w, r)
}
