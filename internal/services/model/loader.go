package model

import (
	"context"
	"fmt"

	"SignalAPI/internal/domain/service"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"
)

// Load builds the predictor selected by cfg.Model.Backend.
func Load(ctx context.Context, cfg *config.Config) (service.Predictor, error) {
	var p service.Predictor

	switch cfg.Model.Backend {
	case config.BackendFile:
		n, err := LoadNetwork(cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		p = n
	case config.BackendTFServing:
		s := NewTFServing(cfg.Model.ServingURL, cfg.Model.ServingModel, cfg.ModelInputSize(),
			xhttp.NewClient(xhttp.WithTimeout(cfg.Model.Timeout)))
		if err := s.Ping(ctx); err != nil {
			return nil, err
		}
		p = s
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Model.Backend)
	}

	if cfg.Model.Serialize {
		p = NewSerialized(p)
	}
	return p, nil
}
