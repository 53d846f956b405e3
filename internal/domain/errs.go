package domain

import "errors"

var (
	// ErrModelNotLoaded is returned for every request while the engine is not ready.
	ErrModelNotLoaded = errors.New("model not loaded")
	ErrInvalidInput   = errors.New("invalid input")
	ErrPrediction     = errors.New("prediction failed")
	// ErrAudit never reaches a client; audit failures are logged.
	ErrAudit = errors.New("audit write failed")
)
