package api

import (
	"net/http"

	"SignalAPI/internal/domain/models"
	xhttp "SignalAPI/pkg/http"
)

// errorStyle is how one variant reports failures. Each keeps its historical
// status for a missing model: indicator clients see 500, window clients 503.
type errorStyle struct {
	render           xhttp.ErrorRenderer
	notLoadedStatus  int
	notLoadedMessage string
}

var (
	indicatorErrors = errorStyle{
		render: func(e *xhttp.AppError) interface{} {
			return models.IndicatorErrorResponse{Signal: "ERRO", Message: e.Message}
		},
		notLoadedStatus:  http.StatusInternalServerError,
		notLoadedMessage: "model not loaded",
	}
	windowErrors = errorStyle{
		render: func(e *xhttp.AppError) interface{} {
			return models.WindowErrorResponse{Error: e.Message}
		},
		notLoadedStatus:  http.StatusServiceUnavailable,
		notLoadedMessage: "AI model not loaded in the API",
	}
)

func (s errorStyle) modelNotLoaded() *xhttp.AppError {
	return xhttp.ModelNotLoadedError(s.notLoadedMessage, s.notLoadedStatus)
}
