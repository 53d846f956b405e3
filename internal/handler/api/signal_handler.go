package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"SignalAPI/internal/domain"
	"SignalAPI/internal/domain/models"
	"SignalAPI/internal/usecase"
	"SignalAPI/pkg/config"
	xhttp "SignalAPI/pkg/http"
	xlogger "SignalAPI/pkg/logger"

	"github.com/labstack/echo/v4"
)

const maxWindowBody = 4 << 20

// SignalHandler serves the health check and the prediction route of the
// configured variant.
type SignalHandler struct {
	engine         *usecase.Engine
	logger         *xlogger.Logger
	exposeInternal bool
}

func NewSignalHandler(engine *usecase.Engine, logger *xlogger.Logger, cfg *config.Config) *SignalHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SignalHandler{
		engine:         engine,
		logger:         logger,
		exposeInternal: cfg.Server.ExposeInternalErrors,
	}
}

func (h *SignalHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	if h.engine.Variant() == config.VariantWindow {
		e.POST("/", h.Window)
		return
	}
	e.POST("/signal", h.Indicator)
}

func (h *SignalHandler) Health(c echo.Context) error {
	r := h.engine.Readiness()
	switch {
	case r.Ready && r.Audit:
		return xhttp.JSONResponse(c, http.StatusOK, xhttp.HealthResponse{
			Status:  "OK",
			Message: "API ready, audit logging connected (" + r.AuditSink + ")",
		})
	case r.Ready:
		return xhttp.JSONResponse(c, http.StatusOK, xhttp.HealthResponse{
			Status:  "OK",
			Message: "API ready, model loaded, audit logging disconnected",
		})
	default:
		return xhttp.JSONResponse(c, http.StatusInternalServerError, xhttp.HealthResponse{
			Status:  "ERROR",
			Message: "API offline or model not loaded",
		})
	}
}

func (h *SignalHandler) Indicator(c echo.Context) error {
	if !h.engine.Ready() {
		return h.fail(c, domain.ErrModelNotLoaded, indicatorErrors)
	}

	req := &models.IndicatorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.fail(c, verr, indicatorErrors)
	}

	res, err := h.engine.Indicator(c.Request().Context(), req.ToCandles())
	if err != nil {
		return h.fail(c, err, indicatorErrors)
	}
	return xhttp.JSONResponse(c, http.StatusOK, models.IndicatorResponse{
		Signal:      res.Label.IndicatorWire(),
		Probability: res.Confidence,
	})
}

func (h *SignalHandler) Window(c echo.Context) error {
	if !h.engine.Ready() {
		return h.fail(c, domain.ErrModelNotLoaded, windowErrors)
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWindowBody))
	if err != nil {
		return h.fail(c, xhttp.BadRequestError("could not read request body").WithError(err), windowErrors)
	}

	// the raw object is logged alongside the prediction
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return h.fail(c, xhttp.BadRequestError("request body must be a JSON object").WithError(err), windowErrors)
	}
	req := &models.WindowRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		return h.fail(c, xhttp.BadRequestErrorf("invalid request: %v", err), windowErrors)
	}
	if verr := xhttp.ValidateStruct(c.Request().Context(), req); verr != nil {
		return h.fail(c, verr, windowErrors)
	}

	res, err := h.engine.Window(c.Request().Context(), req, raw)
	if err != nil {
		return h.fail(c, err, windowErrors)
	}
	return xhttp.JSONResponse(c, http.StatusOK, models.WindowResponse{
		Signal:     string(res.Label),
		Confidence: res.Confidence,
	})
}

func (h *SignalHandler) fail(c echo.Context, err error, style errorStyle) error {
	appErr := h.toAppError(err, style)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("signal request failed",
			xlogger.String("path", c.Path()),
			xlogger.String("code", appErr.Code),
			xlogger.Error(err),
		)
	} else {
		h.logger.Debug("signal request rejected",
			xlogger.String("path", c.Path()),
			xlogger.String("reason", appErr.Message),
		)
	}
	return xhttp.AppErrorResponse(c, appErr, style.render)
}

func (h *SignalHandler) toAppError(err error, style errorStyle) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs xhttp.ValidationErrors
	if errors.As(err, &verrs) {
		e := xhttp.BadRequestError(verrs.Error()).WithError(err)
		if len(verrs) > 0 {
			e.Field = verrs[0].Field
			for k, v := range verrs[0].Params {
				e.WithParam(k, v)
			}
		}
		return e
	}

	switch {
	case errors.Is(err, domain.ErrModelNotLoaded):
		return style.modelNotLoaded()
	case errors.Is(err, domain.ErrInvalidInput):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	}

	if h.exposeInternal {
		return xhttp.InternalErrorf("internal error processing the request: %v", err).WithError(err)
	}
	return xhttp.InternalError("internal error processing the request").WithError(err)
}
