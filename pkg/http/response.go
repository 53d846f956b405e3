package http

import (
	"github.com/labstack/echo/v4"
)

// ErrorRenderer turns an AppError into the response body a route exposes.
type ErrorRenderer func(*AppError) interface{}

// JSONResponse writes body as JSON with the given status.
func JSONResponse(c echo.Context, status int, body interface{}) error {
	return c.JSON(status, body)
}

// AppErrorResponse writes err using render; non-AppErrors become 500s.
func AppErrorResponse(c echo.Context, err error, render ErrorRenderer) error {
	appErr := AsAppError(err)
	return c.JSON(appErr.Status, render(appErr))
}

// HealthResponse is the body of readiness checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
