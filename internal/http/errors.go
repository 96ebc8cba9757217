package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gigflow.com/gigflow/internal/exceptions"
)

// errorResponse turns a service error into an HTTP error. Exceptions keep
// their kind and sentinel message and say whether resubmitting may succeed;
// anything else is logged and reported as a bare 500.
func (h *Handler) errorResponse(c echo.Context, err error) error {
	var appErr *exceptions.Exception
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			h.log.Debug("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return echo.NewHTTPError(appErr.StatusCode, echo.Map{
			"kind":      appErr.Kind,
			"message":   appErr.Message,
			"retryable": exceptions.Retryable(err),
		})
	}

	h.log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
		"kind":      exceptions.KindInternal,
		"message":   "internal server error",
		"retryable": false,
	})
}
