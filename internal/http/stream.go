package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	middleware "gigflow.com/gigflow/internal/http/middlewares"
	"gigflow.com/gigflow/internal/notifications"
)

// StreamNotifications holds the connection open as a Server-Sent Events
// stream and writes every hire event addressed to the requester.
func (h *Handler) StreamNotifications(c echo.Context) error {
	workerID := middleware.Identity(c)
	session := h.registry.Register(workerID)
	defer h.registry.Unregister(session)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-session.Done():
			return nil
		case event := <-session.Events():
			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error("failed to encode hire event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", notifications.EventBidHired, payload); err != nil {
				return nil
			}
			res.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
