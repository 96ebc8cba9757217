package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID = "X-User-ID"
	identityKey  = "identity"
)

// RequireIdentity trusts the X-User-ID header as the requester identity.
// Requests without a valid UUID in it are rejected with 401.
func RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(HeaderUserID)
		id, err := uuid.Parse(raw)
		if raw == "" || err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid "+HeaderUserID+" header")
		}

		c.Set(identityKey, id.String())
		return next(c)
	}
}

// Identity returns the requester id stored by RequireIdentity, or "".
func Identity(c echo.Context) string {
	id, _ := c.Get(identityKey).(string)
	return id
}
