package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "gigflow.com/gigflow/internal/http/middlewares"
	"gigflow.com/gigflow/internal/http/validators"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Validator = validators.New()
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/gigs", h.ListGigs)

	api.POST("/gigs", h.CreateGig, middleware.RequireIdentity)
	api.GET("/gigs/mine", h.ListMyGigs, middleware.RequireIdentity)
	api.GET("/gigs/:gigId", h.GetGig)
	api.PATCH("/gigs/:gigId/bids/:bidId/hire", h.HireBidForGig, middleware.RequireIdentity)

	api.POST("/bids", h.CreateBid, middleware.RequireIdentity)
	api.GET("/bids/mine", h.ListMyBids, middleware.RequireIdentity)
	api.GET("/bids/:gigId", h.ListGigBids, middleware.RequireIdentity)
	api.PATCH("/bids/:bidId/hire", h.HireBid, middleware.RequireIdentity)

	api.GET("/notifications/stream", h.StreamNotifications, middleware.RequireIdentity)
}
