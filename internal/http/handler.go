package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "gigflow.com/gigflow/internal/data_models"
	middleware "gigflow.com/gigflow/internal/http/middlewares"
	"gigflow.com/gigflow/internal/notifications"
	"gigflow.com/gigflow/internal/services"
)

const defaultKeepAlive = 15 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	gigs      *services.GigService
	bids      *services.BidService
	hiring    *services.HiringService
	registry  *notifications.Registry
	health    Pinger
	log       *zap.Logger
	keepAlive time.Duration
}

func NewHandler(svcs *services.Services, registry *notifications.Registry, health Pinger, log *zap.Logger) *Handler {
	return &Handler{
		gigs:      svcs.Gigs,
		bids:      svcs.Bids,
		hiring:    svcs.Hiring,
		registry:  registry,
		health:    health,
		log:       log.Named("http"),
		keepAlive: defaultKeepAlive,
	}
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.health.Ping(c.Request().Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) CreateGig(c echo.Context) error {
	var req dto.CreateGigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	gig, err := h.gigs.CreateGig(c.Request().Context(), middleware.Identity(c), req.Title, req.Description, req.Budget)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Gig created successfully",
		"gig":     gig,
	})
}

func (h *Handler) ListGigs(c echo.Context) error {
	var query dto.ListGigsQuery
	if err := c.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	gigs, err := h.gigs.ListOpenGigs(c.Request().Context(), query.Search)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(gigs),
		"gigs":  gigs,
	})
}

func (h *Handler) GetGig(c echo.Context) error {
	gig, err := h.gigs.GetGig(c.Request().Context(), c.Param("gigId"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"gig": gig})
}

func (h *Handler) ListMyGigs(c echo.Context) error {
	gigs, err := h.gigs.ListOwnedGigs(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(gigs),
		"gigs":  gigs,
	})
}

func (h *Handler) CreateBid(c echo.Context) error {
	var req dto.CreateBidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bid, err := h.bids.SubmitBid(c.Request().Context(), req.GigID, middleware.Identity(c), req.Message, req.Price)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Bid submitted successfully",
		"bid":     bid,
	})
}

func (h *Handler) ListGigBids(c echo.Context) error {
	bids, err := h.bids.ListBidsForGig(c.Request().Context(), c.Param("gigId"), middleware.Identity(c))
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(bids),
		"bids":  bids,
	})
}

func (h *Handler) ListMyBids(c echo.Context) error {
	bids, err := h.bids.ListWorkerBids(c.Request().Context(), middleware.Identity(c))
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(bids),
		"bids":  bids,
	})
}

func (h *Handler) HireBid(c echo.Context) error {
	result, err := h.hiring.HireBid(c.Request().Context(), c.Param("bidId"), middleware.Identity(c))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.hired(c, result)
}

func (h *Handler) HireBidForGig(c echo.Context) error {
	result, err := h.hiring.Hire(c.Request().Context(), c.Param("gigId"), c.Param("bidId"), middleware.Identity(c))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.hired(c, result)
}

func (h *Handler) hired(c echo.Context, result *services.HireResult) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Freelancer hired successfully",
		"gig":      result.Gig,
		"bid":      result.Bid,
		"rejected": result.Rejected,
	})
}
