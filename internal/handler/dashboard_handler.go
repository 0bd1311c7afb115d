package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/middleware"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, bool, error)
}

// DashboardHandler serves the aggregated per-location dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Index godoc
// @Summary Dashboard summary per enclosure and pen
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *DashboardHandler) Index(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetDegraded(c, summary.Degraded)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}
