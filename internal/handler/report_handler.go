package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/middleware"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type reportService interface {
	Report(ctx context.Context) (*dto.Report, error)
	MonthlyCSV(ctx context.Context) ([]byte, error)
}

type projectionService interface {
	Project(ctx context.Context, months int) (*dto.Projection, error)
	DefaultMonths() int
}

type balanceService interface {
	Balance(ctx context.Context) (*dto.Balance, error)
	PDF(ctx context.Context) ([]byte, error)
}

// ReportHandler serves the cross-table report, projections and balance.
type ReportHandler struct {
	reports     reportService
	projections projectionService
	balance     balanceService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService, projections projectionService, balance balanceService) *ReportHandler {
	return &ReportHandler{reports: reports, projections: projections, balance: balance}
}

// Report godoc
// @Summary Full listing of every table with monthly aggregates and projection
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /report [get]
func (h *ReportHandler) Report(c *gin.Context) {
	report, err := h.reports.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetDegraded(c, report.Degraded)
	response.JSON(c, http.StatusOK, report, middleware.ExtractMeta(c))
}

// MonthlyCSV godoc
// @Summary Monthly aggregates as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file
// @Router /report.csv [get]
func (h *ReportHandler) MonthlyCSV(c *gin.Context) {
	data, err := h.reports.MonthlyCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, "monthly-report.csv", "text/csv; charset=utf-8", data)
}

// Projections godoc
// @Summary Linear trend projection of deaths, births and revenue
// @Tags Reports
// @Produce json
// @Param months query int false "Months to project (default from configuration)"
// @Success 200 {object} response.Envelope
// @Router /projections [get]
func (h *ReportHandler) Projections(c *gin.Context) {
	months := h.projections.DefaultMonths()
	if raw := strings.TrimSpace(c.Query("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Validation(map[string]string{"months": "must be an integer"}))
			return
		}
		months = n
	}
	projection, err := h.projections.Project(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection)
}

// Balance godoc
// @Summary Income against expenses
// @Tags Balance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /balance [get]
func (h *ReportHandler) Balance(c *gin.Context) {
	balance, err := h.balance.Balance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance)
}

// BalancePDF godoc
// @Summary Balance sheet as PDF
// @Tags Balance
// @Produce application/pdf
// @Success 200 {file} file
// @Router /balance.pdf [get]
func (h *ReportHandler) BalancePDF(c *gin.Context) {
	data, err := h.balance.PDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, "balance.pdf", "application/pdf", data)
}
