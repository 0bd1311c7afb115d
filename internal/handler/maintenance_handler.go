package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type maintenanceService interface {
	DeleteAll(ctx context.Context, passphrase string) error
	Health(ctx context.Context) error
}

type exportService interface {
	Workbook(ctx context.Context) ([]byte, error)
}

type deleteAllRequest struct {
	Passphrase string `json:"passphrase" form:"passphrase"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaintenanceHandler serves the wipe, export and health endpoints.
type MaintenanceHandler struct {
	maintenance maintenanceService
	export      exportService
	form        FormResponder
}

// NewMaintenanceHandler constructs the handler.
func NewMaintenanceHandler(maintenance maintenanceService, export exportService, form FormResponder) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, export: export, form: form}
}

// DeleteAll godoc
// @Summary Delete every record
// @Description Requires the configured passphrase. A wrong passphrase changes nothing.
// @Tags Maintenance
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body deleteAllRequest true "Passphrase"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /delete-all [post]
func (h *MaintenanceHandler) DeleteAll(c *gin.Context) {
	var req deleteAllRequest
	if err := bindForm(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.maintenance.DeleteAll(c.Request.Context(), req.Passphrase); err != nil {
		response.Error(c, err)
		return
	}
	if wantsJSON(c) {
		response.JSON(c, http.StatusOK, dto.Notice{Level: "success", Message: "All records deleted"})
		return
	}
	h.form.saved(c, "/", "All records deleted", nil)
}

// Export godoc
// @Summary Spreadsheet with one sheet per table
// @Tags Maintenance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /export.xlsx [get]
func (h *MaintenanceHandler) Export(c *gin.Context) {
	data, err := h.export.Workbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, "cavy-ledger.xlsx", xlsxContentType, data)
}

// Health godoc
// @Summary Liveness check against the database
// @Tags Maintenance
// @Produce plain
// @Success 200 {string} string
// @Failure 500 {string} string
// @Router /health [get]
func (h *MaintenanceHandler) Health(c *gin.Context) {
	if err := h.maintenance.Health(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "Database connection failed: %s", err.Error())
		return
	}
	c.String(http.StatusOK, "Application and database: OK")
}
