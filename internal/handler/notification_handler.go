package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (*dto.MarkAllReadResult, error)
	Generate(ctx context.Context) (*dto.GenerateNotificationsResult, error)
}

// NotificationHandler exposes the JSON notification API.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary Unread notifications, most urgent first
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum items (default 20)"
// @Success 200 {object} response.Envelope
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, appErrors.Validation(map[string]string{"limit": "must be a positive integer"}))
			return
		}
		limit = n
	}
	items, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	result, err := h.service.MarkAllRead(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Generate godoc
// @Summary Run the detection rules now
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/notifications/generate [post]
func (h *NotificationHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
