package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	"github.com/noah-isme/cavy-ledger/internal/service"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type stockService interface {
	View(ctx context.Context) *dto.FormView
	Create(ctx context.Context, form service.StockForm) (*models.BreedingStockEntry, error)
	Get(ctx context.Context, id int64) (*models.BreedingStockEntry, error)
	Update(ctx context.Context, id int64, form service.StockForm) (*models.BreedingStockEntry, error)
}

// StockHandler registers and edits breeding stock.
type StockHandler struct {
	service stockService
	form    FormResponder
}

// NewStockHandler constructs the handler.
func NewStockHandler(service stockService, form FormResponder) *StockHandler {
	return &StockHandler{service: service, form: form}
}

// New godoc
// @Summary Breeding stock registration form
// @Tags Stock
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stock/new [get]
func (h *StockHandler) New(c *gin.Context) {
	h.form.show(c, h.service.View(c.Request.Context()))
}

// Create godoc
// @Summary Register breeding stock
// @Tags Stock
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.StockForm true "Stock entry"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /stock/new [post]
func (h *StockHandler) Create(c *gin.Context) {
	var form service.StockForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	entry, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/stock/new", fmt.Sprintf("Breeding stock registered at %s", entry.Location()), entry)
}

// Edit godoc
// @Summary Load a breeding stock entry for editing
// @Tags Stock
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /stock/{id}/edit [get]
func (h *StockHandler) Edit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := h.service.View(c.Request.Context())
	view.Records = entry
	h.form.show(c, view)
}

// Update godoc
// @Summary Update a breeding stock entry
// @Tags Stock
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Entry ID"
// @Param payload body service.StockForm true "Stock entry"
// @Success 201 {object} response.Envelope
// @Router /stock/{id}/edit [post]
func (h *StockHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var form service.StockForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	entry, err := h.service.Update(c.Request.Context(), id, form)
	if err != nil {
		if isNotFound(err) {
			response.Error(c, err)
			return
		}
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/report", fmt.Sprintf("Breeding stock %d updated", entry.ID), entry)
}

func isNotFound(err error) bool {
	return response.StatusOf(err) == http.StatusNotFound
}
