package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	"github.com/noah-isme/cavy-ledger/internal/service"
	"github.com/noah-isme/cavy-ledger/pkg/response"
)

type birthService interface {
	View(ctx context.Context) *dto.FormView
	Record(ctx context.Context, form service.BirthForm) (*service.BirthResult, error)
	Search(ctx context.Context, filter models.BirthFilter) ([]models.BirthEvent, error)
	Get(ctx context.Context, id int64) (*models.BirthEvent, error)
	Update(ctx context.Context, id int64, form service.BirthForm) (*models.BirthEvent, error)
}

// birthSubmission is the POST /births payload; Action "search" runs a search
// instead of recording a litter.
type birthSubmission struct {
	Action string `json:"action" form:"action"`
	service.BirthForm
}

// BirthHandler records, searches and edits litters.
type BirthHandler struct {
	service birthService
	form    FormResponder
}

// NewBirthHandler constructs the handler.
func NewBirthHandler(service birthService, form FormResponder) *BirthHandler {
	return &BirthHandler{service: service, form: form}
}

// View godoc
// @Summary Birth form
// @Tags Births
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /births [get]
func (h *BirthHandler) View(c *gin.Context) {
	h.form.show(c, h.service.View(c.Request.Context()))
}

// Submit godoc
// @Summary Record a litter or search births
// @Description A repeat submission for the same enclosure, pen and litter number adds to the stored counts.
// @Tags Births
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.BirthForm true "Litter"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /births [post]
func (h *BirthHandler) Submit(c *gin.Context) {
	var sub birthSubmission
	if err := bindForm(c, &sub); err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), sub.BirthForm, err)
		return
	}
	if strings.EqualFold(strings.TrimSpace(sub.Action), "search") {
		h.search(c, models.BirthFilter{Enclosure: strings.TrimSpace(sub.Enclosure), Pen: strings.TrimSpace(sub.Pen)})
		return
	}

	result, err := h.service.Record(c.Request.Context(), sub.BirthForm)
	if err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), sub.BirthForm, err)
		return
	}
	message := fmt.Sprintf("Litter %d recorded at %s", result.Birth.LitterNumber, result.Birth.Location())
	if !result.Created {
		message = fmt.Sprintf("Litter %d at %s updated, %d born in total", result.Birth.LitterNumber, result.Birth.Location(), result.Birth.BornCount)
	}
	h.form.saved(c, "/births", message, result)
}

// Search godoc
// @Summary Search births by location
// @Tags Births
// @Produce json
// @Param enclosure query string false "Enclosure"
// @Param pen query string false "Pen"
// @Success 200 {object} response.Envelope
// @Router /births/search [get]
func (h *BirthHandler) Search(c *gin.Context) {
	h.search(c, models.BirthFilter{
		Enclosure: strings.TrimSpace(c.Query("enclosure")),
		Pen:       strings.TrimSpace(c.Query("pen")),
	})
}

func (h *BirthHandler) search(c *gin.Context, filter models.BirthFilter) {
	births, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := h.service.View(c.Request.Context())
	view.Form = filter
	view.Records = births
	h.form.show(c, view)
}

// Edit godoc
// @Summary Load a birth for editing
// @Tags Births
// @Produce json
// @Param id path int true "Birth ID"
// @Success 200 {object} response.Envelope
// @Router /births/{id}/edit [get]
func (h *BirthHandler) Edit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	birth, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	view := h.service.View(c.Request.Context())
	view.Records = birth
	h.form.show(c, view)
}

// Update godoc
// @Summary Replace the counts of a birth
// @Tags Births
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Birth ID"
// @Param payload body service.BirthForm true "Litter"
// @Success 201 {object} response.Envelope
// @Router /births/{id}/edit [post]
func (h *BirthHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var form service.BirthForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	birth, err := h.service.Update(c.Request.Context(), id, form)
	if err != nil {
		if isNotFound(err) {
			response.Error(c, err)
			return
		}
		h.form.rejected(c, h.service.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/births/search", fmt.Sprintf("Birth %d updated", birth.ID), birth)
}
