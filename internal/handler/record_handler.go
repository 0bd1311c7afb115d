package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	"github.com/noah-isme/cavy-ledger/internal/service"
)

type weaningService interface {
	View(ctx context.Context) *dto.FormView
	Record(ctx context.Context, form service.WeaningForm) (*models.WeaningEvent, error)
}

type deathService interface {
	View(ctx context.Context) *dto.FormView
	Record(ctx context.Context, form service.DeathForm) (*models.PostWeaningDeathEvent, error)
}

type saleService interface {
	View(ctx context.Context) *dto.FormView
	Record(ctx context.Context, form service.SaleForm) (*models.Sale, error)
}

type expenseService interface {
	View(ctx context.Context) *dto.FormView
	Record(ctx context.Context, form service.ExpenseForm) (*models.Expense, error)
}

// RecordServices groups the services behind the simple record forms.
type RecordServices struct {
	Weanings weaningService
	Deaths   deathService
	Sales    saleService
	Expenses expenseService
}

// RecordHandler serves the weaning, death, sale and expense forms.
type RecordHandler struct {
	svc  RecordServices
	form FormResponder
}

// NewRecordHandler constructs the handler.
func NewRecordHandler(svc RecordServices, form FormResponder) *RecordHandler {
	return &RecordHandler{svc: svc, form: form}
}

// WeaningView godoc
// @Summary Weaning form with today, month and total counters
// @Tags Weaning
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /weaning [get]
func (h *RecordHandler) WeaningView(c *gin.Context) {
	h.form.show(c, h.svc.Weanings.View(c.Request.Context()))
}

// Weaning godoc
// @Summary Record a weaning
// @Tags Weaning
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.WeaningForm true "Weaning"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /weaning [post]
func (h *RecordHandler) Weaning(c *gin.Context) {
	var form service.WeaningForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.svc.Weanings.View(c.Request.Context()), form, err)
		return
	}
	w, err := h.svc.Weanings.Record(c.Request.Context(), form)
	if err != nil {
		h.form.rejected(c, h.svc.Weanings.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/weaning", fmt.Sprintf("%d animals weaned at %s-%s", w.Total(), w.Enclosure, w.Pen), w)
}

// DeathView godoc
// @Summary Post-weaning death form
// @Tags Deaths
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /deaths [get]
func (h *RecordHandler) DeathView(c *gin.Context) {
	h.form.show(c, h.svc.Deaths.View(c.Request.Context()))
}

// Death godoc
// @Summary Record post-weaning deaths
// @Tags Deaths
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.DeathForm true "Deaths"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /deaths [post]
func (h *RecordHandler) Death(c *gin.Context) {
	var form service.DeathForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.svc.Deaths.View(c.Request.Context()), form, err)
		return
	}
	d, err := h.svc.Deaths.Record(c.Request.Context(), form)
	if err != nil {
		h.form.rejected(c, h.svc.Deaths.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/deaths", fmt.Sprintf("%d deaths recorded at %s-%s", d.Total(), d.Enclosure, d.Pen), d)
}

// SaleView godoc
// @Summary Sales form with counters
// @Tags Sales
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sales [get]
func (h *RecordHandler) SaleView(c *gin.Context) {
	h.form.show(c, h.svc.Sales.View(c.Request.Context()))
}

// Sale godoc
// @Summary Record a weaned or cull sale
// @Tags Sales
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.SaleForm true "Sale"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /sales [post]
func (h *RecordHandler) Sale(c *gin.Context) {
	var form service.SaleForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.svc.Sales.View(c.Request.Context()), form, err)
		return
	}
	sale, err := h.svc.Sales.Record(c.Request.Context(), form)
	if err != nil {
		h.form.rejected(c, h.svc.Sales.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/sales", fmt.Sprintf("%s sale of %d animals recorded", sale.SaleType, sale.AnimalCount()), sale)
}

// ExpenseView godoc
// @Summary Expense form
// @Tags Expenses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /expenses [get]
func (h *RecordHandler) ExpenseView(c *gin.Context) {
	h.form.show(c, h.svc.Expenses.View(c.Request.Context()))
}

// Expense godoc
// @Summary Record an expense
// @Tags Expenses
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body service.ExpenseForm true "Expense"
// @Success 201 {object} response.Envelope
// @Success 303
// @Router /expenses [post]
func (h *RecordHandler) Expense(c *gin.Context) {
	var form service.ExpenseForm
	if err := bindForm(c, &form); err != nil {
		h.form.rejected(c, h.svc.Expenses.View(c.Request.Context()), form, err)
		return
	}
	e, err := h.svc.Expenses.Record(c.Request.Context(), form)
	if err != nil {
		h.form.rejected(c, h.svc.Expenses.View(c.Request.Context()), form, err)
		return
	}
	h.form.saved(c, "/expenses", fmt.Sprintf("Expense %q recorded", e.Description), e)
}
