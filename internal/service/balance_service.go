package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
	"github.com/noah-isme/cavy-ledger/pkg/export"
)

type incomeTotaler interface {
	IncomeTotals(ctx context.Context) (models.SaleTotals, error)
}

type expenseTotaler interface {
	Total(ctx context.Context) (decimal.Decimal, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// BalanceService computes income minus expenses.
type BalanceService struct {
	sales    incomeTotaler
	expenses expenseTotaler
	pdf      pdfRenderer
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewBalanceService constructs the service.
func NewBalanceService(sales incomeTotaler, expenses expenseTotaler, pdf pdfRenderer, currency string, logger *zap.Logger) *BalanceService {
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceService{sales: sales, expenses: expenses, pdf: pdf, currency: currency, logger: logger, now: time.Now}
}

// Balance returns weaned and cull income, expenses and the difference.
func (s *BalanceService) Balance(ctx context.Context) (*dto.Balance, error) {
	income, err := s.sales.IncomeTotals(ctx)
	if err != nil {
		s.logger.Error("load sale totals failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load income")
	}
	spent, err := s.expenses.Total(ctx)
	if err != nil {
		s.logger.Error("load expense total failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expenses")
	}
	total := income.Weaned.Add(income.Cull)
	return &dto.Balance{
		Currency:     s.currency,
		WeanedIncome: income.Weaned,
		CullIncome:   income.Cull,
		TotalIncome:  total,
		Expenses:     spent,
		Balance:      total.Sub(spent),
	}, nil
}

// PDF renders the balance sheet.
func (s *BalanceService) PDF(ctx context.Context) ([]byte, error) {
	b, err := s.Balance(ctx)
	if err != nil {
		return nil, err
	}
	money := func(d decimal.Decimal) string { return d.StringFixed(2) + " " + b.Currency }
	doc := export.Document{
		Title:    "Balance",
		Subtitle: "Generated " + s.now().UTC().Format("2006-01-02 15:04 MST"),
		Sections: []export.Dataset{{
			Name:    "Summary",
			Headers: []string{"Concept", "Amount"},
			Rows: []map[string]string{
				{"Concept": "Weaned sales", "Amount": money(b.WeanedIncome)},
				{"Concept": "Cull sales", "Amount": money(b.CullIncome)},
				{"Concept": "Total income", "Amount": money(b.TotalIncome)},
				{"Concept": "Expenses", "Amount": money(b.Expenses)},
				{"Concept": "Balance", "Amount": money(b.Balance)},
			},
		}},
	}
	out, err := s.pdf.Render(doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render balance")
	}
	return out, nil
}
