package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, field)
}

func registeredLedger(t *testing.T, enclosure, pen string) (*memLedger, *LocationPolicy) {
	t.Helper()
	ledger := newMemLedger()
	stock := memStock{ledger}
	require.NoError(t, stock.Create(context.Background(), &models.BreedingStockEntry{Enclosure: enclosure, Pen: pen, Females: 4, Males: 1}))
	return ledger, NewLocationPolicy(stock, true, nil)
}

func TestStockCreateRejectsNegativeCounts(t *testing.T) {
	svc := NewStockService(memStock{newMemLedger()}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), StockForm{Enclosure: "1", Pen: "1", Females: intPtr(-1), Males: intPtr(2), StockAgeMonths: intPtr(1)})
	requireFieldError(t, err, "females")

	_, err = svc.Create(context.Background(), StockForm{Enclosure: " ", Pen: "1", Females: intPtr(1), Males: intPtr(2), StockAgeMonths: intPtr(1)})
	requireFieldError(t, err, "enclosure")

	_, err = svc.Create(context.Background(), StockForm{Enclosure: "1", Pen: "1", Females: intPtr(1), StockAgeMonths: intPtr(1)})
	requireFieldError(t, err, "males")
}

func TestStockUpdateKeepsIntakeDate(t *testing.T) {
	ledger := newMemLedger()
	svc := NewStockService(memStock{ledger}, nil, nil, nil, nil)
	created, err := svc.Create(context.Background(), StockForm{
		Enclosure: "1", Pen: "1", Females: intPtr(3), Males: intPtr(1), StockAgeMonths: intPtr(2), IntakeDate: "2024-02-01",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, StockForm{
		Enclosure: "1", Pen: "1", Females: intPtr(9), Males: intPtr(1), StockAgeMonths: intPtr(3), IntakeDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Females)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), updated.IntakeDate)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBirthRepeatLitterAccumulates(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewBirthService(memBirths{ledger}, policy, nil, nil, nil)

	first, err := svc.Record(context.Background(), BirthForm{Enclosure: "A", Pen: "1", LitterNumber: intPtr(3), BornCount: intPtr(5), BornDeadCount: intPtr(0), ParentDeathCount: intPtr(0)})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Record(context.Background(), BirthForm{Enclosure: "A", Pen: "1", LitterNumber: intPtr(3), BornCount: intPtr(2), BornDeadCount: intPtr(1), ParentDeathCount: intPtr(0)})
	require.NoError(t, err)
	assert.False(t, second.Created)

	rows, err := svc.Search(context.Background(), models.BirthFilter{Enclosure: "A", Pen: "1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].BornCount)
	assert.Equal(t, 1, rows[0].BornDeadCount)
}

func TestBirthUpdateReplacesCounts(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewBirthService(memBirths{ledger}, policy, nil, nil, nil)
	res, err := svc.Record(context.Background(), BirthForm{Enclosure: "A", Pen: "1", LitterNumber: intPtr(1), BornCount: intPtr(6), BornDeadCount: intPtr(0), ParentDeathCount: intPtr(0)})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), res.Birth.ID, BirthForm{Enclosure: "A", Pen: "1", LitterNumber: intPtr(1), BornCount: intPtr(2), BornDeadCount: intPtr(0), ParentDeathCount: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.BornCount)
}

func TestLocationPolicy(t *testing.T) {
	ledger, enforced := registeredLedger(t, "A", "1")
	form := WeaningForm{Enclosure: "Z", Pen: "9", WeanedFemales: intPtr(1), WeanedMales: intPtr(0)}

	_, err := NewWeaningService(memWeanings{ledger}, enforced, nil, nil, nil).Record(context.Background(), form)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnknownLocation)
	assert.Empty(t, ledger.weanings)

	relaxed := NewLocationPolicy(memStock{ledger}, false, nil)
	_, err = NewWeaningService(memWeanings{ledger}, relaxed, nil, nil, nil).Record(context.Background(), form)
	require.NoError(t, err)
	assert.Len(t, ledger.weanings, 1)
}

func TestLocationPolicyKnownIsSorted(t *testing.T) {
	ledger := newMemLedger()
	stock := memStock{ledger}
	for _, loc := range []models.Location{{Enclosure: "10", Pen: "1"}, {Enclosure: "2", Pen: "1"}, {Enclosure: "2", Pen: "1"}} {
		require.NoError(t, stock.Create(context.Background(), &models.BreedingStockEntry{Enclosure: loc.Enclosure, Pen: loc.Pen}))
	}

	known := NewLocationPolicy(stock, true, nil).Known(context.Background())
	assert.Equal(t, []models.Location{{Enclosure: "2", Pen: "1"}, {Enclosure: "10", Pen: "1"}}, known)
}

func TestWeaningRequiresAnAnimal(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewWeaningService(memWeanings{ledger}, policy, nil, nil, nil)

	_, err := svc.Record(context.Background(), WeaningForm{Enclosure: "A", Pen: "1", WeanedFemales: intPtr(0), WeanedMales: intPtr(0)})
	requireFieldError(t, err, "weanedFemales")
	assert.Empty(t, ledger.weanings)
}

func TestWeaningStatsUseCalendarBoundaries(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewWeaningService(memWeanings{ledger}, policy, nil, nil, nil)
	svc.now = fixedClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))

	for _, date := range []string{"2025-03-15", "2025-03-02", "2025-02-27"} {
		_, err := svc.Record(context.Background(), WeaningForm{Enclosure: "A", Pen: "1", WeanedFemales: intPtr(1), WeanedMales: intPtr(1), WeanDate: date})
		require.NoError(t, err)
	}

	stats := svc.Stats(context.Background())
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 4, stats.Month)
	assert.Equal(t, 6, stats.Total)
}

func TestDeathRecordValidates(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewDeathService(memDeaths{ledger}, policy, nil, nil, nil)

	_, err := svc.Record(context.Background(), DeathForm{Enclosure: "A", Pen: "1", DeadFemales: intPtr(1), DeadMales: intPtr(-2)})
	requireFieldError(t, err, "deadMales")

	_, err = svc.Record(context.Background(), DeathForm{Enclosure: "A", Pen: "1", DeadFemales: intPtr(1), DeadMales: intPtr(0), DeathDate: "15/03/2025"})
	requireFieldError(t, err, "deathDate")

	d, err := svc.Record(context.Background(), DeathForm{Enclosure: "A", Pen: "1", DeadFemales: intPtr(1), DeadMales: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Total())
}

func TestWeanedSaleRules(t *testing.T) {
	ledger := newMemLedger()
	svc := NewSaleService(memSales{ledger}, NewLocationPolicy(memStock{ledger}, true, nil), nil, nil, nil)

	_, err := svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(0), MalesSold: intPtr(0), Amount: "20"})
	requireFieldError(t, err, "femalesSold")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(2), Amount: "0"})
	requireFieldError(t, err, "amount")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(2), Amount: "-4"})
	requireFieldError(t, err, "amount")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(1), Amount: "0.004"})
	requireFieldError(t, err, "amount")
	assert.Empty(t, ledger.sales)

	sale, err := svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(2), MalesSold: intPtr(1), Amount: "45.505"})
	require.NoError(t, err)
	assert.Equal(t, 3, sale.AnimalCount())
	assert.True(t, decimal.RequireFromString("45.51").Equal(sale.SaleAmount))
}

func TestCullSaleRules(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewSaleService(memSales{ledger}, policy, nil, nil, nil)

	_, err := svc.Record(context.Background(), SaleForm{SaleType: "cull", AnimalsSold: intPtr(2), Amount: "80"})
	requireFieldError(t, err, "enclosure")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "cull", Enclosure: "A", Pen: "1", AnimalsSold: intPtr(0), Amount: "80"})
	requireFieldError(t, err, "animalsSold")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "cull", Enclosure: "A", Pen: "1", AnimalsSold: intPtr(2), Amount: "80", RelocateToFattening: true, FatteningEnclosure: "F"})
	requireFieldError(t, err, "fatteningPen")

	_, err = svc.Record(context.Background(), SaleForm{SaleType: "cull", Enclosure: "Q", Pen: "7", AnimalsSold: intPtr(2), Amount: "80"})
	assert.ErrorIs(t, err, appErrors.ErrUnknownLocation)

	sale, err := svc.Record(context.Background(), SaleForm{
		SaleType: "cull", Enclosure: "A", Pen: "1", AnimalsSold: intPtr(2), Amount: "80",
		RelocateToFattening: true, FatteningEnclosure: "F", FatteningPen: "2", RelocationDate: "2025-04-01", FatteningDays: intPtr(30),
	})
	require.NoError(t, err)
	require.NotNil(t, sale.RelocationDate)
	assert.Equal(t, "F", *sale.FatteningEnclosure)
	assert.Len(t, ledger.sales, 1)
}

func TestSaleTypeMustBeKnown(t *testing.T) {
	svc := NewSaleService(memSales{newMemLedger()}, nil, nil, nil, nil)
	_, err := svc.Record(context.Background(), SaleForm{SaleType: "gift", Amount: "1"})
	requireFieldError(t, err, "saleType")
}

func TestSalesStats(t *testing.T) {
	ledger, policy := registeredLedger(t, "A", "1")
	svc := NewSaleService(memSales{ledger}, policy, nil, nil, nil)
	svc.now = fixedClock(time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC))

	_, err := svc.Record(context.Background(), SaleForm{SaleType: "weaned", FemalesSold: intPtr(3), Amount: "30", SaleDate: "2025-05-20"})
	require.NoError(t, err)
	_, err = svc.Record(context.Background(), SaleForm{SaleType: "weaned", MalesSold: intPtr(2), Amount: "20", SaleDate: "2025-04-30"})
	require.NoError(t, err)
	_, err = svc.Record(context.Background(), SaleForm{SaleType: "cull", Enclosure: "A", Pen: "1", AnimalsSold: intPtr(1), Amount: "50.25", SaleDate: "2025-05-02"})
	require.NoError(t, err)

	stats := svc.Stats(context.Background())
	assert.Equal(t, 3, stats.WeanedToday)
	assert.Equal(t, 3, stats.WeanedMonth)
	assert.Equal(t, 5, stats.WeanedTotal)
	assert.Equal(t, 1, stats.CullMonth)
	assert.Equal(t, "100.25", stats.TotalIncome.StringFixed(2))
}

func TestExpenseRequiresPositiveAmount(t *testing.T) {
	ledger := newMemLedger()
	svc := NewExpenseService(memExpenses{ledger}, nil, nil, nil)

	_, err := svc.Record(context.Background(), ExpenseForm{Description: "hay", Amount: "abc", Category: "feed"})
	requireFieldError(t, err, "amount")

	_, err = svc.Record(context.Background(), ExpenseForm{Description: "hay", Amount: "0.00", Category: "feed"})
	requireFieldError(t, err, "amount")

	_, err = svc.Record(context.Background(), ExpenseForm{Description: "hay", Amount: "0.001", Category: "feed"})
	requireFieldError(t, err, "amount")
	assert.Empty(t, ledger.expenses)

	e, err := svc.Record(context.Background(), ExpenseForm{Description: "salt", Amount: "0.005", Category: "feed"})
	require.NoError(t, err)
	assert.Equal(t, "0.01", e.Amount.StringFixed(2))

	e, err = svc.Record(context.Background(), ExpenseForm{Description: "hay", Amount: "12.5", Category: "feed"})
	require.NoError(t, err)
	assert.Equal(t, "12.50", e.Amount.StringFixed(2))
}
