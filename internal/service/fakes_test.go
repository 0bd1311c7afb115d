package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// memLedger keeps every record table in memory and answers the aggregate
// queries the way the SQL repositories do.
type memLedger struct {
	nextID   int64
	stock    []models.BreedingStockEntry
	births   []models.BirthEvent
	weanings []models.WeaningEvent
	deaths   []models.PostWeaningDeathEvent
	sales    []models.Sale
	expenses []models.Expense
}

func newMemLedger() *memLedger { return &memLedger{} }

func (m *memLedger) id() int64 {
	m.nextID++
	return m.nextID
}

type memStock struct{ *memLedger }

func (s memStock) Create(_ context.Context, e *models.BreedingStockEntry) error {
	e.ID = s.id()
	s.stock = append(s.stock, *e)
	return nil
}

func (s memStock) Update(_ context.Context, e *models.BreedingStockEntry) error {
	for i := range s.stock {
		if s.stock[i].ID == e.ID {
			s.stock[i] = *e
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s memStock) GetByID(_ context.Context, id int64) (*models.BreedingStockEntry, error) {
	for _, e := range s.stock {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s memStock) Exists(_ context.Context, loc models.Location) (bool, error) {
	for _, e := range s.stock {
		if e.Location() == loc {
			return true, nil
		}
	}
	return false, nil
}

func (s memStock) Locations(_ context.Context) ([]models.Location, error) {
	seen := map[models.Location]bool{}
	var out []models.Location
	for _, e := range s.stock {
		if !seen[e.Location()] {
			seen[e.Location()] = true
			out = append(out, e.Location())
		}
	}
	return out, nil
}

func (s memStock) LatestTotals(_ context.Context) ([]models.LocationCount, error) {
	latest := map[models.Location]models.BreedingStockEntry{}
	for _, e := range s.stock {
		cur, ok := latest[e.Location()]
		if !ok || e.IntakeDate.After(cur.IntakeDate) || (e.IntakeDate.Equal(cur.IntakeDate) && e.ID > cur.ID) {
			latest[e.Location()] = e
		}
	}
	var out []models.LocationCount
	for loc, e := range latest {
		out = append(out, models.LocationCount{Enclosure: loc.Enclosure, Pen: loc.Pen, Total: e.Total()})
	}
	return out, nil
}

type memBirths struct{ *memLedger }

func (b memBirths) Accumulate(_ context.Context, birth *models.BirthEvent) (*models.BirthEvent, bool, error) {
	for i := range b.births {
		cur := &b.births[i]
		if cur.Location() == birth.Location() && cur.LitterNumber == birth.LitterNumber {
			cur.BornCount += birth.BornCount
			cur.BornDeadCount += birth.BornDeadCount
			cur.ParentDeathCount += birth.ParentDeathCount
			out := *cur
			return &out, false, nil
		}
	}
	birth.ID = b.id()
	b.births = append(b.births, *birth)
	out := *birth
	return &out, true, nil
}

func (b memBirths) Update(_ context.Context, birth *models.BirthEvent) error {
	for i := range b.births {
		if b.births[i].ID == birth.ID {
			b.births[i] = *birth
			return nil
		}
	}
	return sql.ErrNoRows
}

func (b memBirths) GetByID(_ context.Context, id int64) (*models.BirthEvent, error) {
	for _, e := range b.births {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (b memBirths) List(_ context.Context, filter models.BirthFilter) ([]models.BirthEvent, error) {
	var out []models.BirthEvent
	for _, e := range b.births {
		if (filter.Enclosure == "" || filter.Enclosure == e.Enclosure) && (filter.Pen == "" || filter.Pen == e.Pen) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b memBirths) TotalsByLocation(_ context.Context) ([]models.LocationCount, error) {
	return groupCounts(len(b.births), func(i int) (models.Location, int) {
		return b.births[i].Location(), b.births[i].BornCount
	}), nil
}

func (b memBirths) LossesByLocation(_ context.Context) ([]models.LocationCount, error) {
	return groupCounts(len(b.births), func(i int) (models.Location, int) {
		return b.births[i].Location(), b.births[i].BornDeadCount + b.births[i].ParentDeathCount
	}), nil
}

type memWeanings struct{ *memLedger }

func (w memWeanings) Create(_ context.Context, e *models.WeaningEvent) error {
	e.ID = w.id()
	w.weanings = append(w.weanings, *e)
	return nil
}

func (w memWeanings) SumSince(_ context.Context, since time.Time) (int, error) {
	total := 0
	for _, e := range w.weanings {
		if !e.WeanDate.Before(since) {
			total += e.WeanedFemales + e.WeanedMales
		}
	}
	return total, nil
}

func (w memWeanings) TotalsByLocation(_ context.Context) ([]models.LocationCount, error) {
	return groupCounts(len(w.weanings), func(i int) (models.Location, int) {
		e := w.weanings[i]
		return models.Location{Enclosure: e.Enclosure, Pen: e.Pen}, e.WeanedFemales + e.WeanedMales
	}), nil
}

type memDeaths struct{ *memLedger }

func (d memDeaths) Create(_ context.Context, e *models.PostWeaningDeathEvent) error {
	e.ID = d.id()
	d.deaths = append(d.deaths, *e)
	return nil
}

func (d memDeaths) TotalsByLocation(_ context.Context) ([]models.LocationCount, error) {
	return groupCounts(len(d.deaths), func(i int) (models.Location, int) {
		e := d.deaths[i]
		return models.Location{Enclosure: e.Enclosure, Pen: e.Pen}, e.DeadFemales + e.DeadMales
	}), nil
}

type memSales struct{ *memLedger }

func (s memSales) Create(_ context.Context, sale *models.Sale) error {
	sale.ID = s.id()
	s.sales = append(s.sales, *sale)
	return nil
}

func (s memSales) AnimalsSoldSince(_ context.Context, saleType models.SaleType, since time.Time) (int, error) {
	total := 0
	for _, sale := range s.sales {
		if sale.SaleType == saleType && !sale.SaleDate.Before(since) {
			total += sale.AnimalCount()
		}
	}
	return total, nil
}

func (s memSales) IncomeTotals(_ context.Context) (models.SaleTotals, error) {
	totals := models.SaleTotals{Weaned: decimal.Zero, Cull: decimal.Zero}
	for _, sale := range s.sales {
		if sale.SaleType == models.SaleTypeWeaned {
			totals.Weaned = totals.Weaned.Add(sale.SaleAmount)
		} else {
			totals.Cull = totals.Cull.Add(sale.SaleAmount)
		}
	}
	return totals, nil
}

type memExpenses struct{ *memLedger }

func (e memExpenses) Create(_ context.Context, x *models.Expense) error {
	x.ID = e.id()
	e.expenses = append(e.expenses, *x)
	return nil
}

func (e memExpenses) Total(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, x := range e.expenses {
		total = total.Add(x.Amount)
	}
	return total, nil
}

func groupCounts(n int, at func(i int) (models.Location, int)) []models.LocationCount {
	sums := map[models.Location]int{}
	var order []models.Location
	for i := 0; i < n; i++ {
		loc, v := at(i)
		if _, ok := sums[loc]; !ok {
			order = append(order, loc)
		}
		sums[loc] += v
	}
	out := make([]models.LocationCount, 0, len(order))
	for _, loc := range order {
		out = append(out, models.LocationCount{Enclosure: loc.Enclosure, Pen: loc.Pen, Total: sums[loc]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return models.CompareLocations(out[i].Location(), out[j].Location()) < 0
	})
	return out
}

func intPtr(v int) *int { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
