package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type stockLocator interface {
	Exists(ctx context.Context, loc models.Location) (bool, error)
	Locations(ctx context.Context) ([]models.Location, error)
}

// LocationPolicy decides whether dependent records may reference a location
// that has no breeding stock registered. Orphaned rows are tolerated by every
// aggregate either way.
type LocationPolicy struct {
	stock    stockLocator
	required bool
	logger   *zap.Logger
}

// NewLocationPolicy builds the policy. With required=false every location is accepted.
func NewLocationPolicy(stock stockLocator, required bool, logger *zap.Logger) *LocationPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationPolicy{stock: stock, required: required, logger: logger}
}

// Required reports whether registration is enforced.
func (p *LocationPolicy) Required() bool {
	return p != nil && p.required
}

// Check returns UNKNOWN_LOCATION when enforcement is on and loc has no stock.
func (p *LocationPolicy) Check(ctx context.Context, loc models.Location) error {
	if !p.Required() {
		return nil
	}
	ok, err := p.stock.Exists(ctx, loc)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify location")
	}
	if !ok {
		e := appErrors.Clone(appErrors.ErrUnknownLocation, fmt.Sprintf("enclosure %s pen %s has no breeding stock registered", loc.Enclosure, loc.Pen))
		e.Fields = map[string]string{"pen": "is not registered as breeding stock"}
		return e
	}
	return nil
}

// Known lists registered locations in display order. A lookup failure is
// logged and yields an empty list so forms still render.
func (p *LocationPolicy) Known(ctx context.Context) []models.Location {
	if p == nil || p.stock == nil {
		return []models.Location{}
	}
	locs, err := p.stock.Locations(ctx)
	if err != nil {
		p.logger.Warn("list locations failed", zap.Error(err))
		return []models.Location{}
	}
	models.SortLocations(locs)
	return locs
}
