package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type maintenanceStore interface {
	Ping(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

type dashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

// MaintenanceService guards the wipe operation and reports health.
type MaintenanceService struct {
	store  maintenanceStore
	cache  dashboardInvalidator
	hash   []byte
	logger *zap.Logger
}

// NewMaintenanceService builds the service. When hash is empty the plain
// passphrase is hashed once so comparisons never touch the raw value.
func NewMaintenanceService(store maintenanceStore, cache dashboardInvalidator, passphrase, hash string, logger *zap.Logger) (*MaintenanceService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	digest := []byte(hash)
	if hash == "" {
		if passphrase == "" {
			return nil, fmt.Errorf("delete passphrase is not configured")
		}
		var err error
		digest, err = bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash delete passphrase: %w", err)
		}
	}
	return &MaintenanceService{store: store, cache: cache, hash: digest, logger: logger}, nil
}

// DeleteAll wipes every record table when the passphrase matches.
func (s *MaintenanceService) DeleteAll(ctx context.Context, passphrase string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(passphrase)); err != nil {
		s.logger.Warn("delete-all rejected")
		return appErrors.ErrInvalidPassphrase
	}
	if err := s.store.DeleteAll(ctx); err != nil {
		s.logger.Error("delete-all failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete records")
	}
	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
	s.logger.Info("all records deleted")
	return nil
}

// Health runs a trivial query against the store.
func (s *MaintenanceService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		return err
	}
	return nil
}
