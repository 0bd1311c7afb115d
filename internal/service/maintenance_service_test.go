package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type fakeMaintenanceStore struct {
	rows        int
	deleteCalls int
	pingErr     error
	deleteErr   error
}

func (f *fakeMaintenanceStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeMaintenanceStore) DeleteAll(context.Context) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.rows = 0
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) InvalidateDashboard(context.Context) { f.calls++ }

func TestDeleteAllRejectsWrongPassphrase(t *testing.T) {
	store := &fakeMaintenanceStore{rows: 12}
	cache := &fakeInvalidator{}
	svc, err := NewMaintenanceService(store, cache, "0429", "", nil)
	require.NoError(t, err)

	err = svc.DeleteAll(context.Background(), "wrong")
	assert.ErrorIs(t, err, appErrors.ErrInvalidPassphrase)
	assert.Zero(t, store.deleteCalls)
	assert.Equal(t, 12, store.rows)
	assert.Zero(t, cache.calls)
}

func TestDeleteAllWithPassphrase(t *testing.T) {
	store := &fakeMaintenanceStore{rows: 12}
	cache := &fakeInvalidator{}
	svc, err := NewMaintenanceService(store, cache, "0429", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(context.Background(), "0429"))
	assert.Zero(t, store.rows)
	assert.Equal(t, 1, cache.calls)
}

func TestDeleteAllWithConfiguredHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &fakeMaintenanceStore{rows: 1}
	svc, err := NewMaintenanceService(store, nil, "0429", string(hash), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAll(context.Background(), "0429"), appErrors.ErrInvalidPassphrase)
	require.NoError(t, svc.DeleteAll(context.Background(), "s3cret"))
}

func TestDeleteAllStorageFailure(t *testing.T) {
	store := &fakeMaintenanceStore{rows: 3, deleteErr: errors.New("deadlock")}
	svc, err := NewMaintenanceService(store, nil, "0429", "", nil)
	require.NoError(t, err)

	err = svc.DeleteAll(context.Background(), "0429")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Equal(t, 3, store.rows)
}

func TestMaintenanceRequiresPassphrase(t *testing.T) {
	_, err := NewMaintenanceService(&fakeMaintenanceStore{}, nil, "", "", nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	store := &fakeMaintenanceStore{}
	svc, err := NewMaintenanceService(store, nil, "0429", "", nil)
	require.NoError(t, err)
	assert.NoError(t, svc.Health(context.Background()))

	store.pingErr = errors.New("connection refused")
	assert.EqualError(t, svc.Health(context.Background()), "connection refused")
}
