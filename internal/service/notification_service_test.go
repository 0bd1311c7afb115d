package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

type memNotifications struct {
	items []models.Notification
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	n.ID = int64(len(m.items) + 1)
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) ListUnread(_ context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.items {
		if !n.Read {
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Read = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memNotifications) MarkAllRead(_ context.Context) (int64, error) {
	var n int64
	for i := range m.items {
		if !m.items[i].Read {
			m.items[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) HasUnreadForRecord(_ context.Context, kind models.NotificationKind, relatedKind string, relatedID int64) (bool, error) {
	for _, n := range m.items {
		if !n.Read && n.Kind == kind && n.RelatedRecordKind != nil && *n.RelatedRecordKind == relatedKind &&
			n.RelatedRecordID != nil && *n.RelatedRecordID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotifications) HasUnreadWithTitle(_ context.Context, kind models.NotificationKind, title string) (bool, error) {
	for _, n := range m.items {
		if !n.Read && n.Kind == kind && n.Title == title {
			return true, nil
		}
	}
	return false, nil
}

type fakePending struct {
	births []models.BirthEvent
	err    error
}

func (f fakePending) PendingWeaning(context.Context, time.Time) ([]models.BirthEvent, error) {
	return f.births, f.err
}

type fakeAgedStock struct{ entries []models.BreedingStockEntry }

func (f fakeAgedStock) IntakeBefore(_ context.Context, cutoff time.Time) ([]models.BreedingStockEntry, error) {
	var out []models.BreedingStockEntry
	for _, e := range f.entries {
		if !e.IntakeDate.After(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRecentDeaths struct{ rows []models.LocationCount }

func (f fakeRecentDeaths) TotalsSince(_ context.Context, _ time.Time, threshold int) ([]models.LocationCount, error) {
	var out []models.LocationCount
	for _, r := range f.rows {
		if r.Total > threshold {
			out = append(out, r)
		}
	}
	return out, nil
}

var notificationNow = time.Date(2025, 6, 30, 8, 0, 0, 0, time.UTC)

func newNotificationFixture(store *memNotifications, pending fakePending) *NotificationService {
	svc := NewNotificationService(
		store,
		pending,
		fakeAgedStock{entries: []models.BreedingStockEntry{
			{ID: 7, Enclosure: "1", Pen: "1", Females: 6, Males: 1, IntakeDate: notificationNow.AddDate(-1, -1, 0)},
			{ID: 8, Enclosure: "1", Pen: "2", Females: 6, Males: 1, IntakeDate: notificationNow.AddDate(0, -3, 0)},
		}},
		fakeRecentDeaths{rows: []models.LocationCount{
			{Enclosure: "2", Pen: "1", Total: 4},
			{Enclosure: "2", Pen: "2", Total: 3},
		}},
		NewMetricsService(),
		nil,
	)
	svc.now = fixedClock(notificationNow)
	return svc
}

func TestGenerateAppliesEveryRule(t *testing.T) {
	store := &memNotifications{}
	pending := fakePending{births: []models.BirthEvent{
		{ID: 1, Enclosure: "3", Pen: "1", LitterNumber: 1, BirthDate: notificationNow.AddDate(0, 0, -16)},
		{ID: 2, Enclosure: "3", Pen: "2", LitterNumber: 2, BirthDate: notificationNow.AddDate(0, 0, -23)},
		{ID: 3, Enclosure: "3", Pen: "3", LitterNumber: 1, BirthDate: notificationNow.AddDate(0, 0, -30)},
		{ID: 4, Enclosure: "3", Pen: "4", LitterNumber: 1, BirthDate: notificationNow.AddDate(0, 0, -5)},
	}}
	svc := newNotificationFixture(store, pending)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Generated)

	byRecord := map[int64]models.Notification{}
	var health []models.Notification
	for _, n := range store.items {
		if n.Kind == models.NotificationHealthAlert {
			health = append(health, n)
			continue
		}
		byRecord[*n.RelatedRecordID] = n
	}

	assert.Equal(t, models.PriorityMedium, byRecord[1].Priority)
	assert.Equal(t, models.RelatedBirth, *byRecord[1].RelatedRecordKind)
	assert.Equal(t, notificationNow.Add(7*24*time.Hour), *byRecord[1].ExpiresAt)
	assert.NotContains(t, byRecord, int64(2))
	assert.Equal(t, models.PriorityHigh, byRecord[3].Priority)
	assert.NotContains(t, byRecord, int64(4))

	cull := byRecord[7]
	assert.Equal(t, models.NotificationCullDue, cull.Kind)
	assert.Equal(t, models.RelatedStock, *cull.RelatedRecordKind)
	assert.Equal(t, notificationNow.Add(30*24*time.Hour), *cull.ExpiresAt)
	assert.NotContains(t, byRecord, int64(8))

	require.Len(t, health, 1)
	assert.Equal(t, models.PriorityUrgent, health[0].Priority)
	assert.Nil(t, health[0].RelatedRecordID)
	assert.Equal(t, models.RelatedHealth, *health[0].RelatedRecordKind)
}

func TestGenerateIsIdempotentWhileUnread(t *testing.T) {
	store := &memNotifications{}
	pending := fakePending{births: []models.BirthEvent{
		{ID: 1, Enclosure: "3", Pen: "1", BirthDate: notificationNow.AddDate(0, 0, -18)},
	}}
	svc := newNotificationFixture(store, pending)

	first, err := svc.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, first.Generated)

	again, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Generated)
	assert.Len(t, store.items, 3)

	_, err = svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	afterRead, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, afterRead.Generated)
}

func TestGenerateContinuesWhenRuleFails(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &memNotifications{}
	svc := newNotificationFixture(store, fakePending{err: errors.New("no births table")})
	svc.logger = zap.New(core)

	result, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	assert.Equal(t, 1, logs.FilterMessage("notification rule failed").Len())
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc := newNotificationFixture(&memNotifications{}, fakePending{})
	err := svc.MarkRead(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestListReturnsEmptySlice(t *testing.T) {
	svc := newNotificationFixture(&memNotifications{}, fakePending{})
	items, err := svc.List(context.Background(), 20)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
