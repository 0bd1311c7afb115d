package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cavy-ledger/internal/dto"
	"github.com/noah-isme/cavy-ledger/internal/models"
	appErrors "github.com/noah-isme/cavy-ledger/pkg/errors"
)

// Detection thresholds.
const (
	weaningDueMinDays   = 15
	weaningDueMaxDays   = 20
	weaningOverdueDays  = 25
	weaningLookbackDays = 60
	cullDueMonths       = 12
	healthWindow        = 7 * 24 * time.Hour
	healthDeathLimit    = 3
	shortExpiry         = 7 * 24 * time.Hour
	cullExpiry          = 30 * 24 * time.Hour
)

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListUnread(ctx context.Context, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
	HasUnreadForRecord(ctx context.Context, kind models.NotificationKind, relatedKind string, relatedID int64) (bool, error)
	HasUnreadWithTitle(ctx context.Context, kind models.NotificationKind, title string) (bool, error)
}

type pendingWeaningSource interface {
	PendingWeaning(ctx context.Context, since time.Time) ([]models.BirthEvent, error)
}

type agedStockSource interface {
	IntakeBefore(ctx context.Context, cutoff time.Time) ([]models.BreedingStockEntry, error)
}

type recentDeathSource interface {
	TotalsSince(ctx context.Context, since time.Time, threshold int) ([]models.LocationCount, error)
}

// NotificationService lists alerts and runs the detection rules.
type NotificationService struct {
	store   notificationStore
	births  pendingWeaningSource
	stock   agedStockSource
	deaths  recentDeathSource
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService wires the notification service.
func NewNotificationService(store notificationStore, births pendingWeaningSource, stock agedStockSource, deaths recentDeathSource, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:   store,
		births:  births,
		stock:   stock,
		deaths:  deaths,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns unread notifications, most urgent first.
func (s *NotificationService) List(ctx context.Context, limit int) ([]models.Notification, error) {
	items, err := s.store.ListUnread(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := s.store.MarkRead(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return nil
}

// MarkAllRead flags every unread notification.
func (s *NotificationService) MarkAllRead(ctx context.Context) (*dto.MarkAllReadResult, error) {
	n, err := s.store.MarkAllRead(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notifications")
	}
	return &dto.MarkAllReadResult{Updated: n}, nil
}

type detectionRule struct {
	kind models.NotificationKind
	run  func(ctx context.Context, now time.Time) ([]models.Notification, error)
}

// Generate runs every rule once. A failing rule is logged and skipped; the
// others still run. Re-running without new data inserts nothing.
func (s *NotificationService) Generate(ctx context.Context) (*dto.GenerateNotificationsResult, error) {
	now := s.now().UTC()
	rules := []detectionRule{
		{kind: models.NotificationWeaningDue, run: s.weaningDue},
		{kind: models.NotificationCullDue, run: s.cullDue},
		{kind: models.NotificationHealthAlert, run: s.healthAlerts},
	}

	result := &dto.GenerateNotificationsResult{Notifications: []models.Notification{}}
	for _, rule := range rules {
		created, err := rule.run(ctx, now)
		if err != nil {
			s.logger.Warn("notification rule failed", zap.String("kind", string(rule.kind)), zap.Error(err))
		}
		s.metrics.RecordNotifications(string(rule.kind), len(created))
		result.Notifications = append(result.Notifications, created...)
	}
	result.Generated = len(result.Notifications)
	if result.Generated > 0 {
		s.logger.Info("notifications generated", zap.Int("count", result.Generated))
	}
	return result, nil
}

func (s *NotificationService) weaningDue(ctx context.Context, now time.Time) ([]models.Notification, error) {
	births, err := s.births.PendingWeaning(ctx, now.AddDate(0, 0, -weaningLookbackDays))
	if err != nil {
		return nil, fmt.Errorf("load pending weanings: %w", err)
	}

	var created []models.Notification
	for _, b := range births {
		age := ageInDays(b.BirthDate, now)
		var priority models.NotificationPriority
		var title, message string
		switch {
		case age >= weaningDueMinDays && age <= weaningDueMaxDays:
			priority = models.PriorityMedium
			title = fmt.Sprintf("Weaning due at %s", b.Location())
			message = fmt.Sprintf("Litter %d at %s is %d days old and ready for weaning.", b.LitterNumber, b.Location(), age)
		case age > weaningOverdueDays:
			priority = models.PriorityHigh
			title = fmt.Sprintf("Weaning overdue at %s", b.Location())
			message = fmt.Sprintf("Litter %d at %s is %d days old and has not been weaned.", b.LitterNumber, b.Location(), age)
		default:
			continue
		}

		n, err := s.createForRecord(ctx, models.NotificationWeaningDue, models.RelatedBirth, b.ID, title, message, priority, now, shortExpiry)
		if err != nil {
			return created, err
		}
		if n != nil {
			created = append(created, *n)
		}
	}
	return created, nil
}

func (s *NotificationService) cullDue(ctx context.Context, now time.Time) ([]models.Notification, error) {
	entries, err := s.stock.IntakeBefore(ctx, now.AddDate(0, -cullDueMonths, 0))
	if err != nil {
		return nil, fmt.Errorf("load aged stock: %w", err)
	}

	var created []models.Notification
	for _, e := range entries {
		title := fmt.Sprintf("Cull due at %s", e.Location())
		message := fmt.Sprintf("Breeding stock at %s (%d females, %d males) entered on %s and is due for renewal.",
			e.Location(), e.Females, e.Males, e.IntakeDate.UTC().Format(dateLayout))
		n, err := s.createForRecord(ctx, models.NotificationCullDue, models.RelatedStock, e.ID, title, message, models.PriorityMedium, now, cullExpiry)
		if err != nil {
			return created, err
		}
		if n != nil {
			created = append(created, *n)
		}
	}
	return created, nil
}

func (s *NotificationService) healthAlerts(ctx context.Context, now time.Time) ([]models.Notification, error) {
	rows, err := s.deaths.TotalsSince(ctx, now.Add(-healthWindow), healthDeathLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent deaths: %w", err)
	}

	var created []models.Notification
	for _, row := range rows {
		if row.Total <= healthDeathLimit {
			continue
		}
		title := fmt.Sprintf("High mortality at %s", row.Location())
		exists, err := s.store.HasUnreadWithTitle(ctx, models.NotificationHealthAlert, title)
		if err != nil {
			return created, fmt.Errorf("check health alert: %w", err)
		}
		if exists {
			continue
		}
		relatedKind := models.RelatedHealth
		expires := now.Add(shortExpiry)
		n := models.Notification{
			Kind:              models.NotificationHealthAlert,
			Title:             title,
			Message:           fmt.Sprintf("%d weaned animals died at %s in the last 7 days.", row.Total, row.Location()),
			Priority:          models.PriorityUrgent,
			CreatedAt:         now,
			ExpiresAt:         &expires,
			RelatedRecordKind: &relatedKind,
		}
		if err := s.store.Create(ctx, &n); err != nil {
			return created, err
		}
		created = append(created, n)
	}
	return created, nil
}

func (s *NotificationService) createForRecord(ctx context.Context, kind models.NotificationKind, relatedKind string, relatedID int64, title, message string, priority models.NotificationPriority, now time.Time, ttl time.Duration) (*models.Notification, error) {
	exists, err := s.store.HasUnreadForRecord(ctx, kind, relatedKind, relatedID)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", kind, err)
	}
	if exists {
		return nil, nil
	}
	id := relatedID
	rk := relatedKind
	expires := now.Add(ttl)
	n := &models.Notification{
		Kind:              kind,
		Title:             title,
		Message:           message,
		Priority:          priority,
		CreatedAt:         now,
		ExpiresAt:         &expires,
		RelatedRecordID:   &id,
		RelatedRecordKind: &rk,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func ageInDays(from, now time.Time) int {
	return int(startOfDay(now).Sub(startOfDay(from)).Hours() / 24)
}
