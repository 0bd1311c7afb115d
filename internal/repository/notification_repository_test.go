package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

func TestNotificationRepositoryListUnreadOrdersByPriority(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	now := time.Now()
	cols := []string{"id", "kind", "title", "message", "priority", "read", "created_at", "expires_at", "related_record_id", "related_record_kind"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE priority WHEN 'urgent' THEN 1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), "health_alert", "Health alert", "m", "urgent", false, now, nil, nil, "health").
			AddRow(int64(1), "weaning_due", "Weaning due", "m", "medium", false, now, nil, int64(5), "birth"))

	items, err := repo.ListUnread(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.PriorityUrgent, items[0].Priority)
	require.NotNil(t, items[1].RelatedRecordID)
	assert.Equal(t, int64(5), *items[1].RelatedRecordID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryHasUnreadForRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("related_record_id = $3 AND read = FALSE")).
		WithArgs(models.NotificationWeaningDue, models.RelatedBirth, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := repo.HasUnreadForRecord(context.Background(), models.NotificationWeaningDue, models.RelatedBirth, 5)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkReadMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkRead(context.Background(), 42), sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE WHERE read = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
