package models

import "time"

// NotificationKind names the detection rule that produced a notification.
type NotificationKind string

const (
	NotificationWeaningDue  NotificationKind = "weaning_due"
	NotificationCullDue     NotificationKind = "cull_due"
	NotificationHealthAlert NotificationKind = "health_alert"
)

// NotificationPriority ranks notifications for display.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Rank orders priorities, urgent first.
func (p NotificationPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// Related record kinds stored alongside notifications.
const (
	RelatedBirth  = "birth"
	RelatedStock  = "breeding_stock"
	RelatedHealth = "health"
)

// Notification is an alert raised by the background rules. Only Read changes
// after creation.
type Notification struct {
	ID                int64                `db:"id" json:"id"`
	Kind              NotificationKind     `db:"kind" json:"kind"`
	Title             string               `db:"title" json:"title"`
	Message           string               `db:"message" json:"message"`
	Priority          NotificationPriority `db:"priority" json:"priority"`
	Read              bool                 `db:"read" json:"read"`
	CreatedAt         time.Time            `db:"created_at" json:"createdAt"`
	ExpiresAt         *time.Time           `db:"expires_at" json:"expiresAt,omitempty"`
	RelatedRecordID   *int64               `db:"related_record_id" json:"relatedRecordId,omitempty"`
	RelatedRecordKind *string              `db:"related_record_kind" json:"relatedRecordKind,omitempty"`
}
