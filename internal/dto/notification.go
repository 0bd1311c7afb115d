package dto

import "github.com/noah-isme/cavy-ledger/internal/models"

// GenerateNotificationsResult reports what a generation run inserted.
type GenerateNotificationsResult struct {
	Generated     int                   `json:"generated"`
	Notifications []models.Notification `json:"notifications"`
}

// MarkAllReadResult reports how many notifications were flagged.
type MarkAllReadResult struct {
	Updated int64 `json:"updated"`
}
