package repository

import "github.com/dorpsplein/dorpsplein-api/internal/domain/entity"

// NotificationRepository stores per-user notification preference records.
type NotificationRepository interface {
	// Get returns nil, nil when the user has never saved preferences.
	Get(userID string) (*entity.NotificationPreferences, error)
	// Put replaces the whole record (upsert).
	Put(p *entity.NotificationPreferences) error
}
