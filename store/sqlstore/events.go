package sqlstore

import (
	"context"
	"time"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Append(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Pending(ctx context.Context, limit int) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.WithContext(ctx).
		Where("dispatched = ?", false).
		Order("timestamp ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"dispatched":    true,
			"dispatched_at": at,
			"status":        models.EventStatusDispatched,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
