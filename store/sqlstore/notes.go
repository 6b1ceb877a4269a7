package sqlstore

import (
	"context"
	"time"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return translate(r.db.WithContext(ctx).Create(note).Error)
}

func (r *noteRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Note, error) {
	return first[models.Note](ctx, r.db, owner, id)
}

func (r *noteRepository) List(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error) {
	notes := []models.Note{}
	query := r.db.WithContext(ctx).Where("user_id = ?", owner)
	if room != nil {
		query = query.Where("room_id = ?", *room)
	}
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error) {
	note, err := first[models.Note](ctx, r.db, owner, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return note, nil
	}

	patch.Apply(note)
	note.UpdatedAt = time.Now().UTC()
	err = r.db.WithContext(ctx).Model(note).Select("title", "content", "updated_at").Updates(note).Error
	if err != nil {
		return nil, translate(err)
	}
	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&models.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *noteRepository) DeleteByRoom(ctx context.Context, owner, room uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND room_id = ?", owner, room).Delete(&models.Note{})
	return result.RowsAffected, result.Error
}

func (r *noteRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	existing := r.db.Model(&models.Room{}).Select("id")
	result := r.db.WithContext(ctx).Where("room_id NOT IN (?)", existing).Delete(&models.Note{})
	return result.RowsAffected, result.Error
}
