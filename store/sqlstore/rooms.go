package sqlstore

import (
	"context"
	"time"

	"noteria/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return translate(r.db.WithContext(ctx).Create(room).Error)
}

func (r *roomRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Room, error) {
	return first[models.Room](ctx, r.db, owner, id)
}

func (r *roomRepository) GetMany(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]models.Room, error) {
	rooms := []models.Room{}
	if len(ids) == 0 {
		return rooms, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", owner, ids).
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Room, error) {
	rooms := []models.Room{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) ListChildren(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error) {
	rooms := []models.Room{}
	query := r.db.WithContext(ctx).Where("user_id = ?", owner)
	if parent == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parent)
	}
	err := query.Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) ChildIDs(ctx context.Context, owner uuid.UUID, parents []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(parents) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("user_id = ? AND parent_id IN ?", owner, parents).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *roomRepository) Rename(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error) {
	room, err := first[models.Room](ctx, r.db, owner, id)
	if err != nil {
		return nil, err
	}
	room.Name = name
	room.UpdatedAt = time.Now().UTC()
	err = r.db.WithContext(ctx).Model(room).Select("name", "updated_at").Updates(room).Error
	if err != nil {
		return nil, translate(err)
	}
	return room, nil
}

func (r *roomRepository) SetPlacement(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID, path []uuid.UUID) error {
	room, err := first[models.Room](ctx, r.db, owner, id)
	if err != nil {
		return err
	}
	room.ParentID = parent
	room.Path = path
	room.UpdatedAt = time.Now().UTC()
	return translate(r.db.WithContext(ctx).Model(room).Select("parent_id", "path", "updated_at").Updates(room).Error)
}

func (r *roomRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&models.Room{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *roomRepository) Orphans(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	existing := r.db.Model(&models.Room{}).Select("id")
	err := r.db.WithContext(ctx).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (?)", existing).
		Find(&rooms).Error
	return rooms, err
}
