// Package sqlstore implements store.Store on gorm, for postgres and sqlite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"noteria/backend/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Rooms() store.RoomRepository   { return &roomRepository{db: s.db} }
func (s *Store) Notes() store.NoteRepository   { return &noteRepository{db: s.db} }
func (s *Store) Users() store.UserRepository   { return &userRepository{db: s.db} }
func (s *Store) Events() store.EventRepository { return &eventRepository{db: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

// first loads one owner-scoped record of type T.
func first[T any](ctx context.Context, db *gorm.DB, owner, id uuid.UUID) (*T, error) {
	var record T
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
