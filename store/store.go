// Package store defines the persistence boundary for rooms, notes, users and outbox events.
// Every room and note lookup is scoped by owner: a record owned by someone else is
// reported exactly like a missing one.
package store

import (
	"context"
	"errors"
	"time"

	"noteria/backend/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	Rooms() RoomRepository
	Notes() NoteRepository
	Users() UserRepository
	Events() EventRepository

	// WithTx runs fn against a Store bound to one transaction. fn's error rolls it back.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close(ctx context.Context) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Room, error)
	// GetMany returns the owner's rooms among ids, in no particular order. Unknown ids are skipped.
	GetMany(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]models.Room, error)
	List(ctx context.Context, owner uuid.UUID) ([]models.Room, error)
	// ListChildren lists direct children of parent, or the owner's roots when parent is nil.
	ListChildren(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error)
	// ChildIDs returns the ids of rooms whose parent is any of parents.
	ChildIDs(ctx context.Context, owner uuid.UUID, parents []uuid.UUID) ([]uuid.UUID, error)
	Rename(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error)
	SetPlacement(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID, path []uuid.UUID) error
	// Delete removes one room and reports whether it existed.
	Delete(ctx context.Context, owner, id uuid.UUID) (bool, error)
	// Orphans lists rooms, of any owner, whose parent no longer exists.
	Orphans(ctx context.Context) ([]models.Room, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	Get(ctx context.Context, owner, id uuid.UUID) (*models.Note, error)
	// List returns the owner's notes, limited to one room when room is non-nil.
	List(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error)
	Update(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	DeleteByRoom(ctx context.Context, owner, room uuid.UUID) (int64, error)
	// DeleteOrphans removes notes, of any owner, whose room no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type EventRepository interface {
	Append(ctx context.Context, event *models.Event) error
	// Pending returns undispatched events oldest first.
	Pending(ctx context.Context, limit int) ([]models.Event, error)
	MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error
}
