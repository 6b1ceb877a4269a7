package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxRoomNameLength = 100

// Room is a named container owned by one user. Path holds the ancestor ids from the
// root down to the immediate parent, so Path is empty exactly when ParentID is nil.
type Room struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	ParentID  *uuid.UUID  `gorm:"type:uuid;index" json:"parentRoom,omitempty"`
	Path      []uuid.UUID `gorm:"type:text;serializer:json" json:"path"`
	CreatedAt time.Time   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"not null" json:"updatedAt"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.Normalize()
	return nil
}

func (r *Room) BeforeSave(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

// Normalize folds the zero uuid parent into "no parent" and never leaves Path nil.
func (r *Room) Normalize() {
	if r.ParentID != nil && *r.ParentID == uuid.Nil {
		r.ParentID = nil
	}
	if r.Path == nil {
		r.Path = []uuid.UUID{}
	}
}

func (r *Room) IsRoot() bool {
	return r.ParentID == nil
}

// ChildPath is the path a direct child of r must carry.
func (r *Room) ChildPath() []uuid.UUID {
	path := make([]uuid.UUID, 0, len(r.Path)+1)
	path = append(path, r.Path...)
	return append(path, r.ID)
}

// HasAncestor reports whether id appears in r's materialized ancestor chain.
func (r *Room) HasAncestor(id uuid.UUID) bool {
	return slices.Contains(r.Path, id)
}
