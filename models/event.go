package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventStatusPending    = "pending"
	EventStatusDispatched = "dispatched"
)

// Event is an outbox record written in the same transaction as the change it describes.
type Event struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Event        string         `gorm:"not null;index" json:"event"`
	Version      int            `gorm:"not null" json:"version"`
	Entity       string         `gorm:"not null" json:"entity"`
	EntityID     uuid.UUID      `gorm:"type:uuid;not null" json:"entityId"`
	ActorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"actorId"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	Data         datatypes.JSON `gorm:"not null" json:"data"`
	Status       string         `gorm:"not null;default:'pending'" json:"status"`
	Dispatched   bool           `gorm:"not null;default:false;index" json:"dispatched"`
	DispatchedAt *time.Time     `json:"dispatchedAt,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func NewEvent(event, entity string, entityID, actorID uuid.UUID, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      datatypes.JSON(dataBytes),
		Status:    EventStatusPending,
	}, nil
}

// MarkDispatched flips the event to its terminal state.
func (e *Event) MarkDispatched(at time.Time) {
	e.Status = EventStatusDispatched
	e.Dispatched = true
	e.DispatchedAt = &at
}
