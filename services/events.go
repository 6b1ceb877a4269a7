package services

import (
	"context"
	"fmt"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
)

const (
	EntityRoom = "room"
	EntityNote = "note"

	EventRoomCreated = "room.created"
	EventRoomRenamed = "room.renamed"
	EventRoomMoved   = "room.moved"
	EventRoomDeleted = "room.deleted"
	EventNoteCreated = "note.created"
	EventNoteUpdated = "note.updated"
	EventNoteDeleted = "note.deleted"
)

// appendEvent writes an outbox record through tx so it commits with the change it describes.
func appendEvent(ctx context.Context, tx store.Store, name, entity string, entityID, actorID uuid.UUID, data interface{}) error {
	event, err := models.NewEvent(name, entity, entityID, actorID, data)
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", name, err)
	}
	if err := tx.Events().Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append %s event: %w", name, err)
	}
	return nil
}
