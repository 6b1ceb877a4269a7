package services

import (
	"context"
	"log/slog"
	"strings"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
)

type NoteServiceInterface interface {
	CreateNote(ctx context.Context, owner uuid.UUID, input CreateNoteInput) (*models.Note, error)
	GetNote(ctx context.Context, owner, id uuid.UUID) (*models.Note, error)
	ListNotes(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error)
	UpdateNote(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, owner, id uuid.UUID) error
}

// CreateNoteInput carries the raw room id so a missing or malformed one is
// reported as a validation failure.
type CreateNoteInput struct {
	RoomID  string
	Title   string
	Content string
}

type NoteService struct {
	store  store.Store
	logger *slog.Logger
}

func NewNoteService(s store.Store, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{store: s, logger: logger}
}

func (s *NoteService) CreateNote(ctx context.Context, owner uuid.UUID, input CreateNoteInput) (*models.Note, error) {
	input.RoomID = strings.TrimSpace(input.RoomID)
	input.Title = strings.TrimSpace(input.Title)
	err := asValidationError(noteInput{Title: input.Title, RoomID: input.RoomID}.Validate(), map[string]string{
		"RoomID": "roomId",
		"Title":  "title",
	})
	if err != nil {
		return nil, err
	}
	roomID := uuid.MustParse(input.RoomID)

	title := input.Title
	if title == "" {
		title = models.DefaultNoteTitle
	}

	note := &models.Note{
		ID:      uuid.New(),
		UserID:  owner,
		RoomID:  roomID,
		Title:   title,
		Content: input.Content,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.Rooms().Get(ctx, owner, roomID); err != nil {
			return storeErr(err, roomNotFound(roomID))
		}
		if err := tx.Notes().Create(ctx, note); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventNoteCreated, EntityNote, note.ID, owner, map[string]interface{}{
			"id":    note.ID,
			"room":  note.RoomID,
			"title": note.Title,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("note created", "note_id", note.ID, "room_id", roomID, "user_id", owner)
	return note, nil
}

func (s *NoteService) GetNote(ctx context.Context, owner, id uuid.UUID) (*models.Note, error) {
	note, err := s.store.Notes().Get(ctx, owner, id)
	if err != nil {
		return nil, storeErr(err, noteNotFound(id))
	}
	return note, nil
}

// ListNotes returns the owner's notes, newest first, optionally limited to one room.
func (s *NoteService) ListNotes(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error) {
	return s.store.Notes().List(ctx, owner, room)
}

// UpdateNote changes only the fields set in patch. Titles are trimmed, and an explicit
// empty title is kept as is.
func (s *NoteService) UpdateNote(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	var note *models.Note
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		var err error
		note, err = tx.Notes().Update(ctx, owner, id, patch)
		if err != nil {
			return storeErr(err, noteNotFound(id))
		}
		if patch.IsEmpty() {
			return nil
		}
		changed := map[string]interface{}{"id": note.ID, "room": note.RoomID}
		if patch.Title != nil {
			changed["title"] = note.Title
		}
		if patch.Content != nil {
			changed["contentLength"] = len(note.Content)
		}
		return appendEvent(ctx, tx, EventNoteUpdated, EntityNote, note.ID, owner, changed)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, owner, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		note, err := tx.Notes().Get(ctx, owner, id)
		if err != nil {
			return storeErr(err, noteNotFound(id))
		}
		if err := tx.Notes().Delete(ctx, owner, id); err != nil {
			return storeErr(err, noteNotFound(id))
		}
		return appendEvent(ctx, tx, EventNoteDeleted, EntityNote, id, owner, map[string]interface{}{
			"id":   id,
			"room": note.RoomID,
		})
	})
}
