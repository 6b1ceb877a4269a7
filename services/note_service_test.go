package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"noteria/backend/models"
	"noteria/backend/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteFixture(t *testing.T) (*NoteService, *RoomService, uuid.UUID, *models.Room) {
	t.Helper()
	s := testutils.NewTestStore(t)
	rooms := NewRoomService(s, true, nil)
	owner := uuid.New()
	room, err := rooms.CreateRoom(context.Background(), owner, "Inbox", nil)
	require.NoError(t, err)
	return NewNoteService(s, nil), rooms, owner, room
}

func strPtr(s string) *string { return &s }

func TestCreateNote_DefaultsTitle(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)

	for _, title := range []string{"", "   "} {
		note, err := notes.CreateNote(context.Background(), owner, CreateNoteInput{RoomID: room.ID.String(), Title: title})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultNoteTitle, note.Title)
		assert.Equal(t, "", note.Content)
		assert.Equal(t, room.ID, note.RoomID)
		assert.Equal(t, owner, note.UserID)
	}
}

func TestCreateNote_Validation(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name      string
		input     CreateNoteInput
		wantField string
	}{
		{name: "Missing roomId", input: CreateNoteInput{Title: "x"}, wantField: "roomId"},
		{name: "Malformed roomId", input: CreateNoteInput{RoomID: "abc"}, wantField: "roomId"},
		{name: "Title too long", input: CreateNoteInput{RoomID: room.ID.String(), Title: strings.Repeat("t", 201)}, wantField: "title"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := notes.CreateNote(ctx, owner, tc.input)
			assert.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.wantField, vErr.Field)
		})
	}

	all, err := notes.ListNotes(ctx, owner, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateNote_RoomMustBelongToOwner(t *testing.T) {
	notes, _, _, room := newNoteFixture(t)

	_, err := notes.CreateNote(context.Background(), uuid.New(), CreateNoteInput{RoomID: room.ID.String()})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateNote_PartialSemantics(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)
	ctx := context.Background()

	note, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String(), Title: "Plan", Content: "v1"})
	require.NoError(t, err)

	updated, err := notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{Content: strPtr("x")})
	require.NoError(t, err)
	assert.Equal(t, "Plan", updated.Title)
	assert.Equal(t, "x", updated.Content)

	updated, err = notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{Title: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Title)
	assert.Equal(t, "x", updated.Content)

	unchanged, err := notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, "x", unchanged.Content)

	_, err = notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{Title: strPtr(strings.Repeat("t", 201))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteOwnershipIsolation(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)
	ctx := context.Background()
	stranger := uuid.New()

	note, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String()})
	require.NoError(t, err)

	for _, id := range []uuid.UUID{note.ID, uuid.New()} {
		_, err = notes.GetNote(ctx, stranger, id)
		assert.ErrorIs(t, err, ErrNoteNotFound)

		_, err = notes.UpdateNote(ctx, stranger, id, models.NotePatch{Content: strPtr("mine")})
		assert.ErrorIs(t, err, ErrNoteNotFound)

		err = notes.DeleteNote(ctx, stranger, id)
		assert.ErrorIs(t, err, ErrNoteNotFound)
	}

	theirs, err := notes.ListNotes(ctx, stranger, nil)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	got, err := notes.GetNote(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Content)
}

func TestListNotes_ByRoom(t *testing.T) {
	notes, rooms, owner, inbox := newNoteFixture(t)
	ctx := context.Background()

	archive, err := rooms.CreateRoom(ctx, owner, "Archive", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: inbox.ID.String()})
		require.NoError(t, err)
	}
	_, err = notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: archive.ID.String()})
	require.NoError(t, err)

	inInbox, err := notes.ListNotes(ctx, owner, &inbox.ID)
	require.NoError(t, err)
	assert.Len(t, inInbox, 2)

	all, err := notes.ListNotes(ctx, owner, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteNote(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)
	ctx := context.Background()

	note, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String()})
	require.NoError(t, err)

	require.NoError(t, notes.DeleteNote(ctx, owner, note.ID))
	assert.ErrorIs(t, notes.DeleteNote(ctx, owner, note.ID), ErrNoteNotFound)
}

func TestNoteTitles_AreTrimmed(t *testing.T) {
	notes, _, owner, room := newNoteFixture(t)
	ctx := context.Background()

	note, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String(), Title: "  Hello  "})
	require.NoError(t, err)
	assert.Equal(t, "Hello", note.Title)

	padded := "  " + strings.Repeat("x", 199) + "  "
	long, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String(), Title: padded})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 199), long.Title)

	updated, err := notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{Title: strPtr("\tRenamed \n")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	updated, err = notes.UpdateNote(ctx, owner, note.ID, models.NotePatch{Title: strPtr(padded)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 199), updated.Title)

	stored, err := notes.GetNote(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 199), stored.Title)
}
