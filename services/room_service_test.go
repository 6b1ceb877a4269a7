package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"noteria/backend/models"
	"noteria/backend/store"
	"noteria/backend/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomService(t *testing.T) (*RoomService, store.Store) {
	t.Helper()
	s := testutils.NewTestStore(t)
	return NewRoomService(s, true, nil), s
}

func mustCreateRoom(t *testing.T, svc *RoomService, owner uuid.UUID, name string, parent *models.Room) *models.Room {
	t.Helper()
	var parentID *uuid.UUID
	if parent != nil {
		parentID = &parent.ID
	}
	room, err := svc.CreateRoom(context.Background(), owner, name, parentID)
	require.NoError(t, err)
	return room
}

func TestCreateRoom_ComputesPathFromParent(t *testing.T) {
	svc, _ := newRoomService(t)
	owner := uuid.New()

	inbox := mustCreateRoom(t, svc, owner, "Inbox", nil)
	drafts := mustCreateRoom(t, svc, owner, "Drafts", inbox)
	urgent := mustCreateRoom(t, svc, owner, "Urgent", drafts)

	assert.Empty(t, inbox.Path)
	assert.True(t, inbox.IsRoot())
	assert.Equal(t, []uuid.UUID{inbox.ID}, drafts.Path)
	assert.Equal(t, []uuid.UUID{inbox.ID, drafts.ID}, urgent.Path)
	require.NotNil(t, urgent.ParentID)
	assert.Equal(t, drafts.ID, *urgent.ParentID)
}

func TestCreateRoom_Validation(t *testing.T) {
	svc, s := newRoomService(t)
	owner := uuid.New()
	ctx := context.Background()

	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Empty", input: "", wantErr: true},
		{name: "Whitespace only", input: "   \t", wantErr: true},
		{name: "Too long", input: strings.Repeat("a", 101), wantErr: true},
		{name: "Exactly 100 runes", input: strings.Repeat("é", 100), wantErr: false},
		{name: "Trimmed", input: "  Inbox  ", wantErr: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			room, err := svc.CreateRoom(ctx, owner, tc.input, nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, "name", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tc.input), room.Name)
		})
	}

	rooms, err := s.Rooms().List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestCreateRoom_ParentMustBelongToOwner(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	alicesRoom := mustCreateRoom(t, svc, alice, "Private", nil)

	_, err := svc.CreateRoom(ctx, bob, "Sneaky", &alicesRoom.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	missing := uuid.New()
	_, err = svc.CreateRoom(ctx, alice, "Lost", &missing)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestListChildRooms_RootDetection(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	implicit := mustCreateRoom(t, svc, owner, "No parent argument", nil)
	zero := uuid.Nil
	explicit, err := svc.CreateRoom(ctx, owner, "Explicit null parent", &zero)
	require.NoError(t, err)
	mustCreateRoom(t, svc, owner, "Sub", implicit)
	mustCreateRoom(t, svc, uuid.New(), "Someone else's root", nil)

	roots, err := svc.ListChildRooms(ctx, owner, nil)
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, r := range roots {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{implicit.ID, explicit.ID}, ids)

	children, err := svc.ListChildRooms(ctx, owner, &implicit.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Sub", children[0].Name)

	_, err = svc.ListChildRooms(ctx, uuid.New(), &implicit.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomOwnershipIsolation(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	a := mustCreateRoom(t, svc, owner, "A", nil)
	missing := uuid.New()

	for _, id := range []uuid.UUID{a.ID, missing} {
		_, err := svc.GetRoom(ctx, stranger, id)
		assert.ErrorIs(t, err, ErrRoomNotFound)

		_, err = svc.RenameRoom(ctx, stranger, id, "Mine now")
		assert.ErrorIs(t, err, ErrRoomNotFound)

		_, err = svc.DeleteRoom(ctx, stranger, id)
		assert.ErrorIs(t, err, ErrRoomNotFound)

		_, err = svc.GetBreadcrumb(ctx, stranger, id)
		assert.ErrorIs(t, err, ErrRoomNotFound)

		_, err = svc.MoveRoom(ctx, stranger, id, nil)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	}

	got, err := svc.GetRoom(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestRenameRoom_KeepsPlacement(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	inbox := mustCreateRoom(t, svc, owner, "Inbox", nil)
	drafts := mustCreateRoom(t, svc, owner, "Drafts", inbox)

	renamed, err := svc.RenameRoom(ctx, owner, drafts.ID, "  Later ")
	require.NoError(t, err)
	assert.Equal(t, "Later", renamed.Name)
	assert.Equal(t, []uuid.UUID{inbox.ID}, renamed.Path)
	require.NotNil(t, renamed.ParentID)
	assert.Equal(t, inbox.ID, *renamed.ParentID)

	_, err = svc.RenameRoom(ctx, owner, drafts.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteRoom_CascadesThroughSubtree(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		t.Run(map[bool]string{true: "atomic", false: "stepwise"}[atomic], func(t *testing.T) {
			s := testutils.NewTestStore(t)
			svc := NewRoomService(s, atomic, nil)
			notes := NewNoteService(s, nil)
			ctx := context.Background()
			owner := uuid.New()

			inbox := mustCreateRoom(t, svc, owner, "Inbox", nil)
			drafts := mustCreateRoom(t, svc, owner, "Drafts", inbox)
			urgent := mustCreateRoom(t, svc, owner, "Urgent", drafts)
			keep := mustCreateRoom(t, svc, owner, "Keep", nil)

			n, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: urgent.ID.String(), Title: "N"})
			require.NoError(t, err)
			kept, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: keep.ID.String()})
			require.NoError(t, err)

			result, err := svc.DeleteRoom(ctx, owner, inbox.ID)
			require.NoError(t, err)
			assert.Equal(t, CascadeResult{Rooms: 3, Notes: 1}, result)

			for _, id := range []uuid.UUID{inbox.ID, drafts.ID, urgent.ID} {
				_, err := svc.GetRoom(ctx, owner, id)
				assert.ErrorIs(t, err, ErrRoomNotFound)
			}
			_, err = notes.GetNote(ctx, owner, n.ID)
			assert.ErrorIs(t, err, ErrNoteNotFound)

			_, err = svc.GetRoom(ctx, owner, keep.ID)
			assert.NoError(t, err)
			_, err = notes.GetNote(ctx, owner, kept.ID)
			assert.NoError(t, err)
		})
	}
}

func TestDeleteRoom_Idempotent(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	root := mustCreateRoom(t, svc, owner, "Root", nil)
	child := mustCreateRoom(t, svc, owner, "Child", root)
	mustCreateRoom(t, svc, owner, "Grandchild", child)

	// Deleting the child first leaves only the root for the second cascade.
	first, err := svc.DeleteRoom(ctx, owner, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Rooms)

	second, err := svc.DeleteRoom(ctx, owner, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Rooms)

	_, err = svc.DeleteRoom(ctx, owner, root.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDeleteRoom_CancelledContextLeavesRecoverableState(t *testing.T) {
	s := testutils.NewTestStore(t)
	svc := NewRoomService(s, false, nil)
	owner := uuid.New()

	root := mustCreateRoom(t, svc, owner, "Root", nil)
	mustCreateRoom(t, svc, owner, "Child", root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.DeleteRoom(ctx, owner, root.ID)
	assert.ErrorIs(t, err, context.Canceled)

	result, err := svc.DeleteRoom(context.Background(), owner, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rooms)
}

func TestMoveRoom(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	a := mustCreateRoom(t, svc, owner, "A", nil)
	b := mustCreateRoom(t, svc, owner, "B", a)
	c := mustCreateRoom(t, svc, owner, "C", b)
	other := mustCreateRoom(t, svc, owner, "Other", nil)

	t.Run("Under itself", func(t *testing.T) {
		_, err := svc.MoveRoom(ctx, owner, a.ID, &a.ID)
		assert.ErrorIs(t, err, ErrRoomCycle)
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "parentRoom", vErr.Field)
	})

	t.Run("Under a descendant", func(t *testing.T) {
		_, err := svc.MoveRoom(ctx, owner, a.ID, &c.ID)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrRoomCycle)
	})

	t.Run("Subtree paths follow the move", func(t *testing.T) {
		moved, err := svc.MoveRoom(ctx, owner, b.ID, &other.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{other.ID}, moved.Path)

		gotC, err := svc.GetRoom(ctx, owner, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{other.ID, b.ID}, gotC.Path)
	})

	t.Run("To root", func(t *testing.T) {
		moved, err := svc.MoveRoom(ctx, owner, b.ID, nil)
		require.NoError(t, err)
		assert.True(t, moved.IsRoot())
		assert.Empty(t, moved.Path)

		gotC, err := svc.GetRoom(ctx, owner, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID}, gotC.Path)
	})

	t.Run("Foreign parent", func(t *testing.T) {
		foreign := mustCreateRoom(t, svc, uuid.New(), "Foreign", nil)
		_, err := svc.MoveRoom(ctx, owner, b.ID, &foreign.ID)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestGetBreadcrumb(t *testing.T) {
	svc, _ := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	inbox := mustCreateRoom(t, svc, owner, "Inbox", nil)
	drafts := mustCreateRoom(t, svc, owner, "Drafts", inbox)
	urgent := mustCreateRoom(t, svc, owner, "Urgent", drafts)

	crumbs, err := svc.GetBreadcrumb(ctx, owner, urgent.ID)
	require.NoError(t, err)
	names := []string{}
	for _, r := range crumbs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Inbox", "Drafts", "Urgent"}, names)

	crumbs, err = svc.GetBreadcrumb(ctx, owner, inbox.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 1)
	assert.Equal(t, inbox.ID, crumbs[0].ID)
}

func TestSweepOrphans(t *testing.T) {
	svc, s := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	root := mustCreateRoom(t, svc, owner, "Root", nil)
	child := mustCreateRoom(t, svc, owner, "Child", root)
	grandchild := mustCreateRoom(t, svc, owner, "Grandchild", child)
	require.NoError(t, s.Notes().Create(ctx, &models.Note{UserID: owner, RoomID: grandchild.ID, Title: "deep"}))
	require.NoError(t, s.Notes().Create(ctx, &models.Note{UserID: owner, RoomID: root.ID, Title: "top"}))

	// Simulate a cascade that died after removing only the root.
	deleted, err := s.Rooms().Delete(ctx, owner, root.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	result, err := svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.OrphanRooms)
	assert.Equal(t, 2, result.Rooms)
	assert.Equal(t, int64(2), result.Notes)

	rooms, err := s.Rooms().List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	again, err := svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, again)
}

func TestRoomMutationsAppendOutboxEvents(t *testing.T) {
	svc, s := newRoomService(t)
	ctx := context.Background()
	owner := uuid.New()

	room := mustCreateRoom(t, svc, owner, "Inbox", nil)
	_, err := svc.RenameRoom(ctx, owner, room.ID, "Renamed")
	require.NoError(t, err)
	_, err = svc.DeleteRoom(ctx, owner, room.ID)
	require.NoError(t, err)

	events, err := s.Events().Pending(ctx, 10)
	require.NoError(t, err)
	types := []string{}
	for _, e := range events {
		types = append(types, e.Event)
		assert.Equal(t, owner, e.ActorID)
		assert.Equal(t, room.ID, e.EntityID)
	}
	assert.Equal(t, []string{EventRoomCreated, EventRoomRenamed, EventRoomDeleted}, types)
}

// assertTreeConsistent checks that every room's path is its parent's path plus the parent.
func assertTreeConsistent(t *testing.T, rooms []models.Room) {
	t.Helper()
	byID := make(map[uuid.UUID]models.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	for _, r := range rooms {
		if r.ParentID == nil {
			assert.Empty(t, r.Path, "root %s has a path", r.Name)
			continue
		}
		parent, ok := byID[*r.ParentID]
		if !assert.True(t, ok, "room %s has a dangling parent", r.Name) {
			continue
		}
		assert.Equal(t, parent.ChildPath(), r.Path, "room %s path", r.Name)
	}
}

func TestRoomTreeProperties_RandomTrees(t *testing.T) {
	svc, s := newRoomService(t)
	notes := NewNoteService(s, nil)
	ctx := context.Background()
	owner := uuid.New()
	rng := rand.New(rand.NewSource(42))

	var rooms []*models.Room
	for i := 0; i < 60; i++ {
		var parent *models.Room
		if len(rooms) > 0 && rng.Intn(4) != 0 {
			parent = rooms[rng.Intn(len(rooms))]
		}
		room := mustCreateRoom(t, svc, owner, "room", parent)
		rooms = append(rooms, room)
		if rng.Intn(2) == 0 {
			_, err := notes.CreateNote(ctx, owner, CreateNoteInput{RoomID: room.ID.String()})
			require.NoError(t, err)
		}
	}

	all, err := svc.ListRooms(ctx, owner)
	require.NoError(t, err)
	assertTreeConsistent(t, all)

	for i := 0; i < 20; i++ {
		target := rooms[rng.Intn(len(rooms))]
		var parent *uuid.UUID
		if rng.Intn(3) != 0 {
			p := rooms[rng.Intn(len(rooms))].ID
			parent = &p
		}
		_, err := svc.MoveRoom(ctx, owner, target.ID, parent)
		if err != nil {
			assert.ErrorIs(t, err, ErrRoomCycle)
		}
	}

	all, err = svc.ListRooms(ctx, owner)
	require.NoError(t, err)
	assertTreeConsistent(t, all)

	victim := all[rng.Intn(len(all))]
	_, err = svc.DeleteRoom(ctx, owner, victim.ID)
	require.NoError(t, err)

	survivors, err := svc.ListRooms(ctx, owner)
	require.NoError(t, err)
	surviving := make(map[uuid.UUID]bool, len(survivors))
	for _, r := range survivors {
		assert.NotEqual(t, victim.ID, r.ID)
		assert.False(t, r.HasAncestor(victim.ID), "descendant %s survived", r.ID)
		surviving[r.ID] = true
	}
	assertTreeConsistent(t, survivors)

	remaining, err := notes.ListNotes(ctx, owner, nil)
	require.NoError(t, err)
	for _, n := range remaining {
		assert.True(t, surviving[n.RoomID], "note %s outlived its room", n.ID)
	}
}
