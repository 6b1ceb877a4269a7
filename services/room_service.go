package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
)

type RoomServiceInterface interface {
	CreateRoom(ctx context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.Room, error)
	GetRoom(ctx context.Context, owner, id uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context, owner uuid.UUID) ([]models.Room, error)
	ListChildRooms(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error)
	RenameRoom(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error)
	MoveRoom(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID) (*models.Room, error)
	GetBreadcrumb(ctx context.Context, owner, id uuid.UUID) ([]models.Room, error)
	DeleteRoom(ctx context.Context, owner, id uuid.UUID) (CascadeResult, error)
	SweepOrphans(ctx context.Context) (SweepResult, error)
}

// CascadeResult counts what a subtree deletion removed.
type CascadeResult struct {
	Rooms int   `json:"deletedRooms"`
	Notes int64 `json:"deletedNotes"`
}

type SweepResult struct {
	OrphanRooms int   `json:"orphanRooms"`
	Rooms       int   `json:"deletedRooms"`
	Notes       int64 `json:"deletedNotes"`
}

type RoomService struct {
	store         store.Store
	atomicCascade bool
	logger        *slog.Logger
}

// NewRoomService builds the room tree service. With atomicCascade false, subtree
// deletion runs step by step and relies on SweepOrphans to finish interrupted work.
func NewRoomService(s store.Store, atomicCascade bool, logger *slog.Logger) *RoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{store: s, atomicCascade: atomicCascade, logger: logger}
}

func (s *RoomService) CreateRoom(ctx context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.Room, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if parent != nil && *parent == uuid.Nil {
		parent = nil
	}

	room := &models.Room{
		ID:     uuid.New(),
		UserID: owner,
		Name:   name,
		Path:   []uuid.UUID{},
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if parent != nil {
			p, err := tx.Rooms().Get(ctx, owner, *parent)
			if err != nil {
				return storeErr(err, roomNotFound(*parent))
			}
			room.ParentID = &p.ID
			room.Path = p.ChildPath()
		}
		if err := tx.Rooms().Create(ctx, room); err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventRoomCreated, EntityRoom, room.ID, owner, room)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("room created", "room_id", room.ID, "user_id", owner, "depth", len(room.Path))
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, owner, id uuid.UUID) (*models.Room, error) {
	room, err := s.store.Rooms().Get(ctx, owner, id)
	if err != nil {
		return nil, storeErr(err, roomNotFound(id))
	}
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context, owner uuid.UUID) ([]models.Room, error) {
	return s.store.Rooms().List(ctx, owner)
}

// ListChildRooms lists the owner's root rooms when parent is nil, otherwise the
// direct children of a parent the owner must hold.
func (s *RoomService) ListChildRooms(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error) {
	if parent != nil && *parent == uuid.Nil {
		parent = nil
	}
	if parent != nil {
		if _, err := s.store.Rooms().Get(ctx, owner, *parent); err != nil {
			return nil, storeErr(err, roomNotFound(*parent))
		}
	}
	return s.store.Rooms().ListChildren(ctx, owner, parent)
}

func (s *RoomService) RenameRoom(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var room *models.Room
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		var err error
		room, err = tx.Rooms().Rename(ctx, owner, id, name)
		if err != nil {
			return storeErr(err, roomNotFound(id))
		}
		return appendEvent(ctx, tx, EventRoomRenamed, EntityRoom, room.ID, owner, map[string]interface{}{
			"id":   room.ID,
			"name": room.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// MoveRoom reparents a room, or makes it a root when parent is nil, and rewrites the
// path of every room in the moved subtree.
func (s *RoomService) MoveRoom(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID) (*models.Room, error) {
	if parent != nil && *parent == uuid.Nil {
		parent = nil
	}

	var moved *models.Room
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		room, err := tx.Rooms().Get(ctx, owner, id)
		if err != nil {
			return storeErr(err, roomNotFound(id))
		}

		subtree, err := collectSubtree(ctx, tx.Rooms(), owner, room.ID)
		if err != nil {
			return err
		}

		newPath := []uuid.UUID{}
		if parent != nil {
			if slices.Contains(subtree, *parent) {
				return &ValidationError{Field: "parentRoom", Message: ErrRoomCycle.Error(), Err: ErrRoomCycle}
			}
			p, err := tx.Rooms().Get(ctx, owner, *parent)
			if err != nil {
				return storeErr(err, roomNotFound(*parent))
			}
			newPath = p.ChildPath()
		}

		if err := tx.Rooms().SetPlacement(ctx, owner, room.ID, parent, newPath); err != nil {
			return storeErr(err, roomNotFound(id))
		}
		if err := rewriteDescendantPaths(ctx, tx.Rooms(), owner, subtree, newPath); err != nil {
			return err
		}

		moved, err = tx.Rooms().Get(ctx, owner, room.ID)
		if err != nil {
			return storeErr(err, roomNotFound(id))
		}
		return appendEvent(ctx, tx, EventRoomMoved, EntityRoom, moved.ID, owner, map[string]interface{}{
			"id":          moved.ID,
			"parentRoom":  moved.ParentID,
			"path":        moved.Path,
			"subtreeSize": len(subtree),
		})
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// rewriteDescendantPaths recomputes paths below subtree[0], whose new path is rootPath.
// subtree is in breadth-first order, so every parent is settled before its children.
func rewriteDescendantPaths(ctx context.Context, rooms store.RoomRepository, owner uuid.UUID, subtree []uuid.UUID, rootPath []uuid.UUID) error {
	if len(subtree) < 2 {
		return nil
	}
	descendants, err := rooms.GetMany(ctx, owner, subtree[1:])
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]models.Room, len(descendants))
	for _, r := range descendants {
		byID[r.ID] = r
	}

	paths := map[uuid.UUID][]uuid.UUID{subtree[0]: rootPath}
	for _, id := range subtree[1:] {
		r, ok := byID[id]
		if !ok || r.ParentID == nil {
			continue
		}
		parentPath, ok := paths[*r.ParentID]
		if !ok {
			continue
		}
		path := make([]uuid.UUID, 0, len(parentPath)+1)
		path = append(append(path, parentPath...), *r.ParentID)
		paths[id] = path
		if err := rooms.SetPlacement(ctx, owner, id, r.ParentID, path); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// GetBreadcrumb returns the room's ancestors from the root down, followed by the room.
func (s *RoomService) GetBreadcrumb(ctx context.Context, owner, id uuid.UUID) ([]models.Room, error) {
	room, err := s.store.Rooms().Get(ctx, owner, id)
	if err != nil {
		return nil, storeErr(err, roomNotFound(id))
	}

	ancestors, err := s.store.Rooms().GetMany(ctx, owner, room.Path)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Room, len(ancestors))
	for _, a := range ancestors {
		byID[a.ID] = a
	}

	crumbs := make([]models.Room, 0, len(room.Path)+1)
	for _, ancestorID := range room.Path {
		ancestor, ok := byID[ancestorID]
		if !ok {
			s.logger.Warn("breadcrumb ancestor missing", "room_id", room.ID, "ancestor_id", ancestorID)
			continue
		}
		crumbs = append(crumbs, ancestor)
	}
	return append(crumbs, *room), nil
}

// DeleteRoom removes the room, every descendant room and every note in any of them.
func (s *RoomService) DeleteRoom(ctx context.Context, owner, id uuid.UUID) (CascadeResult, error) {
	var result CascadeResult
	run := func(ctx context.Context, tx store.Store) error {
		if _, err := tx.Rooms().Get(ctx, owner, id); err != nil {
			return storeErr(err, roomNotFound(id))
		}
		var err error
		result, err = cascade(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		return appendEvent(ctx, tx, EventRoomDeleted, EntityRoom, id, owner, map[string]interface{}{
			"id":           id,
			"deletedRooms": result.Rooms,
			"deletedNotes": result.Notes,
		})
	}

	var err error
	if s.atomicCascade {
		err = s.store.WithTx(ctx, run)
	} else {
		err = run(ctx, s.store)
	}
	if err != nil {
		return CascadeResult{}, err
	}

	s.logger.Info("room subtree deleted", "room_id", id, "user_id", owner,
		"rooms", result.Rooms, "notes", result.Notes)
	return result, nil
}

// SweepOrphans deletes rooms whose parent is gone, with their subtrees, and notes
// whose room is gone. It finishes cascades interrupted by a crash or cancellation.
func (s *RoomService) SweepOrphans(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	orphans, err := s.store.Rooms().Orphans(ctx)
	if err != nil {
		return result, err
	}
	result.OrphanRooms = len(orphans)

	for _, orphan := range orphans {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		var removed CascadeResult
		run := func(ctx context.Context, tx store.Store) error {
			var err error
			removed, err = cascade(ctx, tx, orphan.UserID, orphan.ID)
			if err != nil {
				return err
			}
			return appendEvent(ctx, tx, EventRoomDeleted, EntityRoom, orphan.ID, orphan.UserID, map[string]interface{}{
				"id":           orphan.ID,
				"deletedRooms": removed.Rooms,
				"deletedNotes": removed.Notes,
				"reason":       "orphan",
			})
		}
		if s.atomicCascade {
			err = s.store.WithTx(ctx, run)
		} else {
			err = run(ctx, s.store)
		}
		if err != nil {
			return result, err
		}
		result.Rooms += removed.Rooms
		result.Notes += removed.Notes
	}

	notes, err := s.store.Notes().DeleteOrphans(ctx)
	if err != nil {
		return result, err
	}
	result.Notes += notes

	if result.OrphanRooms > 0 || notes > 0 {
		s.logger.Info("orphan sweep removed records",
			"orphan_rooms", result.OrphanRooms, "rooms", result.Rooms, "notes", result.Notes)
	}
	return result, nil
}

// cascade deletes the subtree rooted at rootID, deepest rooms first. Rooms or notes
// that vanish concurrently are skipped, so rerunning a partial cascade completes it.
func cascade(ctx context.Context, tx store.Store, owner, rootID uuid.UUID) (CascadeResult, error) {
	var result CascadeResult

	subtree, err := collectSubtree(ctx, tx.Rooms(), owner, rootID)
	if err != nil {
		return result, err
	}

	for i := len(subtree) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		notes, err := tx.Notes().DeleteByRoom(ctx, owner, subtree[i])
		if err != nil {
			return result, err
		}
		result.Notes += notes

		deleted, err := tx.Rooms().Delete(ctx, owner, subtree[i])
		if err != nil {
			return result, err
		}
		if deleted {
			result.Rooms++
		}
	}
	return result, nil
}

// collectSubtree walks the tree breadth-first from rootID with an explicit worklist.
// The seen set stops the walk on a corrupted, cyclic parent chain.
func collectSubtree(ctx context.Context, rooms store.RoomRepository, owner, rootID uuid.UUID) ([]uuid.UUID, error) {
	order := []uuid.UUID{rootID}
	seen := map[uuid.UUID]struct{}{rootID: {}}
	frontier := []uuid.UUID{rootID}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		children, err := rooms.ChildIDs(ctx, owner, frontier)
		if err != nil {
			return nil, err
		}
		next := make([]uuid.UUID, 0, len(children))
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			order = append(order, child)
			next = append(next, child)
		}
		frontier = next
	}
	return order, nil
}

