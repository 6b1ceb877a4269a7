package mongostore

import (
	"fmt"
	"time"

	"noteria/backend/models"

	"github.com/google/uuid"
)

// Ids are stored as canonical uuid strings. A root room has no "parent" field at all.

type roomDoc struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	Name      string    `bson:"name"`
	Parent    *string   `bson:"parent,omitempty"`
	Path      []string  `bson:"path"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type noteDoc struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	Room      string    `bson:"room"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type eventDoc struct {
	ID           string     `bson:"_id"`
	Event        string     `bson:"event"`
	Version      int        `bson:"version"`
	Entity       string     `bson:"entity"`
	EntityID     string     `bson:"entityId"`
	ActorID      string     `bson:"actorId"`
	Timestamp    time.Time  `bson:"timestamp"`
	Data         string     `bson:"data"`
	Status       string     `bson:"status"`
	Dispatched   bool       `bson:"dispatched"`
	DispatchedAt *time.Time `bson:"dispatchedAt,omitempty"`
}

type idDoc struct {
	ID string `bson:"_id"`
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stored id %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}

func toRoomDoc(r *models.Room) roomDoc {
	r.Normalize()
	doc := roomDoc{
		ID:        r.ID.String(),
		User:      r.UserID.String(),
		Name:      r.Name,
		Path:      idStrings(r.Path),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ParentID != nil {
		parent := r.ParentID.String()
		doc.Parent = &parent
	}
	return doc
}

func (d roomDoc) model() (models.Room, error) {
	room := models.Room{Name: d.Name, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	var err error
	if room.ID, err = uuid.Parse(d.ID); err != nil {
		return room, fmt.Errorf("invalid room id %q: %w", d.ID, err)
	}
	if room.UserID, err = uuid.Parse(d.User); err != nil {
		return room, fmt.Errorf("invalid room owner %q: %w", d.User, err)
	}
	if d.Parent != nil && *d.Parent != "" {
		parent, err := uuid.Parse(*d.Parent)
		if err != nil {
			return room, fmt.Errorf("invalid room parent %q: %w", *d.Parent, err)
		}
		room.ParentID = &parent
	}
	if room.Path, err = parseIDs(d.Path); err != nil {
		return room, err
	}
	room.Normalize()
	return room, nil
}

func toNoteDoc(n *models.Note) noteDoc {
	return noteDoc{
		ID:        n.ID.String(),
		User:      n.UserID.String(),
		Room:      n.RoomID.String(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (d noteDoc) model() (models.Note, error) {
	note := models.Note{Title: d.Title, Content: d.Content, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
	var err error
	if note.ID, err = uuid.Parse(d.ID); err != nil {
		return note, fmt.Errorf("invalid note id %q: %w", d.ID, err)
	}
	if note.UserID, err = uuid.Parse(d.User); err != nil {
		return note, fmt.Errorf("invalid note owner %q: %w", d.User, err)
	}
	if note.RoomID, err = uuid.Parse(d.Room); err != nil {
		return note, fmt.Errorf("invalid note room %q: %w", d.Room, err)
	}
	return note, nil
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) model() (models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return models.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func toEventDoc(e *models.Event) eventDoc {
	return eventDoc{
		ID:           e.ID.String(),
		Event:        e.Event,
		Version:      e.Version,
		Entity:       e.Entity,
		EntityID:     e.EntityID.String(),
		ActorID:      e.ActorID.String(),
		Timestamp:    e.Timestamp,
		Data:         string(e.Data),
		Status:       e.Status,
		Dispatched:   e.Dispatched,
		DispatchedAt: e.DispatchedAt,
	}
}

func (d eventDoc) model() (models.Event, error) {
	event := models.Event{
		Event:        d.Event,
		Version:      d.Version,
		Entity:       d.Entity,
		Timestamp:    d.Timestamp,
		Data:         []byte(d.Data),
		Status:       d.Status,
		Dispatched:   d.Dispatched,
		DispatchedAt: d.DispatchedAt,
	}
	ids, err := parseIDs([]string{d.ID, d.EntityID, d.ActorID})
	if err != nil {
		return event, err
	}
	event.ID, event.EntityID, event.ActorID = ids[0], ids[1], ids[2]
	return event, nil
}

// decodeAll converts a slice of documents into models, failing on the first bad record.
func decodeAll[D interface{ model() (M, error) }, M any](docs []D) ([]M, error) {
	out := make([]M, 0, len(docs))
	for _, d := range docs {
		m, err := d.model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
