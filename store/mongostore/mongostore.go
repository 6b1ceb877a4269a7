// Package mongostore implements store.Store on MongoDB. Transactions need a replica set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noteria/backend/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	roomsCollection  = "rooms"
	notesCollection  = "notes"
	usersCollection  = "users"
	eventsCollection = "events"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the connection and ensures indexes on database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		roomsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "parent", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		notesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "room", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "dispatched", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Rooms() store.RoomRepository {
	return &roomRepository{coll: s.db.Collection(roomsCollection)}
}

func (s *Store) Notes() store.NoteRepository {
	return &noteRepository{coll: s.db.Collection(notesCollection)}
}

func (s *Store) Users() store.UserRepository {
	return &userRepository{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Events() store.EventRepository {
	return &eventRepository{coll: s.db.Collection(eventsCollection)}
}

// WithTx runs fn in a multi-document transaction. The session travels in ctx, so the
// repositories of s take part in it without being rebound.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, s)
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes every collection. Used to reset integration test databases.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// findOwned loads one document of type D by id, scoped to owner.
func findOwned[D any](ctx context.Context, coll *mongo.Collection, owner, id uuid.UUID) (*D, error) {
	var doc D
	err := coll.FindOne(ctx, bson.M{"_id": id.String(), "user": owner.String()}).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func findAll[D any](ctx context.Context, coll *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]D, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	docs := []D{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

func newestFirst() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
