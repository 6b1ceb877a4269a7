package mongostore

import (
	"context"
	"time"

	"noteria/backend/models"
	"noteria/backend/store"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type roomRepository struct {
	coll *mongo.Collection
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toRoomDoc(room))
	return translate(err)
}

func (r *roomRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Room, error) {
	doc, err := findOwned[roomDoc](ctx, r.coll, owner, id)
	if err != nil {
		return nil, err
	}
	room, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) GetMany(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) ([]models.Room, error) {
	if len(ids) == 0 {
		return []models.Room{}, nil
	}
	docs, err := findAll[roomDoc](ctx, r.coll, bson.M{
		"user": owner.String(),
		"_id":  bson.M{"$in": idStrings(ids)},
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[roomDoc, models.Room](docs)
}

func (r *roomRepository) List(ctx context.Context, owner uuid.UUID) ([]models.Room, error) {
	docs, err := findAll[roomDoc](ctx, r.coll, bson.M{"user": owner.String()}, newestFirst())
	if err != nil {
		return nil, err
	}
	return decodeAll[roomDoc, models.Room](docs)
}

// ListChildren matches roots with {parent: null}, which also covers documents that
// carry an explicit null rather than no field.
func (r *roomRepository) ListChildren(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error) {
	filter := bson.M{"user": owner.String(), "parent": nil}
	if parent != nil {
		filter["parent"] = parent.String()
	}
	docs, err := findAll[roomDoc](ctx, r.coll, filter, newestFirst())
	if err != nil {
		return nil, err
	}
	return decodeAll[roomDoc, models.Room](docs)
}

func (r *roomRepository) ChildIDs(ctx context.Context, owner uuid.UUID, parents []uuid.UUID) ([]uuid.UUID, error) {
	if len(parents) == 0 {
		return []uuid.UUID{}, nil
	}
	docs, err := findAll[idDoc](ctx, r.coll, bson.M{
		"user":   owner.String(),
		"parent": bson.M{"$in": idStrings(parents)},
	}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	raw := make([]string, len(docs))
	for i, d := range docs {
		raw[i] = d.ID
	}
	return parseIDs(raw)
}

func (r *roomRepository) Rename(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error) {
	var doc roomDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "user": owner.String()},
		bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	room, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) SetPlacement(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID, path []uuid.UUID) error {
	set := bson.M{"path": idStrings(path), "updatedAt": time.Now().UTC()}
	update := bson.M{"$set": set}
	if parent == nil || *parent == uuid.Nil {
		update["$unset"] = bson.M{"parent": ""}
	} else {
		set["parent"] = parent.String()
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String(), "user": owner.String()}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "user": owner.String()})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *roomRepository) Orphans(ctx context.Context) ([]models.Room, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"parent": bson.M{"$ne": nil}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         roomsCollection,
			"localField":   "parent",
			"foreignField": "_id",
			"as":           "parentDocs",
		}}},
		{{Key: "$match", Value: bson.M{"parentDocs": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"parentDocs": 0}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	docs := []roomDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return decodeAll[roomDoc, models.Room](docs)
}
