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

type noteRepository struct {
	coll *mongo.Collection
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toNoteDoc(note))
	return translate(err)
}

func (r *noteRepository) Get(ctx context.Context, owner, id uuid.UUID) (*models.Note, error) {
	doc, err := findOwned[noteDoc](ctx, r.coll, owner, id)
	if err != nil {
		return nil, err
	}
	note, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error) {
	filter := bson.M{"user": owner.String()}
	if room != nil {
		filter["room"] = room.String()
	}
	docs, err := findAll[noteDoc](ctx, r.coll, filter, newestFirst())
	if err != nil {
		return nil, err
	}
	return decodeAll[noteDoc, models.Note](docs)
}

func (r *noteRepository) Update(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, owner, id)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}

	var doc noteDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String(), "user": owner.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	note, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "user": owner.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *noteRepository) DeleteByRoom(ctx context.Context, owner, room uuid.UUID) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"user": owner.String(), "room": room.String()})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *noteRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         roomsCollection,
			"localField":   "room",
			"foreignField": "_id",
			"as":           "roomDocs",
		}}},
		{{Key: "$match", Value: bson.M{"roomDocs": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	docs := []idDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	result, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
