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

type eventRepository struct {
	coll *mongo.Collection
}

func (r *eventRepository) Append(ctx context.Context, event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	_, err := r.coll.InsertOne(ctx, toEventDoc(event))
	return translate(err)
}

func (r *eventRepository) Pending(ctx context.Context, limit int) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(int64(limit))
	docs, err := findAll[eventDoc](ctx, r.coll, bson.M{"dispatched": false}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[eventDoc, models.Event](docs)
}

func (r *eventRepository) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": bson.M{
		"dispatched":   true,
		"dispatchedAt": at,
		"status":       models.EventStatusDispatched,
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
