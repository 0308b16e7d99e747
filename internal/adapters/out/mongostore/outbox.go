package mongostore

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PublishedEventRetention is how long a published event stays in its order's
// outbox array before MarkPublished prunes it.
const PublishedEventRetention = 24 * time.Hour

// FetchPending unwinds the outbox arrays of all orders and returns the
// oldest unpublished events.
func (s *Store) FetchPending(ctx context.Context, limit int) ([]ports.OrderEvent, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"outbox": bson.M{"$elemMatch": bson.M{"publishedAt": nil}}}}},
		{{Key: "$unwind", Value: "$outbox"}},
		{{Key: "$match", Value: bson.M{"outbox.publishedAt": nil}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$outbox"}}},
		{{Key: "$sort", Value: bson.D{{Key: "occurredAt", Value: 1}, {Key: "id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]ports.OrderEvent, 0, len(docs))
	for _, doc := range docs {
		e, eErr := doc.toEvent()
		if eErr != nil {
			return nil, eErr
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *Store) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"e.id": bson.M{"$in": raw}}},
	})
	_, err := s.orders.UpdateMany(ctx,
		bson.M{"outbox.id": bson.M{"$in": raw}},
		bson.M{"$set": bson.M{"outbox.$[e].publishedAt": at}},
		opts,
	)
	if err != nil {
		return err
	}
	return s.prunePublished(ctx, at.Add(-PublishedEventRetention))
}

// prunePublished drops events published before cutoff so outbox arrays stay
// bounded. Pending events are never touched.
func (s *Store) prunePublished(ctx context.Context, cutoff time.Time) error {
	stale := bson.M{"publishedAt": bson.M{"$lt": cutoff}}
	_, err := s.orders.UpdateMany(ctx,
		bson.M{"outbox": bson.M{"$elemMatch": stale}},
		bson.M{"$pull": bson.M{"outbox": stale}},
	)
	return err
}
