package mongostore

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials the server and checks the primary answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// Store is the document-backed implementation of the order ports.
type Store struct {
	orders    *mongo.Collection
	companies *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		orders:    db.Collection(ordersCollection),
		companies: db.Collection(companiesCollection),
	}
}

// EnsureIndexes creates the indexes list reads and the outbox relay rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
		{Keys: bson.D{{Key: "workDate", Value: -1}, {Key: "number", Value: 1}}},
		{Keys: bson.D{{Key: "outbox.publishedAt", Value: 1}}},
		{Keys: bson.D{{Key: "assignments.contractorId", Value: 1}}},
		{Keys: bson.D{{Key: "assignments.driverName", Value: 1}}},
	})
	return err
}

func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var doc orderDocument
	err := s.orders.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}
	return doc.toDomain()
}

func (s *Store) list(ctx context.Context, filter ports.OrderFilter, projection bson.M) ([]orderDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "workDate", Value: -1}, {Key: "number", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := s.orders.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func filterDocument(filter ports.OrderFilter) bson.M {
	query := bson.M{}

	status := bson.M{}
	if len(filter.Statuses) > 0 {
		in := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			in = append(in, st.String())
		}
		status["$in"] = in
	}
	if filter.ExcludeTerminal {
		status["$nin"] = []string{order.Completed.String(), order.Cancelled.String()}
	}
	if len(status) > 0 {
		query["status"] = status
	}

	if filter.CustomerID != "" {
		query["customerId"] = filter.CustomerID
	}

	assignment := bson.M{}
	if filter.ContractorID != "" {
		assignment["contractorId"] = filter.ContractorID
	}
	if filter.DriverName != "" {
		assignment["driverName"] = filter.DriverName
	}
	if len(assignment) > 0 {
		query["assignments"] = bson.M{"$elemMatch": assignment}
	}

	workDate := bson.M{}
	if filter.WorkDateFrom != nil {
		workDate["$gte"] = *filter.WorkDateFrom
	}
	if filter.WorkDateTo != nil {
		workDate["$lte"] = *filter.WorkDateTo
	}
	if len(workDate) > 0 {
		query["workDate"] = workDate
	}

	return query
}

// insert writes a new order at version 1 together with its first events.
func (s *Store) insert(ctx context.Context, doc orderDocument, events []eventDocument) error {
	doc.Version = 1
	doc.Outbox = events
	if _, err := s.orders.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s already exists", doc.ID))
		}
		return err
	}
	return nil
}

// replace overwrites the order's state if it is still at loaded and appends
// the new events to its outbox. The outbox array is never rewritten.
func (s *Store) replace(ctx context.Context, doc orderDocument, events []eventDocument, loaded int64) error {
	update := bson.M{
		"$set": bson.M{
			"customerId":   doc.CustomerID,
			"address":      doc.Address,
			"workDate":     doc.WorkDate,
			"isBirzhaOpen": doc.IsBirzhaOpen,
			"status":       doc.Status,
			"plannedTrips": doc.PlannedTrips,
			"actualTrips":  doc.ActualTrips,
			"isFrozen":     doc.IsFrozen,
			"updatedAt":    doc.UpdatedAt,
			"version":      loaded + 1,
			"requirements": doc.Requirements,
			"bids":         doc.Bids,
			"assignments":  doc.Assignments,
			"evidences":    doc.Evidences,
			"actionLog":    doc.ActionLog,
		},
	}
	if len(events) > 0 {
		update["$push"] = bson.M{"outbox": bson.M{"$each": events}}
	}

	result, err := s.orders.UpdateOne(ctx, bson.M{"_id": doc.ID, "version": loaded}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	var stored struct {
		Version int64 `bson:"version"`
	}
	err = s.orders.FindOne(ctx, bson.M{"_id": doc.ID},
		options.FindOne().SetProjection(bson.M{"version": 1})).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NewObjectNotFoundError("order", doc.ID)
	}
	if err != nil {
		return err
	}
	return errs.NewVersionIsInvalidError("order",
		fmt.Errorf("loaded at %d, stored at %d", loaded, stored.Version))
}

func (s *Store) ListSummaries(ctx context.Context, filter ports.OrderFilter) ([]ports.OrderSummary, error) {
	docs, err := s.list(ctx, filter, bson.M{
		"bids": 0, "assignments": 0, "evidences": 0, "actionLog": 0, "outbox": 0, "requirements": 0,
	})
	if err != nil {
		return nil, err
	}
	summaries := make([]ports.OrderSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.toSummary())
	}
	return summaries, nil
}
