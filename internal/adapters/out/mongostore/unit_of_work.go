package mongostore

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNoTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoTransaction = errors.New("unit of work has no open transaction")

type stagedWrite struct {
	aggregate *order.Order
	doc       orderDocument
	events    []eventDocument
	insert    bool
	loaded    int64
}

// UnitOfWork stages writes and applies them on Commit. Each staged order is
// one conditional document write; a command touches exactly one order.
type UnitOfWork struct {
	store  *Store
	active bool
	staged []stagedWrite
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}
	staged := uow.staged
	uow.active = false
	uow.staged = nil

	for _, w := range staged {
		if err := uow.store.apply(ctx, w); err != nil {
			return err
		}
	}
	for _, w := range staged {
		w.aggregate.MarkCommitted(w.committedVersion())
	}
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}
	uow.active = false
	uow.staged = nil
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (w stagedWrite) committedVersion() int64 {
	if w.insert {
		return 1
	}
	return w.loaded + 1
}

func (s *Store) apply(ctx context.Context, w stagedWrite) error {
	if w.insert {
		return s.insert(ctx, w.doc, w.events)
	}
	return s.replace(ctx, w.doc, w.events, w.loaded)
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, true)
}

func (r *orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	return r.write(ctx, aggregate, false)
}

// write stages the order inside a transaction and applies it right away
// outside of one.
func (r *orderRepository) write(ctx context.Context, aggregate *order.Order, insert bool) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	pending := ports.PendingEvents(aggregate)
	events := make([]eventDocument, 0, len(pending))
	for _, e := range pending {
		events = append(events, newEventDocument(e))
	}
	w := stagedWrite{
		aggregate: aggregate,
		doc:       newOrderDocument(aggregate),
		events:    events,
		insert:    insert,
		loaded:    aggregate.Version(),
	}

	if r.uow.active {
		r.uow.staged = append(r.uow.staged, w)
		return nil
	}
	if err := r.uow.store.apply(ctx, w); err != nil {
		return err
	}
	aggregate.MarkCommitted(w.committedVersion())
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.uow.store.get(ctx, id)
}

// GetForUpdate does not lock; the version filter on write rejects a writer
// that lost the race.
func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.uow.store.get(ctx, id)
}

func (r *orderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	docs, err := r.uow.store.list(ctx, filter, bson.M{"outbox": 0})
	if err != nil {
		return nil, err
	}
	orders := make([]*order.Order, 0, len(docs))
	for _, doc := range docs {
		o, dErr := doc.toDomain()
		if dErr != nil {
			return nil, dErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}
