package memory

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("unit of work has no active transaction")

// UnitOfWork stages writes and hands them to the store on Commit. Reads see
// the staged state first.
type UnitOfWork struct {
	store   *Store
	active  bool
	added   map[string]order.Snapshot
	updated map[string]order.Snapshot
	events  []ports.OrderEvent
	tracked []trackedAggregate
}

type trackedAggregate struct {
	aggregate *order.Order
	version   int64
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return nil
	}

	u.active = true
	u.added = make(map[string]order.Snapshot)
	u.updated = make(map[string]order.Snapshot)
	u.events = nil
	u.tracked = nil
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}

	err := u.store.commit(u.added, u.updated, u.events)
	u.active = false
	if err != nil {
		return err
	}

	for _, t := range u.tracked {
		t.aggregate.MarkCommitted(t.version)
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}

	u.active = false
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if !r.uow.active {
		return ErrNoTransaction
	}

	snapshot := aggregate.Snapshot()
	snapshot.Version = 1
	r.stage(r.uow.added, aggregate, snapshot)
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if !r.uow.active {
		return ErrNoTransaction
	}

	id := aggregate.ID().String()
	if _, ok := r.uow.added[id]; ok {
		snapshot := aggregate.Snapshot()
		snapshot.Version = 1
		r.stage(r.uow.added, aggregate, snapshot)
		return nil
	}

	snapshot := aggregate.Snapshot()
	snapshot.Version = aggregate.Version() + 1
	r.stage(r.uow.updated, aggregate, snapshot)
	return nil
}

func (r *orderRepository) stage(target map[string]order.Snapshot, aggregate *order.Order, snapshot order.Snapshot) {
	target[aggregate.ID().String()] = snapshot
	r.uow.events = append(r.uow.events, ports.PendingEvents(aggregate)...)
	r.uow.tracked = append(r.uow.tracked, trackedAggregate{aggregate: aggregate, version: snapshot.Version})
}

func (r *orderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	key := id.String()
	if snapshot, ok := r.uow.added[key]; ok {
		return r.restoreStaged(snapshot, 0)
	}
	if snapshot, ok := r.uow.updated[key]; ok {
		return r.restoreStaged(snapshot, snapshot.Version-1)
	}
	return r.uow.store.Get(ctx, id)
}

// restoreStaged rebuilds a staged order at the version it was loaded at, so a
// second Update in the same unit of work passes the version check.
func (r *orderRepository) restoreStaged(snapshot order.Snapshot, version int64) (*order.Order, error) {
	snapshot.Version = version
	o, err := order.RestoreOrder(snapshot)
	if err != nil {
		return nil, fmt.Errorf("restore staged order: %w", err)
	}
	return o, nil
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *orderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	if len(r.uow.added) > 0 || len(r.uow.updated) > 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("filter",
			errors.New("listing inside a unit of work with staged writes is not supported"))
	}
	return r.uow.store.List(ctx, filter)
}
