// Package memory keeps orders, outbox events and directory records in process
// memory. It backs local runs (STORAGE_DRIVER=memory) and tests, and follows
// the same version rules as the database adapters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type outboxRecord struct {
	event       ports.OrderEvent
	publishedAt *time.Time
}

// Store is safe for concurrent use. Aggregates are held as snapshots so
// callers never share mutable state with the store.
type Store struct {
	mu        sync.RWMutex
	orders    map[string]order.Snapshot
	outbox    []outboxRecord
	companies map[string]ports.Company
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[string]order.Snapshot),
		companies: make(map[string]ports.Company),
	}
}

// Create opens a unit of work whose writes become visible on Commit.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// Add, Update, Get, GetForUpdate and List make the store a ports.OrderRepository
// for reads and single writes outside a unit of work.
func (s *Store) Add(ctx context.Context, aggregate *order.Order) error {
	uow := s.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (s *Store) Update(ctx context.Context, aggregate *order.Order) error {
	uow := s.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (s *Store) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	snapshot, ok := s.orders[id.String()]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snapshot)
}

func (s *Store) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return s.Get(ctx, id)
}

func (s *Store) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.RLock()
	snapshots := make([]order.Snapshot, 0, len(s.orders))
	for _, snapshot := range s.orders {
		snapshots = append(snapshots, snapshot)
	}
	s.mu.RUnlock()

	result := make([]*order.Order, 0, len(snapshots))
	for _, snapshot := range snapshots {
		o, err := order.RestoreOrder(snapshot)
		if err != nil {
			return nil, fmt.Errorf("restore order %s: %w", snapshot.ID, err)
		}
		if filter.Matches(o) {
			result = append(result, o)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].WorkDate().Equal(result[j].WorkDate()) {
			return result[i].WorkDate().After(result[j].WorkDate())
		}
		return result[i].Number() < result[j].Number()
	})

	return ports.Page(result, filter), nil
}

// ListSummaries serves the list screen from the same snapshots.
func (s *Store) ListSummaries(ctx context.Context, filter ports.OrderFilter) ([]ports.OrderSummary, error) {
	orders, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, ports.OrderSummary{
			ID:           o.ID().String(),
			Number:       o.Number(),
			CustomerID:   o.CustomerID(),
			Address:      o.Address(),
			Status:       o.Status().String(),
			WorkDate:     o.WorkDate(),
			IsBirzhaOpen: o.IsBirzhaOpen(),
			IsFrozen:     o.IsFrozen(),
			PlannedTrips: o.PlannedTrips(),
			ActualTrips:  o.ActualTrips(),
			CreatedAt:    o.CreatedAt(),
			UpdatedAt:    o.UpdatedAt(),
		})
	}
	return summaries, nil
}

// FetchPending returns unpublished events in commit order.
func (s *Store) FetchPending(_ context.Context, limit int) ([]ports.OrderEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []ports.OrderEvent
	for _, r := range s.outbox {
		if r.publishedAt != nil {
			continue
		}
		events = append(events, r.event)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (s *Store) MarkPublished(_ context.Context, ids []kernel.UUID, at time.Time) error {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id.String()] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if _, ok := wanted[s.outbox[i].event.ID.String()]; ok && s.outbox[i].publishedAt == nil {
			stamp := at
			s.outbox[i].publishedAt = &stamp
		}
	}
	return nil
}

// commit applies staged writes atomically, or none of them when any version
// check fails.
func (s *Store) commit(added, updated map[string]order.Snapshot, events []ports.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range added {
		if _, exists := s.orders[id]; exists {
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s already exists", id))
		}
	}
	for id, snapshot := range updated {
		stored, exists := s.orders[id]
		if !exists {
			return errs.NewObjectNotFoundError("order", id)
		}
		if stored.Version != snapshot.Version-1 {
			return errs.NewVersionIsInvalidError("order",
				fmt.Errorf("order %s is at version %d, update expected %d", id, stored.Version, snapshot.Version-1))
		}
	}

	for id, snapshot := range added {
		s.orders[id] = snapshot
	}
	for id, snapshot := range updated {
		s.orders[id] = snapshot
	}
	for _, e := range events {
		s.outbox = append(s.outbox, outboxRecord{event: e})
	}
	return nil
}
