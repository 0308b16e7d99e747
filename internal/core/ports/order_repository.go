package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderFilter narrows list reads. Zero fields do not filter.
type OrderFilter struct {
	Statuses        []order.Status
	ExcludeTerminal bool
	CustomerID      string
	// ContractorID and DriverName keep orders holding at least one
	// assignment of that contractor or driver.
	ContractorID    string
	DriverName      string
	WorkDateFrom    *time.Time
	WorkDateTo      *time.Time
	Limit           int
	Offset          int
}

// Matches applies the filter to a loaded aggregate. Stores without a query
// language use it directly.
func (f OrderFilter) Matches(o *order.Order) bool {
	if f.ExcludeTerminal && o.Status().IsTerminal() {
		return false
	}
	if f.CustomerID != "" && o.CustomerID() != f.CustomerID {
		return false
	}
	if (f.ContractorID != "" || f.DriverName != "") && !f.hasAssignment(o) {
		return false
	}
	if f.WorkDateFrom != nil && o.WorkDate().Before(*f.WorkDateFrom) {
		return false
	}
	if f.WorkDateTo != nil && o.WorkDate().After(*f.WorkDateTo) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if o.Status() == s {
			return true
		}
	}
	return false
}

func (f OrderFilter) hasAssignment(o *order.Order) bool {
	for _, a := range o.Assignments() {
		if f.ContractorID != "" && a.ContractorID() != f.ContractorID {
			continue
		}
		if f.DriverName != "" && a.DriverName() != f.DriverName {
			continue
		}
		return true
	}
	return false
}

// Page cuts a sorted result down to Offset and Limit.
func Page[T any](items []T, filter OrderFilter) []T {
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items
}

// OrderRepository stores whole Order aggregates keyed by id.
type OrderRepository interface {
	// Add persists a new order. Fails if the id already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an order previously read from this repository. It fails
	// with errs.ErrVersionIsInvalid when the stored version moved on since the read.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get that also locks the order for the rest of the
	// current transaction where the store supports it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns orders matching the filter, newest work date first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
