package ports

import (
	"context"
	"time"
)

// OrderSummary is the list-row projection of an order.
type OrderSummary struct {
	ID           string
	Number       string
	CustomerID   string
	Address      string
	Status       string
	WorkDate     time.Time
	IsBirzhaOpen bool
	IsFrozen     bool
	PlannedTrips int
	ActualTrips  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderSummaryReader serves list screens without loading whole aggregates.
type OrderSummaryReader interface {
	ListSummaries(ctx context.Context, filter OrderFilter) ([]OrderSummary, error)
}
