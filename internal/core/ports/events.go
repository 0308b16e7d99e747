package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderEvent is an action log entry leaving the engine through the outbox.
type OrderEvent struct {
	ID            kernel.UUID `json:"id"`
	OrderID       kernel.UUID `json:"orderId"`
	OrderNumber   string      `json:"orderNumber"`
	ActionType    string      `json:"actionType"`
	Action        string      `json:"action"`
	PerformedBy   string      `json:"performedBy"`
	PreviousValue string      `json:"previousValue,omitempty"`
	NewValue      string      `json:"newValue,omitempty"`
	OrderStatus   string      `json:"orderStatus"`
	OccurredAt    time.Time   `json:"occurredAt"`
}

// EventPublisher delivers events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...OrderEvent) error
	Close() error
}

// OutboxStore reads and acknowledges events committed with their orders.
type OutboxStore interface {
	// FetchPending returns up to limit unpublished events, oldest first.
	FetchPending(ctx context.Context, limit int) ([]OrderEvent, error)

	// MarkPublished flags the events so they are not fetched again.
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// Notifier pushes events to connected clients. Delivery is best effort.
type Notifier interface {
	Notify(event OrderEvent)
}

// PendingEvents converts the log entries the order gained since it was loaded.
func PendingEvents(o *order.Order) []OrderEvent {
	actions := o.UncommittedActions()
	events := make([]OrderEvent, 0, len(actions))
	for _, a := range actions {
		events = append(events, OrderEvent{
			ID:            kernel.NewUUID(),
			OrderID:       o.ID(),
			OrderNumber:   o.Number(),
			ActionType:    a.ActionType().String(),
			Action:        a.Action(),
			PerformedBy:   a.PerformedBy(),
			PreviousValue: a.PreviousValue(),
			NewValue:      a.NewValue(),
			OrderStatus:   o.Status().String(),
			OccurredAt:    a.Timestamp(),
		})
	}
	return events
}
