package broker

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// message is the wire form shared by every broker.
type message struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	ActionType    string    `json:"actionType"`
	Action        string    `json:"action"`
	PerformedBy   string    `json:"performedBy"`
	PreviousValue string    `json:"previousValue,omitempty"`
	NewValue      string    `json:"newValue,omitempty"`
	OrderStatus   string    `json:"orderStatus"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func newMessage(e ports.OrderEvent) message {
	return message{
		ID:            e.ID.String(),
		OrderID:       e.OrderID.String(),
		OrderNumber:   e.OrderNumber,
		ActionType:    e.ActionType,
		Action:        e.Action,
		PerformedBy:   e.PerformedBy,
		PreviousValue: e.PreviousValue,
		NewValue:      e.NewValue,
		OrderStatus:   e.OrderStatus,
		OccurredAt:    e.OccurredAt,
	}
}

// LogPublisher is used when no broker is configured: events are only logged.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With(slog.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(ctx context.Context, events ...ports.OrderEvent) error {
	for _, e := range events {
		p.logger.DebugContext(ctx, "order event",
			slog.String("order", e.OrderNumber),
			slog.String("actionType", e.ActionType),
			slog.String("action", e.Action))
	}
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
