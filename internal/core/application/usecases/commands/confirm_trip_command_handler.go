package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// ConfirmTripCommandHandler confirms trip evidence. Confirming twice is a
// no-op that still succeeds.
type ConfirmTripCommandHandler struct {
	mutation orderMutation
}

func NewConfirmTripCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) ConfirmTripCommandHandler {
	return ConfirmTripCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h ConfirmTripCommandHandler) Handle(ctx context.Context, cmd ConfirmTripCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.ConfirmTrip(cmd.EvidenceID(), cmd.Actor(), now)
	})
}
