package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// RejectTripCommandHandler rejects trip evidence. Confirmed evidence cannot be
// rejected (order.ErrAlreadyConfirmed).
type RejectTripCommandHandler struct {
	mutation orderMutation
}

func NewRejectTripCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) RejectTripCommandHandler {
	return RejectTripCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h RejectTripCommandHandler) Handle(ctx context.Context, cmd RejectTripCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.RejectTrip(cmd.EvidenceID(), cmd.Reason(), cmd.Actor(), now)
	})
}
