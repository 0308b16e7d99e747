package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

type RejectBidCommandHandler struct {
	mutation orderMutation
}

func NewRejectBidCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) RejectBidCommandHandler {
	return RejectBidCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h RejectBidCommandHandler) Handle(ctx context.Context, cmd RejectBidCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.RejectBid(cmd.BidID(), cmd.Actor(), now)
	})
}
