package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

type WithdrawBidCommandHandler struct {
	mutation orderMutation
}

func NewWithdrawBidCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) WithdrawBidCommandHandler {
	return WithdrawBidCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

// Handle fails with order.ErrBidNotPending once the bid was decided.
func (h WithdrawBidCommandHandler) Handle(ctx context.Context, cmd WithdrawBidCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.WithdrawBid(cmd.BidID(), cmd.Actor(), now)
	})
}
