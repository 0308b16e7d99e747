package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

type SetMarketplaceOpenCommandHandler struct {
	mutation orderMutation
}

func NewSetMarketplaceOpenCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keylock.KeyedMutex,
) SetMarketplaceOpenCommandHandler {
	return SetMarketplaceOpenCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h SetMarketplaceOpenCommandHandler) Handle(ctx context.Context, cmd SetMarketplaceOpenCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.SetMarketplaceOpen(cmd.Open(), cmd.Actor(), now)
	})
}
