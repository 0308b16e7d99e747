package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// UpdateRequirementPricesCommandHandler applies price edits until the
// customer confirms the order, after which order.ErrOrderFrozen is returned.
type UpdateRequirementPricesCommandHandler struct {
	mutation orderMutation
}

func NewUpdateRequirementPricesCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keylock.KeyedMutex,
) UpdateRequirementPricesCommandHandler {
	return UpdateRequirementPricesCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h UpdateRequirementPricesCommandHandler) Handle(ctx context.Context, cmd UpdateRequirementPricesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.UpdateRequirementPrices(cmd.Index(), cmd.CustomerPrice(), cmd.ContractorPrice(), cmd.Actor(), now)
	})
}
