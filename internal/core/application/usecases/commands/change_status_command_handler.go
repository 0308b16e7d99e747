package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// ChangeStatusCommandHandler applies manual status changes under the
// configured transition policy.
type ChangeStatusCommandHandler struct {
	mutation orderMutation
	policy   order.TransitionPolicy
}

func NewChangeStatusCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keylock.KeyedMutex,
	policy order.TransitionPolicy,
) ChangeStatusCommandHandler {
	return ChangeStatusCommandHandler{
		mutation: newOrderMutation(uowFactory, locks),
		policy:   policy,
	}
}

func (h ChangeStatusCommandHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.ChangeStatus(cmd.Status(), cmd.Actor(), h.policy, cmd.Force(), now)
	})
}
