package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

type UpdateAssignmentStatusCommandHandler struct {
	mutation orderMutation
}

func NewUpdateAssignmentStatusCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keylock.KeyedMutex,
) UpdateAssignmentStatusCommandHandler {
	return UpdateAssignmentStatusCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

// Handle fails with order.ErrAssignmentTerminal for completed assignments.
func (h UpdateAssignmentStatusCommandHandler) Handle(ctx context.Context, cmd UpdateAssignmentStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.UpdateAssignmentStatus(cmd.AssignmentID(), cmd.Status(), cmd.Actor(), now)
	})
}
