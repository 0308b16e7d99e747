package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

type AcceptJobCommandHandler struct {
	mutation orderMutation
}

func NewAcceptJobCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) AcceptJobCommandHandler {
	return AcceptJobCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

// Handle creates the assignment and returns its id.
func (h AcceptJobCommandHandler) Handle(ctx context.Context, cmd AcceptJobCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var assignmentID kernel.UUID
	err := h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		assignment, err := o.AcceptJob(cmd.ContractorID(), cmd.DriverName(), cmd.AssetType(), cmd.Actor(), now)
		if err != nil {
			return err
		}

		assignmentID = assignment.ID()
		return nil
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	return assignmentID, nil
}
