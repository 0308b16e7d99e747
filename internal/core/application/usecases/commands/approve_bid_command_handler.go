package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// ApproveBidCommandHandler turns a pending bid into an assignment. The slot
// count is checked under the order lock, so two approvals racing for the last
// free unit cannot both succeed.
//
// Example:
//
//	handler := NewApproveBidCommandHandler(uowFactory, locks)
//	assignmentID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrBidNotPending):
//	    // someone decided the bid already
//	case errors.Is(err, order.ErrSlotFilled):
//	    // the requirement is fully staffed
//	}
type ApproveBidCommandHandler struct {
	mutation orderMutation
}

func NewApproveBidCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) ApproveBidCommandHandler {
	return ApproveBidCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

// Handle returns the id of the created assignment.
func (h ApproveBidCommandHandler) Handle(ctx context.Context, cmd ApproveBidCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var assignmentID kernel.UUID
	err := h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		assignment, err := o.ApproveBid(cmd.BidID(), cmd.Actor(), now)
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
