package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateAssignmentStatusCommandIsNotConstructed = errors.New(
	"UpdateAssignmentStatusCommand must be created via NewUpdateAssignmentStatusCommand constructor",
)

// UpdateAssignmentStatusCommand moves one assignment forward along
// assigned → en_route → working → completed.
type UpdateAssignmentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	assignmentID kernel.UUID
	status       order.AssignmentStatus
	actor        string

	guard guard.ConstructorGuard
}

func NewUpdateAssignmentStatusCommand(
	orderID, assignmentID kernel.UUID,
	status order.AssignmentStatus,
	actor string,
) (UpdateAssignmentStatusCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("assignmentID", assignmentID),
		status.Validate(),
	); err != nil {
		return UpdateAssignmentStatusCommand{}, err
	}

	return UpdateAssignmentStatusCommand{
		orderID:      orderID,
		assignmentID: assignmentID,
		status:       status,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateAssignmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAssignmentStatusCommandIsNotConstructed)
}

func (c UpdateAssignmentStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateAssignmentStatusCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

func (c UpdateAssignmentStatusCommand) Status() order.AssignmentStatus {
	return c.status
}

func (c UpdateAssignmentStatusCommand) Actor() string {
	return c.actor
}
