package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrShiftCommandIsNotConstructed = errors.New(
	"ShiftCommand must be created via NewShiftCommand constructor",
)

// ShiftCommand starts or ends the shift of a loader or mini loader
// assignment. StartShiftCommandHandler and EndShiftCommandHandler both take it.
type ShiftCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	assignmentID kernel.UUID
	actor        string
	at           *time.Time

	guard guard.ConstructorGuard
}

// NewShiftCommand builds the command. A nil at means "now".
func NewShiftCommand(orderID, assignmentID kernel.UUID, actor string, at *time.Time) (ShiftCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("assignmentID", assignmentID),
	); err != nil {
		return ShiftCommand{}, err
	}

	cmd := ShiftCommand{
		orderID:      orderID,
		assignmentID: assignmentID,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}
	if at != nil {
		t := *at
		cmd.at = &t
	}
	return cmd, nil
}

func (c ShiftCommand) Validate() error {
	return c.guard.Validate(ErrShiftCommandIsNotConstructed)
}

func (c ShiftCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ShiftCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

func (c ShiftCommand) Actor() string {
	return c.actor
}

// When returns the requested time, or now when none was given.
func (c ShiftCommand) When(now time.Time) time.Time {
	if c.at == nil {
		return now
	}
	return *c.at
}
