package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrChangeStatusCommandIsNotConstructed = errors.New(
	"ChangeStatusCommand must be created via NewChangeStatusCommand constructor",
)

// ChangeStatusCommand moves an order to another status. A forced change
// skips the adjacency table of the strict policy but never reopens a
// terminal order.
type ChangeStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actor   string
	force   bool

	guard guard.ConstructorGuard
}

func NewChangeStatusCommand(orderID kernel.UUID, status order.Status, actor string, force bool) (ChangeStatusCommand, error) {
	cmd := ChangeStatusCommand{
		actor: actor,
		force: force,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return ChangeStatusCommand{}, err
	}

	return cmd, nil
}

func (c ChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeStatusCommandIsNotConstructed)
}

func (c ChangeStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeStatusCommand) Status() order.Status {
	return c.status
}

func (c ChangeStatusCommand) Actor() string {
	return c.actor
}

func (c ChangeStatusCommand) Force() bool {
	return c.force
}

func (c *ChangeStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
