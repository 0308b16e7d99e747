package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrApproveBidCommandIsNotConstructed = errors.New(
	"ApproveBidCommand must be created via NewApproveBidCommand constructor",
)

// ApproveBidCommand accepts a pending bid and turns it into a driver assignment.
type ApproveBidCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	bidID   kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

func NewApproveBidCommand(orderID, bidID kernel.UUID, actor string) (ApproveBidCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("bidID", bidID),
	); err != nil {
		return ApproveBidCommand{}, err
	}

	return ApproveBidCommand{
		orderID: orderID,
		bidID:   bidID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveBidCommand) Validate() error {
	return c.guard.Validate(ErrApproveBidCommandIsNotConstructed)
}

func (c ApproveBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ApproveBidCommand) BidID() kernel.UUID {
	return c.bidID
}

func (c ApproveBidCommand) Actor() string {
	return c.actor
}
