package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectBidCommandIsNotConstructed = errors.New(
	"RejectBidCommand must be created via NewRejectBidCommand constructor",
)

// RejectBidCommand declines a pending bid.
type RejectBidCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	bidID   kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

func NewRejectBidCommand(orderID, bidID kernel.UUID, actor string) (RejectBidCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("bidID", bidID),
	); err != nil {
		return RejectBidCommand{}, err
	}

	return RejectBidCommand{
		orderID: orderID,
		bidID:   bidID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectBidCommand) Validate() error {
	return c.guard.Validate(ErrRejectBidCommandIsNotConstructed)
}

func (c RejectBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectBidCommand) BidID() kernel.UUID {
	return c.bidID
}

func (c RejectBidCommand) Actor() string {
	return c.actor
}
