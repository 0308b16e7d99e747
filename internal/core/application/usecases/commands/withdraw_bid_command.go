package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrWithdrawBidCommandIsNotConstructed = errors.New(
	"WithdrawBidCommand must be created via NewWithdrawBidCommand constructor",
)

// WithdrawBidCommand withdraws a pending bid. Contractors use it to take back an offer before the dispatcher decides.
type WithdrawBidCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	bidID   kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

func NewWithdrawBidCommand(orderID, bidID kernel.UUID, actor string) (WithdrawBidCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("bidID", bidID),
	); err != nil {
		return WithdrawBidCommand{}, err
	}

	return WithdrawBidCommand{
		orderID: orderID,
		bidID:   bidID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c WithdrawBidCommand) Validate() error {
	return c.guard.Validate(ErrWithdrawBidCommandIsNotConstructed)
}

func (c WithdrawBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c WithdrawBidCommand) BidID() kernel.UUID {
	return c.bidID
}

func (c WithdrawBidCommand) Actor() string {
	return c.actor
}
