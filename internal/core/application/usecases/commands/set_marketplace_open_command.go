package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetMarketplaceOpenCommandIsNotConstructed = errors.New(
	"SetMarketplaceOpenCommand must be created via NewSetMarketplaceOpenCommand constructor",
)

// SetMarketplaceOpenCommand publishes an order's open slots on the
// marketplace (birzha) or withdraws them.
type SetMarketplaceOpenCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	open    bool
	actor   string

	guard guard.ConstructorGuard
}

func NewSetMarketplaceOpenCommand(orderID kernel.UUID, open bool, actor string) (SetMarketplaceOpenCommand, error) {
	if err := validateID("orderID", orderID); err != nil {
		return SetMarketplaceOpenCommand{}, err
	}

	return SetMarketplaceOpenCommand{
		orderID: orderID,
		open:    open,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SetMarketplaceOpenCommand) Validate() error {
	return c.guard.Validate(ErrSetMarketplaceOpenCommandIsNotConstructed)
}

func (c SetMarketplaceOpenCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetMarketplaceOpenCommand) Open() bool {
	return c.open
}

func (c SetMarketplaceOpenCommand) Actor() string {
	return c.actor
}
