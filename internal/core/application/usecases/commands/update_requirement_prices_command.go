package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateRequirementPricesCommandIsNotConstructed = errors.New(
	"UpdateRequirementPricesCommand must be created via NewUpdateRequirementPricesCommand constructor",
)

// UpdateRequirementPricesCommand edits the customer and contractor price of
// one requirement, addressed by its position on the order.
type UpdateRequirementPricesCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	index           int
	customerPrice   kernel.Money
	contractorPrice kernel.Money
	actor           string

	guard guard.ConstructorGuard
}

func NewUpdateRequirementPricesCommand(
	orderID kernel.UUID,
	index int,
	customerPrice, contractorPrice kernel.Money,
	actor string,
) (UpdateRequirementPricesCommand, error) {
	var indexErr error
	if index < 0 {
		indexErr = errs.NewValueIsInvalidError("requirement index")
	}
	if err := errors.Join(validateID("orderID", orderID), indexErr); err != nil {
		return UpdateRequirementPricesCommand{}, err
	}

	return UpdateRequirementPricesCommand{
		orderID:         orderID,
		index:           index,
		customerPrice:   customerPrice,
		contractorPrice: contractorPrice,
		actor:           actor,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateRequirementPricesCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRequirementPricesCommandIsNotConstructed)
}

func (c UpdateRequirementPricesCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateRequirementPricesCommand) Index() int {
	return c.index
}

func (c UpdateRequirementPricesCommand) CustomerPrice() kernel.Money {
	return c.customerPrice
}

func (c UpdateRequirementPricesCommand) ContractorPrice() kernel.Money {
	return c.contractorPrice
}

func (c UpdateRequirementPricesCommand) Actor() string {
	return c.actor
}
