package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptJobCommandIsNotConstructed = errors.New(
	"AcceptJobCommand must be created via NewAcceptJobCommand constructor",
)

// AcceptJobCommand lets a contractor take a slot directly, without bidding.
type AcceptJobCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	contractorID string
	driverName   string
	assetType    order.AssetType
	actor        string

	guard guard.ConstructorGuard
}

func NewAcceptJobCommand(
	orderID kernel.UUID,
	contractorID, driverName string,
	assetType order.AssetType,
	actor string,
) (AcceptJobCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateRequired("contractorID", contractorID),
		assetType.Validate(),
	); err != nil {
		return AcceptJobCommand{}, err
	}

	return AcceptJobCommand{
		orderID:      orderID,
		contractorID: contractorID,
		driverName:   driverName,
		assetType:    assetType,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptJobCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobCommandIsNotConstructed)
}

func (c AcceptJobCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AcceptJobCommand) ContractorID() string {
	return c.contractorID
}

func (c AcceptJobCommand) DriverName() string {
	return c.driverName
}

func (c AcceptJobCommand) AssetType() order.AssetType {
	return c.assetType
}

// Actor defaults to the contractor when the caller gave none.
func (c AcceptJobCommand) Actor() string {
	if c.actor == "" {
		return c.contractorID
	}
	return c.actor
}
