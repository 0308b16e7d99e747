package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrSubmitBidCommandIsNotConstructed = errors.New(
	"SubmitBidCommand must be created via NewSubmitBidCommand constructor",
)

// SubmitBidCommand is a contractor's offer to supply one asset for an order
// at a proposed price.
type SubmitBidCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	contractorID string
	driverName   string
	assetType    order.AssetType
	price        kernel.Money
	eta          *time.Time
	comment      string

	guard guard.ConstructorGuard
}

func NewSubmitBidCommand(
	orderID kernel.UUID,
	contractorID, driverName string,
	assetType order.AssetType,
	price kernel.Money,
	eta *time.Time,
	comment string,
) (SubmitBidCommand, error) {
	cmd := SubmitBidCommand{
		driverName: driverName,
		price:      price,
		comment:    comment,
		guard:      guard.NewConstructorGuard(),
	}
	if eta != nil {
		t := *eta
		cmd.eta = &t
	}

	if err := errors.Join(
		validateID("orderID", orderID),
		validateRequired("contractorID", contractorID),
		assetType.Validate(),
	); err != nil {
		return SubmitBidCommand{}, err
	}
	cmd.orderID = orderID
	cmd.contractorID = contractorID
	cmd.assetType = assetType

	return cmd, nil
}

func (c SubmitBidCommand) Validate() error {
	return c.guard.Validate(ErrSubmitBidCommandIsNotConstructed)
}

func (c SubmitBidCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitBidCommand) ContractorID() string {
	return c.contractorID
}

func (c SubmitBidCommand) DriverName() string {
	return c.driverName
}

func (c SubmitBidCommand) AssetType() order.AssetType {
	return c.assetType
}

func (c SubmitBidCommand) Price() kernel.Money {
	return c.price
}

func (c SubmitBidCommand) ETA() *time.Time {
	if c.eta == nil {
		return nil
	}
	t := *c.eta
	return &t
}

func (c SubmitBidCommand) Comment() string {
	return c.comment
}
