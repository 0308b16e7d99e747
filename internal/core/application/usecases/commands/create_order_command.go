package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents an intake request for a new snow or asphalt
// removal order.
//
// Example:
//
//	truck, _ := order.NewAssetRequirement(order.Truck, "", 2, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "cust-17", "Lenina 5", workDate,
//	    []order.AssetRequirement{truck}, 12, true, "dispatcher-1")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   string
	address      string
	workDate     time.Time
	requirements []order.AssetRequirement
	plannedTrips int
	birzhaOpen   bool
	actor        string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates intake data. The order itself checks the
// requirements and planned trips when it is built.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID, address string,
	workDate time.Time,
	requirements []order.AssetRequirement,
	plannedTrips int,
	birzhaOpen bool,
	actor string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		requirements: append([]order.AssetRequirement(nil), requirements...),
		plannedTrips: plannedTrips,
		birzhaOpen:   birzhaOpen,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setAddress(address),
		cmd.setWorkDate(workDate),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

func (c CreateOrderCommand) Address() string {
	return c.address
}

func (c CreateOrderCommand) WorkDate() time.Time {
	return c.workDate
}

func (c CreateOrderCommand) Requirements() []order.AssetRequirement {
	return append([]order.AssetRequirement(nil), c.requirements...)
}

func (c CreateOrderCommand) PlannedTrips() int {
	return c.plannedTrips
}

func (c CreateOrderCommand) BirzhaOpen() bool {
	return c.birzhaOpen
}

func (c CreateOrderCommand) Actor() string {
	return c.actor
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerID")
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setWorkDate(workDate time.Time) error {
	if workDate.IsZero() {
		return errs.NewValueIsRequiredError("workDate")
	}

	c.workDate = workDate
	return nil
}
