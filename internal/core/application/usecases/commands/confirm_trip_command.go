package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmTripCommandIsNotConstructed = errors.New(
	"ConfirmTripCommand must be created via NewConfirmTripCommand constructor",
)

// ConfirmTripCommand makes one reported trip billable.
type ConfirmTripCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	evidenceID kernel.UUID
	actor      string

	guard guard.ConstructorGuard
}

func NewConfirmTripCommand(orderID, evidenceID kernel.UUID, actor string) (ConfirmTripCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("evidenceID", evidenceID),
	); err != nil {
		return ConfirmTripCommand{}, err
	}

	return ConfirmTripCommand{
		orderID:    orderID,
		evidenceID: evidenceID,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmTripCommand) Validate() error {
	return c.guard.Validate(ErrConfirmTripCommandIsNotConstructed)
}

func (c ConfirmTripCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmTripCommand) EvidenceID() kernel.UUID {
	return c.evidenceID
}

func (c ConfirmTripCommand) Actor() string {
	return c.actor
}
