package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectTripCommandIsNotConstructed = errors.New(
	"RejectTripCommand must be created via NewRejectTripCommand constructor",
)

// RejectTripCommand marks trip evidence as not billable, with a reason.
type RejectTripCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	evidenceID kernel.UUID
	reason     string
	actor      string

	guard guard.ConstructorGuard
}

func NewRejectTripCommand(orderID, evidenceID kernel.UUID, reason, actor string) (RejectTripCommand, error) {
	reason = strings.TrimSpace(reason)
	if err := errors.Join(
		validateID("orderID", orderID),
		validateID("evidenceID", evidenceID),
		validateRequired("reason", reason),
	); err != nil {
		return RejectTripCommand{}, err
	}

	return RejectTripCommand{
		orderID:    orderID,
		evidenceID: evidenceID,
		reason:     reason,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RejectTripCommand) Validate() error {
	return c.guard.Validate(ErrRejectTripCommandIsNotConstructed)
}

func (c RejectTripCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectTripCommand) EvidenceID() kernel.UUID {
	return c.evidenceID
}

func (c RejectTripCommand) Reason() string {
	return c.reason
}

func (c RejectTripCommand) Actor() string {
	return c.actor
}
