package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// StartShiftCommandHandler stamps the shift start of a non-truck assignment.
type StartShiftCommandHandler struct {
	mutation orderMutation
}

func NewStartShiftCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) StartShiftCommandHandler {
	return StartShiftCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h StartShiftCommandHandler) Handle(ctx context.Context, cmd ShiftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.StartShift(cmd.AssignmentID(), cmd.Actor(), cmd.When(now))
	})
}

// EndShiftCommandHandler closes a started shift. Ending a shift that was
// never started fails with order.ErrShiftNotStarted.
type EndShiftCommandHandler struct {
	mutation orderMutation
}

func NewEndShiftCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) EndShiftCommandHandler {
	return EndShiftCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

func (h EndShiftCommandHandler) Handle(ctx context.Context, cmd ShiftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.EndShift(cmd.AssignmentID(), cmd.Actor(), cmd.When(now))
	})
}
