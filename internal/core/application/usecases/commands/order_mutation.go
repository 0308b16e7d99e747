package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// Clock returns the current time. Handlers stamp every mutation with it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// orderMutation runs one read-modify-write cycle against a single order.
// Commands on the same order id are serialized by the keyed lock, and the
// repository's version check catches writers in other processes.
type orderMutation struct {
	uowFactory OrderUoWFactory
	locks      *keylock.KeyedMutex
	clock      Clock
}

func newOrderMutation(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) orderMutation {
	return orderMutation{
		uowFactory: uowFactory,
		locks:      locks,
		clock:      utcNow,
	}
}

// apply loads the order, hands it to fn and persists it when fn succeeds. A
// failing fn leaves storage untouched because the transaction is rolled back.
func (m orderMutation) apply(
	ctx context.Context,
	orderID kernel.UUID,
	fn func(o *order.Order, now time.Time) error,
) error {
	if m.locks != nil {
		unlock := m.locks.Lock(orderID.String())
		defer unlock()
	}

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}

	if err = fn(o, m.clock()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
