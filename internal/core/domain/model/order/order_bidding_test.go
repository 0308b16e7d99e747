package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_SubmitBid(t *testing.T) {
	t.Run("creates a pending bid", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Truck, "", 1))

		bid, err := o.SubmitBid("contractor-a", "Ivanov", order.Truck, kernel.MustMoney("3400"), nil, "2 hours", at(1))

		require.NoError(t, err)
		assert.Equal(t, order.BidPending, bid.Status())
		assert.True(t, bid.OrderID().IsEqual(o.ID()))
		require.Len(t, o.Bids(), 1)
		assert.Equal(t, "contractor-a", o.ActionLog()[1].PerformedBy())
	})

	t.Run("duplicates are allowed and detectable", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Truck, "", 1))
		assert.False(t, o.HasPendingBid("contractor-a", order.Truck))

		_, err := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))
		require.NoError(t, err)
		assert.True(t, o.HasPendingBid("contractor-a", order.Truck))
		assert.False(t, o.HasPendingBid("contractor-a", order.Loader))

		_, err = o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3300"), nil, "", at(2))
		require.NoError(t, err)
		assert.Len(t, o.Bids(), 2)
	})

	t.Run("terminal order rejects bids", func(t *testing.T) {
		o := newOrder(t)
		forceStatus(t, o, order.Completed)

		_, err := o.SubmitBid("contractor-a", "", order.Truck, kernel.ZeroMoney, nil, "", at(1))

		require.ErrorIs(t, err, order.ErrOrderTerminal)
		assert.Empty(t, o.Bids())
	})

	t.Run("contractor is required", func(t *testing.T) {
		o := newOrder(t)
		_, err := o.SubmitBid("", "", order.Truck, kernel.ZeroMoney, nil, "", at(1))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_ApproveBid_TwoContractorsFillOneRequirement(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 2))
	bidA, _ := o.SubmitBid("contractor-a", "Ivanov", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))
	bidB, _ := o.SubmitBid("contractor-b", "Petrov", order.Truck, kernel.MustMoney("3300"), nil, "", at(2))

	a1, err := o.ApproveBid(bidA.ID(), "dispatcher", at(3))
	require.NoError(t, err)
	a2, err := o.ApproveBid(bidB.ID(), "dispatcher", at(4))
	require.NoError(t, err)

	require.Len(t, o.Assignments(), 2)
	assert.Equal(t, order.AssignmentAssigned, a1.Status())
	assert.Equal(t, order.AssignmentAssigned, a2.Status())
	assert.Equal(t, "contractor-b", a2.ContractorID())
	assert.Equal(t, "3300", a2.AssignedPrice().String())
	require.NotNil(t, a1.BidID())
	assert.True(t, a1.BidID().IsEqual(bidA.ID()))
	assert.Equal(t, 0, o.Remaining(0))
	assert.Equal(t, 2, o.Slots()[0].AssignedCount)

	for _, b := range o.Bids() {
		assert.Equal(t, order.BidAccepted, b.Status())
	}
}

func TestOrder_ApproveBid_NotPending(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 2))
	bid, _ := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))
	require.NoError(t, o.WithdrawBid(bid.ID(), "contractor-a", at(2)))
	logLen := len(o.ActionLog())

	_, err := o.ApproveBid(bid.ID(), "dispatcher", at(3))

	require.ErrorIs(t, err, order.ErrBidNotPending)
	assert.Empty(t, o.Assignments())
	assert.Len(t, o.ActionLog(), logLen)
	stored, _ := o.Bid(bid.ID())
	assert.Equal(t, order.BidWithdrawn, stored.Status())
}

func TestOrder_RejectAndWithdrawOnlyWhilePending(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 2))
	bid, _ := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))

	require.NoError(t, o.RejectBid(bid.ID(), "dispatcher", at(2)))
	require.ErrorIs(t, o.RejectBid(bid.ID(), "dispatcher", at(3)), order.ErrBidNotPending)
	require.ErrorIs(t, o.WithdrawBid(bid.ID(), "contractor-a", at(3)), order.ErrBidNotPending)

	stored, err := o.Bid(bid.ID())
	require.NoError(t, err)
	assert.Equal(t, order.BidRejected, stored.Status())
	assert.Equal(t, "dispatcher", stored.DecidedBy())
	assert.Empty(t, o.Assignments())

	_, err = o.Bid(kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrder_ApproveBid_AdvancesConfirmedOrderOnce(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 2))
	require.NoError(t, o.ChangeStatus(order.ConfirmedByCustomer, "dispatcher", order.StrictPolicy, false, at(1)))
	bidA, _ := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(2))
	bidB, _ := o.SubmitBid("contractor-b", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(3))

	_, err := o.ApproveBid(bidA.ID(), "dispatcher", at(4))
	require.NoError(t, err)
	assert.Equal(t, order.EquipmentApproved, o.Status())
	first := o.ActionLog()[len(o.ActionLog())-1]
	assert.Equal(t, order.ActionAssignment, first.ActionType())
	assert.Equal(t, "CONFIRMED_BY_CUSTOMER", first.PreviousValue())
	assert.Equal(t, "EQUIPMENT_APPROVED", first.NewValue())

	_, err = o.ApproveBid(bidB.ID(), "dispatcher", at(5))
	require.NoError(t, err)
	assert.Equal(t, order.EquipmentApproved, o.Status())
	second := o.ActionLog()[len(o.ActionLog())-1]
	assert.Empty(t, second.PreviousValue())
}

func TestOrder_ApproveBid_DoesNotAdvanceFromNewRequest(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 1))
	bid, _ := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))

	_, err := o.ApproveBid(bid.ID(), "dispatcher", at(2))

	require.NoError(t, err)
	assert.Equal(t, order.NewRequest, o.Status())
}

func TestOrder_ApproveBid_SlotFilled(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 1))
	bidA, _ := o.SubmitBid("contractor-a", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(1))
	bidB, _ := o.SubmitBid("contractor-b", "", order.Truck, kernel.MustMoney("3400"), nil, "", at(2))
	_, err := o.ApproveBid(bidA.ID(), "dispatcher", at(3))
	require.NoError(t, err)

	_, err = o.ApproveBid(bidB.ID(), "dispatcher", at(4))

	require.ErrorIs(t, err, order.ErrSlotFilled)
	assert.Len(t, o.Assignments(), 1)
	stored, _ := o.Bid(bidB.ID())
	assert.Equal(t, order.BidPending, stored.Status())
}

func TestOrder_AcceptJob(t *testing.T) {
	t.Run("direct offer advances NEW_REQUEST", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Loader, "contractor-a", 1))

		a, err := o.AcceptJob("contractor-a", "Sidorov", order.Loader, "", at(1))

		require.NoError(t, err)
		assert.Equal(t, order.AssignmentAssigned, a.Status())
		assert.Equal(t, order.SystemActor, a.AssignedBy())
		assert.Nil(t, a.BidID())
		assert.Equal(t, "3500", a.AssignedPrice().String())
		assert.Equal(t, order.EquipmentApproved, o.Status())
		assert.Equal(t, 0, o.Remaining(0))
	})

	t.Run("other contractors cannot take a direct offer", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Loader, "contractor-a", 1))
		require.NoError(t, o.SetMarketplaceOpen(false, "dispatcher", at(1)))

		_, err := o.AcceptJob("contractor-b", "", order.Loader, "driver", at(2))

		require.ErrorIs(t, err, order.ErrSlotFilled)
		assert.Equal(t, order.NewRequest, o.Status())
	})

	t.Run("direct slot is used before marketplace slot", func(t *testing.T) {
		o := newOrder(t,
			requirement(t, order.Truck, "", 1),
			requirement(t, order.Truck, "contractor-a", 1),
		)

		_, err := o.AcceptJob("contractor-a", "", order.Truck, "driver", at(1))
		require.NoError(t, err)

		assert.Equal(t, 1, o.Remaining(0))
		assert.Equal(t, 0, o.Remaining(1))
	})

	t.Run("order without requirements accepts at zero price", func(t *testing.T) {
		o := newOrder(t)

		a, err := o.AcceptJob("contractor-a", "", order.Truck, "driver", at(1))

		require.NoError(t, err)
		assert.True(t, a.AssignedPrice().IsZero())
	})

	t.Run("terminal order", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Truck, "", 1))
		forceStatus(t, o, order.Cancelled)

		_, err := o.AcceptJob("contractor-a", "", order.Truck, "driver", at(1))

		require.ErrorIs(t, err, order.ErrOrderTerminal)
	})
}

func TestOrder_SlotsCountEachAssignmentOnce(t *testing.T) {
	o := newOrder(t,
		requirement(t, order.Truck, "contractor-a", 1),
		requirement(t, order.Truck, "", 2),
	)

	_, err := o.AcceptJob("contractor-a", "Ivanov", order.Truck, "Ivanov", at(1))
	require.NoError(t, err)

	slots := o.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].AssignedCount)
	assert.Equal(t, 0, slots[0].Remaining)
	// the direct assignment does not also consume marketplace capacity
	assert.Equal(t, 0, slots[1].AssignedCount)
	assert.Equal(t, 2, slots[1].Remaining)

	_, err = o.AcceptJob("contractor-b", "Petrov", order.Truck, "Petrov", at(2))
	require.NoError(t, err)
	assert.Equal(t, 1, o.Remaining(1))
}
