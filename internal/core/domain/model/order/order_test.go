package order_test

import (
	"strings"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("opens in NEW_REQUEST with a creation entry", func(t *testing.T) {
		id := kernel.NewUUID()
		truck := requirement(t, order.Truck, "", 2)

		o, err := order.NewOrder(id, "customer-1", "Lenina 5", baseTime, []order.AssetRequirement{truck}, 12, true, "dispatcher", baseTime)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, order.NewRequest, o.Status())
		assert.Equal(t, 12, o.PlannedTrips())
		assert.True(t, o.IsBirzhaOpen())
		assert.False(t, o.IsFrozen())
		assert.Zero(t, o.ActualTrips())
		assert.True(t, strings.HasPrefix(o.Number(), "ORD-20260115-"))
		require.Len(t, o.ActionLog(), 1)
		assert.Equal(t, order.ActionOther, o.ActionLog()[0].ActionType())
		assert.Len(t, o.UncommittedActions(), 1)
	})

	t.Run("tolerates an empty requirement list", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), "", "", baseTime, nil, 0, false, "", baseTime)

		require.NoError(t, err)
		assert.Empty(t, o.Requirements())
		assert.Empty(t, o.Slots())
		assert.Equal(t, order.SystemActor, o.ActionLog()[0].PerformedBy())
	})

	t.Run("joins validation errors", func(t *testing.T) {
		var badReq order.AssetRequirement

		o, err := order.NewOrder(kernel.UUID{}, "c", "a", baseTime, []order.AssetRequirement{badReq}, -1, false, "", baseTime)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, order.ErrAssetRequirementIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreOrder(t *testing.T) {
	src := newOrder(t, requirement(t, order.Truck, "", 1))

	restored, err := order.RestoreOrder(order.Snapshot{
		ID:           src.ID(),
		Number:       src.Number(),
		Requirements: src.Requirements(),
		ActionLog:    src.ActionLog(),
		Status:       order.InProgress,
		PlannedTrips: 3,
		IsFrozen:     true,
		Version:      7,
	})

	require.NoError(t, err)
	assert.True(t, restored.IsEqual(src))
	assert.Equal(t, int64(7), restored.Version())
	assert.Empty(t, restored.UncommittedActions())

	_, err = order.RestoreOrder(order.Snapshot{ID: kernel.NewUUID(), Status: order.NewRequest})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var nilOrder *order.Order
	assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())
	assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("confirmation freezes pricing and logs values", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(order.ConfirmedByCustomer, "dispatcher", order.StrictPolicy, false, at(1))

		require.NoError(t, err)
		assert.Equal(t, order.ConfirmedByCustomer, o.Status())
		assert.True(t, o.IsFrozen())
		last := o.ActionLog()[len(o.ActionLog())-1]
		assert.Equal(t, order.ActionStatusChange, last.ActionType())
		assert.Equal(t, "NEW_REQUEST", last.PreviousValue())
		assert.Equal(t, "CONFIRMED_BY_CUSTOMER", last.NewValue())
		assert.Equal(t, at(1), o.UpdatedAt())
	})

	t.Run("strict policy rejects jumps", func(t *testing.T) {
		o := newOrder(t)
		logLen := len(o.ActionLog())

		err := o.ChangeStatus(order.Completed, "dispatcher", order.StrictPolicy, false, at(1))

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.NewRequest, o.Status())
		assert.Len(t, o.ActionLog(), logLen)
	})

	t.Run("force and permissive bypass adjacency", func(t *testing.T) {
		forced := newOrder(t)
		require.NoError(t, forced.ChangeStatus(order.Completed, "dispatcher", order.StrictPolicy, true, at(1)))
		assert.Contains(t, forced.ActionLog()[1].Action(), "forced")

		permissive := newOrder(t)
		require.NoError(t, permissive.ChangeStatus(order.ReportReady, "dispatcher", order.PermissivePolicy, false, at(1)))
		assert.Equal(t, order.ReportReady, permissive.Status())
	})

	t.Run("terminal orders never move", func(t *testing.T) {
		for _, terminal := range []order.Status{order.Completed, order.Cancelled} {
			o := newOrder(t)
			forceStatus(t, o, terminal)

			for _, policy := range []order.TransitionPolicy{order.StrictPolicy, order.PermissivePolicy} {
				err := o.ChangeStatus(order.InProgress, "dispatcher", policy, true, at(2))
				require.ErrorIs(t, err, order.ErrInvalidTransition)
			}
			assert.Equal(t, terminal, o.Status())
		}
	})

	t.Run("unknown target is invalid", func(t *testing.T) {
		o := newOrder(t)
		err := o.ChangeStatus(order.Unknown, "dispatcher", order.PermissivePolicy, false, at(1))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_SetMarketplaceOpen(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.SetMarketplaceOpen(false, "dispatcher", at(1)))
	assert.False(t, o.IsBirzhaOpen())

	forceStatus(t, o, order.Cancelled)
	require.ErrorIs(t, o.SetMarketplaceOpen(true, "dispatcher", at(2)), order.ErrOrderTerminal)
	assert.False(t, o.IsBirzhaOpen())
}

func TestOrder_UpdateRequirementPrices(t *testing.T) {
	t.Run("updates and logs price_update", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Truck, "", 1))

		err := o.UpdateRequirementPrices(0, kernel.MustMoney("5000"), kernel.MustMoney("4200"), "dispatcher", at(1))

		require.NoError(t, err)
		r := o.Requirements()[0]
		assert.Equal(t, "5000", r.CustomerPrice().String())
		assert.Equal(t, "4200", r.ContractorPrice().String())
		last := o.ActionLog()[len(o.ActionLog())-1]
		assert.Equal(t, order.ActionPriceUpdate, last.ActionType())
		assert.Equal(t, "customer=4000 contractor=3500", last.PreviousValue())
	})

	t.Run("frozen order rejects edits", func(t *testing.T) {
		o := newOrder(t, requirement(t, order.Truck, "", 1))
		require.NoError(t, o.ChangeStatus(order.ConfirmedByCustomer, "dispatcher", order.StrictPolicy, false, at(1)))

		err := o.UpdateRequirementPrices(0, kernel.MustMoney("1"), kernel.MustMoney("1"), "dispatcher", at(2))

		require.ErrorIs(t, err, order.ErrOrderFrozen)
		assert.Equal(t, "4000", o.Requirements()[0].CustomerPrice().String())
	})

	t.Run("index out of range", func(t *testing.T) {
		o := newOrder(t)
		err := o.UpdateRequirementPrices(0, kernel.ZeroMoney, kernel.ZeroMoney, "dispatcher", at(1))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrder_ReturnsCopies(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 1))

	log := o.ActionLog()
	log[0] = order.RestoreActionLogEntry(at(9), "tampered", order.ActionOther, "x", "", "")
	reqs := o.Requirements()
	reqs[0] = requirement(t, order.Loader, "c", 9)

	assert.NotEqual(t, "tampered", o.ActionLog()[0].Action())
	assert.Equal(t, order.Truck, o.Requirements()[0].AssetType())
}

func TestOrder_SnapshotRoundTripAndMarkCommitted(t *testing.T) {
	o := newOrder(t, requirement(t, order.Truck, "", 1))
	require.NoError(t, o.SetMarketplaceOpen(false, "dispatcher", at(1)))
	require.Len(t, o.UncommittedActions(), 2)

	restored, err := order.RestoreOrder(o.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, o.Number(), restored.Number())
	assert.Equal(t, o.ActionLog(), restored.ActionLog())
	assert.Empty(t, restored.UncommittedActions())

	o.MarkCommitted(1)
	assert.Equal(t, int64(1), o.Version())
	assert.Empty(t, o.UncommittedActions())

	require.NoError(t, o.SetMarketplaceOpen(true, "dispatcher", at(2)))
	assert.Len(t, o.UncommittedActions(), 1)
}
