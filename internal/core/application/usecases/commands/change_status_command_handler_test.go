package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "customer-1", "Lenina 5", workDate,
		[]order.AssetRequirement{truckRequirement(t, "", 1)}, 4, true, "dispatcher", workDate)
	require.NoError(t, err)
	o.MarkCommitted(1)
	return o
}

func TestChangeStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t)
	cmd, err := commands.NewChangeStatusCommand(o.ID(), order.Calculating, "manager", false)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	locks := keylock.New()
	h := commands.NewChangeStatusCommandHandler(factory, locks, order.StrictPolicy)
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Calculating, o.Status())
	require.Len(t, o.UncommittedActions(), 1)
	assert.Equal(t, "manager", o.UncommittedActions()[0].PerformedBy())
	assert.Equal(t, 0, locks.Len())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestChangeStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewChangeStatusCommand(id, order.Calculating, "manager", false)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeStatusCommandHandler(factory, keylock.New(), order.StrictPolicy)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeStatusCommandHandler_Handle_RuleViolationSkipsUpdate(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t)
	cmd, err := commands.NewChangeStatusCommand(o.ID(), order.Completed, "manager", false)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeStatusCommandHandler(factory, nil, order.StrictPolicy)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.Empty(t, o.UncommittedActions())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangeStatusCommandHandler_Handle_ForcedUnderStrictPolicy(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t)
	cmd, err := commands.NewChangeStatusCommand(o.ID(), order.InProgress, "admin", true)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeStatusCommandHandler(factory, keylock.New(), order.StrictPolicy)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.InProgress, o.Status())
}

func TestChangeStatusCommandHandler_Handle_UpdateError(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t)
	cmd, err := commands.NewChangeStatusCommand(o.ID(), order.Calculating, "manager", false)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(errs.NewVersionIsInvalidErrorWithCause("order")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeStatusCommandHandler(factory, keylock.New(), order.StrictPolicy)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestChangeStatusCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewChangeStatusCommand(kernel.NewUUID(), order.Calculating, "manager", false)
	require.NoError(t, err)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewChangeStatusCommandHandler(factory, keylock.New(), order.StrictPolicy)
	require.EqualError(t, h.Handle(ctx, cmd), "begin error")
}
