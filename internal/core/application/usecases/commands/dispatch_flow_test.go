package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DispatchFlowSuite struct {
	suite.Suite

	store   *memory.Store
	factory storeUoWFactory
	locks   *keylock.KeyedMutex
	logger  *slog.Logger
}

func TestDispatchFlowSuite(t *testing.T) {
	suite.Run(t, new(DispatchFlowSuite))
}

func (s *DispatchFlowSuite) SetupTest() {
	s.store = memory.NewStore()
	s.factory = storeUoWFactory{create: s.store.Create}
	s.locks = keylock.New()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *DispatchFlowSuite) createOrder(reqs ...order.AssetRequirement) kernel.UUID {
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(id, "customer-1", "Lenina 5", workDate, reqs, 10, true, "dispatcher")
	s.Require().NoError(err)

	h := commands.NewCreateOrderCommandHandler(s.factory)
	_, err = h.Handle(s.T().Context(), cmd)
	s.Require().NoError(err)
	return id
}

func (s *DispatchFlowSuite) requirement(assetType order.AssetType, contractorID string, units int) order.AssetRequirement {
	r, err := order.NewAssetRequirement(assetType, contractorID, units, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
	s.Require().NoError(err)
	return r
}

func (s *DispatchFlowSuite) changeStatus(id kernel.UUID, status order.Status) error {
	cmd, err := commands.NewChangeStatusCommand(id, status, "manager", false)
	s.Require().NoError(err)
	return commands.NewChangeStatusCommandHandler(s.factory, s.locks, order.StrictPolicy).Handle(s.T().Context(), cmd)
}

func (s *DispatchFlowSuite) submitBid(id kernel.UUID, contractorID string, price string) kernel.UUID {
	cmd, err := commands.NewSubmitBidCommand(id, contractorID, "Ivan", order.Truck, kernel.MustMoney(price), nil, "")
	s.Require().NoError(err)
	bidID, err := commands.NewSubmitBidCommandHandler(s.factory, s.locks, s.logger).Handle(s.T().Context(), cmd)
	s.Require().NoError(err)
	return bidID
}

func (s *DispatchFlowSuite) approve(id, bidID kernel.UUID) (kernel.UUID, error) {
	cmd, err := commands.NewApproveBidCommand(id, bidID, "dispatcher")
	s.Require().NoError(err)
	return commands.NewApproveBidCommandHandler(s.factory, s.locks).Handle(s.T().Context(), cmd)
}

func (s *DispatchFlowSuite) reportTrip(id kernel.UUID, driver string) (kernel.UUID, int, error) {
	photo, err := order.NewPhoto("https://photos.example/trip.jpg", workDate)
	s.Require().NoError(err)
	cmd, err := commands.NewReportTripCommand(id, driver, []order.Photo{photo}, nil)
	s.Require().NoError(err)
	return commands.NewReportTripCommandHandler(s.factory, s.locks).Handle(s.T().Context(), cmd)
}

func (s *DispatchFlowSuite) load(id kernel.UUID) *order.Order {
	o, err := s.store.Get(s.T().Context(), id)
	s.Require().NoError(err)
	return o
}

func (s *DispatchFlowSuite) TestFullDispatchCycle() {
	ctx := s.T().Context()
	id := s.createOrder(
		s.requirement(order.Truck, "", 1),
		s.requirement(order.Loader, "contractor-2", 1),
	)

	bidID := s.submitBid(id, "contractor-1", "3200")
	s.Require().NoError(s.changeStatus(id, order.ConfirmedByCustomer))

	truckAssignment, err := s.approve(id, bidID)
	s.Require().NoError(err)

	o := s.load(id)
	s.Equal(order.EquipmentApproved, o.Status())
	s.True(o.IsFrozen())

	acceptCmd, err := commands.NewAcceptJobCommand(id, "contractor-2", "Petr", order.Loader, "")
	s.Require().NoError(err)
	loaderAssignment, err := commands.NewAcceptJobCommandHandler(s.factory, s.locks).Handle(ctx, acceptCmd)
	s.Require().NoError(err)

	startAt := workDate.Add(time.Hour)
	endAt := workDate.Add(5 * time.Hour)
	startCmd, err := commands.NewShiftCommand(id, loaderAssignment, "Petr", &startAt)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewStartShiftCommandHandler(s.factory, s.locks).Handle(ctx, startCmd))
	endCmd, err := commands.NewShiftCommand(id, loaderAssignment, "Petr", &endAt)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewEndShiftCommandHandler(s.factory, s.locks).Handle(ctx, endCmd))

	statusCmd, err := commands.NewUpdateAssignmentStatusCommand(id, truckAssignment, order.AssignmentEnRoute, "Ivan")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewUpdateAssignmentStatusCommandHandler(s.factory, s.locks).Handle(ctx, statusCmd))

	evidenceID, tripNumber, err := s.reportTrip(id, "Ivan")
	s.Require().NoError(err)
	s.Equal(1, tripNumber)

	confirmCmd, err := commands.NewConfirmTripCommand(id, evidenceID, "dispatcher")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewConfirmTripCommandHandler(s.factory, s.locks).Handle(ctx, confirmCmd))

	rejectCmd, err := commands.NewRejectTripCommand(id, evidenceID, "blurry photo", "dispatcher")
	s.Require().NoError(err)
	err = commands.NewRejectTripCommandHandler(s.factory, s.locks).Handle(ctx, rejectCmd)
	s.Require().ErrorIs(err, order.ErrAlreadyConfirmed)

	o = s.load(id)
	s.Equal(1, o.ActualTrips())
	s.Len(o.Assignments(), 2)

	loader, err := o.Assignment(loaderAssignment)
	s.Require().NoError(err)
	s.Equal(4*time.Hour, loader.ShiftDuration())

	truck, err := o.Assignment(truckAssignment)
	s.Require().NoError(err)
	s.Equal(order.AssignmentEnRoute, truck.Status())
	s.True(truck.AssignedPrice().IsEqual(kernel.MustMoney("3200")))

	pending, err := s.store.FetchPending(ctx, 0)
	s.Require().NoError(err)
	s.Len(pending, len(o.ActionLog()))
}

func (s *DispatchFlowSuite) TestFailedCommandWritesNothing() {
	ctx := s.T().Context()
	id := s.createOrder(s.requirement(order.Truck, "", 1))
	before := s.load(id)

	s.Require().ErrorIs(s.changeStatus(id, order.Completed), order.ErrInvalidTransition)

	noPhotos, err := commands.NewReportTripCommand(id, "Ivan", nil, nil)
	s.Require().NoError(err)
	_, _, err = commands.NewReportTripCommandHandler(s.factory, s.locks).Handle(ctx, noPhotos)
	s.Require().ErrorIs(err, order.ErrNoEvidence)

	pricesCmd, err := commands.NewUpdateRequirementPricesCommand(id, 5, kernel.MustMoney("1"), kernel.MustMoney("1"), "m")
	s.Require().NoError(err)
	err = commands.NewUpdateRequirementPricesCommandHandler(s.factory, s.locks).Handle(ctx, pricesCmd)
	s.Require().Error(err)

	after := s.load(id)
	s.Equal(before.Version(), after.Version())
	s.Equal(before.ActionLog(), after.ActionLog())
}

func (s *DispatchFlowSuite) TestMarketplaceAndPricesBeforeConfirmation() {
	ctx := s.T().Context()
	id := s.createOrder(s.requirement(order.Truck, "", 1))

	closeCmd, err := commands.NewSetMarketplaceOpenCommand(id, false, "dispatcher")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewSetMarketplaceOpenCommandHandler(s.factory, s.locks).Handle(ctx, closeCmd))

	pricesCmd, err := commands.NewUpdateRequirementPricesCommand(id, 0, kernel.MustMoney("5000"), kernel.MustMoney("4200"), "manager")
	s.Require().NoError(err)
	pricesHandler := commands.NewUpdateRequirementPricesCommandHandler(s.factory, s.locks)
	s.Require().NoError(pricesHandler.Handle(ctx, pricesCmd))

	o := s.load(id)
	s.False(o.IsBirzhaOpen())
	s.True(o.Requirements()[0].ContractorPrice().IsEqual(kernel.MustMoney("4200")))

	s.Require().NoError(s.changeStatus(id, order.ConfirmedByCustomer))
	s.Require().ErrorIs(pricesHandler.Handle(ctx, pricesCmd), order.ErrOrderFrozen)
}

func (s *DispatchFlowSuite) TestWithdrawAndRejectBids() {
	ctx := s.T().Context()
	id := s.createOrder(s.requirement(order.Truck, "", 2))
	first := s.submitBid(id, "contractor-1", "3000")
	second := s.submitBid(id, "contractor-1", "3100")

	withdrawCmd, err := commands.NewWithdrawBidCommand(id, first, "contractor-1")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewWithdrawBidCommandHandler(s.factory, s.locks).Handle(ctx, withdrawCmd))

	rejectCmd, err := commands.NewRejectBidCommand(id, second, "dispatcher")
	s.Require().NoError(err)
	rejectHandler := commands.NewRejectBidCommandHandler(s.factory, s.locks)
	s.Require().NoError(rejectHandler.Handle(ctx, rejectCmd))
	s.Require().ErrorIs(rejectHandler.Handle(ctx, rejectCmd), order.ErrBidNotPending)

	_, err = s.approve(id, first)
	s.Require().ErrorIs(err, order.ErrBidNotPending)

	o := s.load(id)
	s.Require().Len(o.Bids(), 2)
	s.Equal(order.BidWithdrawn, o.Bids()[0].Status())
	s.Equal(order.BidRejected, o.Bids()[1].Status())
	s.Empty(o.Assignments())
}

func TestApproveBid_ConcurrentApprovalsNeverOverfill(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := storeUoWFactory{create: store.Create}
	locks := keylock.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	id := kernel.NewUUID()
	createCmd, err := commands.NewCreateOrderCommand(id, "customer-1", "Lenina 5", workDate,
		[]order.AssetRequirement{truckRequirement(t, "", 2)}, 10, true, "dispatcher")
	require.NoError(t, err)
	_, err = commands.NewCreateOrderCommandHandler(factory).Handle(ctx, createCmd)
	require.NoError(t, err)

	const bidders = 12
	bidIDs := make([]kernel.UUID, 0, bidders)
	submit := commands.NewSubmitBidCommandHandler(factory, locks, logger)
	for i := 0; i < bidders; i++ {
		cmd, err := commands.NewSubmitBidCommand(id, "contractor", "driver", order.Truck, kernel.MustMoney("3000"), nil, "")
		require.NoError(t, err)
		bidID, err := submit.Handle(ctx, cmd)
		require.NoError(t, err)
		bidIDs = append(bidIDs, bidID)
	}

	approve := commands.NewApproveBidCommandHandler(factory, locks)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		filled    int
	)
	for _, bidID := range bidIDs {
		wg.Add(1)
		go func(bidID kernel.UUID) {
			defer wg.Done()
			cmd, err := commands.NewApproveBidCommand(id, bidID, "dispatcher")
			if err != nil {
				return
			}
			_, err = approve.Handle(ctx, cmd)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, order.ErrSlotFilled):
				filled++
			}
		}(bidID)
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, bidders-2, filled)

	o, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, o.Assignments(), 2)
	assert.Equal(t, 0, o.Remaining(0))
	assert.Equal(t, 0, locks.Len())
}

func TestReportTrip_ConcurrentReportsGetDistinctNumbers(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := storeUoWFactory{create: store.Create}
	locks := keylock.New()

	id := kernel.NewUUID()
	createCmd, err := commands.NewCreateOrderCommand(id, "customer-1", "Lenina 5", workDate, nil, 30, true, "dispatcher")
	require.NoError(t, err)
	_, err = commands.NewCreateOrderCommandHandler(factory).Handle(ctx, createCmd)
	require.NoError(t, err)

	photo, err := order.NewPhoto("https://photos.example/1.jpg", workDate)
	require.NoError(t, err)

	const reports = 20
	handler := commands.NewReportTripCommandHandler(factory, locks)
	numbers := make(chan int, reports)
	var wg sync.WaitGroup
	for i := 0; i < reports; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewReportTripCommand(id, "Ivan", []order.Photo{photo}, nil)
			if err != nil {
				return
			}
			if _, n, err := handler.Handle(ctx, cmd); err == nil {
				numbers <- n
			}
		}()
	}
	wg.Wait()
	close(numbers)

	got := make([]int, 0, reports)
	for n := range numbers {
		got = append(got, n)
	}
	sort.Ints(got)

	want := make([]int, reports)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, got)
}
