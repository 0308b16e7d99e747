package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// ReportTripCommandHandler appends trip evidence. Trip numbers are computed
// while the order is locked, so concurrent reports from one driver never
// share a number.
type ReportTripCommandHandler struct {
	mutation orderMutation
}

func NewReportTripCommandHandler(uowFactory OrderUoWFactory, locks *keylock.KeyedMutex) ReportTripCommandHandler {
	return ReportTripCommandHandler{mutation: newOrderMutation(uowFactory, locks)}
}

// Handle returns the id and trip number of the new evidence.
func (h ReportTripCommandHandler) Handle(ctx context.Context, cmd ReportTripCommand) (kernel.UUID, int, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, 0, err
	}

	var evidence order.TripEvidence
	err := h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		var err error
		evidence, err = o.ReportTrip(cmd.DriverName(), cmd.Photos(), cmd.Coordinates(), now)
		return err
	})
	if err != nil {
		return kernel.UUID{}, 0, err
	}

	return evidence.ID(), evidence.TripNumber(), nil
}
