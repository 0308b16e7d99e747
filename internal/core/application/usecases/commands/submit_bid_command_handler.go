package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/keylock"
)

// SubmitBidCommandHandler appends pending bids to orders.
type SubmitBidCommandHandler struct {
	mutation orderMutation
	logger   *slog.Logger
}

func NewSubmitBidCommandHandler(
	uowFactory OrderUoWFactory,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) SubmitBidCommandHandler {
	return SubmitBidCommandHandler{
		mutation: newOrderMutation(uowFactory, locks),
		logger:   logger.With(slog.String("handler", "submit_bid")),
	}
}

// Handle records the bid and returns its id. A contractor may hold several
// pending bids for the same asset type; such duplicates are accepted and logged.
func (h SubmitBidCommandHandler) Handle(ctx context.Context, cmd SubmitBidCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var bidID kernel.UUID
	err := h.mutation.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		if o.HasPendingBid(cmd.ContractorID(), cmd.AssetType()) {
			h.logger.WarnContext(ctx, "contractor already has a pending bid",
				slog.String("order", o.Number()),
				slog.String("contractor", cmd.ContractorID()),
				slog.String("assetType", cmd.AssetType().String()),
			)
		}

		bid, err := o.SubmitBid(
			cmd.ContractorID(),
			cmd.DriverName(),
			cmd.AssetType(),
			cmd.Price(),
			cmd.ETA(),
			cmd.Comment(),
			now,
		)
		if err != nil {
			return err
		}

		bidID = bid.ID()
		return nil
	})
	if err != nil {
		return kernel.UUID{}, err
	}

	return bidID, nil
}
