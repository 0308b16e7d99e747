package http

import (
	"context"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"

	"github.com/labstack/echo/v4"
)

// SubmitBid handles POST /api/v1/orders/{orderId}/bids.
func (s *Server) SubmitBid(c echo.Context, orderId string) error {
	const command = "submit_bid"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req submitBidRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}
	assetType, err := order.ParseAssetType(req.AssetType)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	price, err := kernel.MoneyFromString(req.Price)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewSubmitBidCommand(id, req.ContractorID, req.DriverName, assetType, price, req.ETA, req.Comment)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	bidID, err := s.commands.SubmitBid.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.JSON(http.StatusCreated, createdIDResponse{ID: bidID.String()})
}

// ApproveBid handles POST /api/v1/orders/{orderId}/bids/{bidId}/approve.
func (s *Server) ApproveBid(c echo.Context, orderId string, bidId string) error {
	const command = "approve_bid"

	orderID, bidID, err := parseBidIDs(orderId, bidId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	cmd, err := commands.NewApproveBidCommand(orderID, bidID, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	assignmentID, err := s.commands.ApproveBid.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.JSON(http.StatusOK, createdIDResponse{ID: assignmentID.String()})
}

// RejectBid handles POST /api/v1/orders/{orderId}/bids/{bidId}/reject.
func (s *Server) RejectBid(c echo.Context, orderId string, bidId string) error {
	return s.closeBid(c, "reject_bid", orderId, bidId, func(ctx context.Context, orderID, bidID kernel.UUID) error {
		cmd, err := commands.NewRejectBidCommand(orderID, bidID, actor(c))
		if err != nil {
			return err
		}
		return s.commands.RejectBid.Handle(ctx, cmd)
	})
}

// WithdrawBid handles POST /api/v1/orders/{orderId}/bids/{bidId}/withdraw.
func (s *Server) WithdrawBid(c echo.Context, orderId string, bidId string) error {
	return s.closeBid(c, "withdraw_bid", orderId, bidId, func(ctx context.Context, orderID, bidID kernel.UUID) error {
		cmd, err := commands.NewWithdrawBidCommand(orderID, bidID, actor(c))
		if err != nil {
			return err
		}
		return s.commands.WithdrawBid.Handle(ctx, cmd)
	})
}

func (s *Server) closeBid(
	c echo.Context,
	command, orderId, bidId string,
	handle func(ctx context.Context, orderID, bidID kernel.UUID) error,
) error {
	orderID, bidID, err := parseBidIDs(orderId, bidId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = handle(c.Request().Context(), orderID, bidID); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

func parseBidIDs(orderId, bidId string) (kernel.UUID, kernel.UUID, error) {
	orderID, err := parseID("orderId", orderId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	bidID, err := parseID("bidId", bidId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, bidID, nil
}
