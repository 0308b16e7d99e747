package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	const command = "create_order"

	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}

	requirements := make([]order.AssetRequirement, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		requirement, err := newRequirement(r)
		if err != nil {
			return s.commandFailed(c, command, err)
		}
		requirements = append(requirements, requirement)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, req.CustomerID, req.Address, req.WorkDate,
		requirements, req.PlannedTrips, req.IsBirzhaOpen, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	number, err := s.commands.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.JSON(http.StatusCreated, createdOrderResponse{ID: orderID.String(), Number: number})
}

func newRequirement(r requirementRequest) (order.AssetRequirement, error) {
	assetType, err := order.ParseAssetType(r.AssetType)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	customerPrice, err := kernel.MoneyFromString(r.CustomerPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	contractorPrice, err := kernel.MoneyFromString(r.ContractorPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	return order.NewAssetRequirement(assetType, r.ContractorID, r.PlannedUnits, customerPrice, contractorPrice)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context, orderId string) error {
	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.queryFailed(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.queryFailed(c, err)
	}

	o, err := s.queries.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err)
	}
	return c.JSON(http.StatusOK, newOrderView(o))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context, params ListOrdersParams) error {
	var statuses []order.Status
	if params.Status != nil {
		for _, raw := range *params.Status {
			st, err := order.ParseStatus(raw)
			if err != nil {
				return s.queryFailed(c, err)
			}
			statuses = append(statuses, st)
		}
	}

	var customerID string
	if params.CustomerId != nil {
		customerID = *params.CustomerId
	}
	var limit, offset int
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListOrdersQuery(statuses, params.From, params.To, customerID, limit, offset)
	if err != nil {
		return s.queryFailed(c, err)
	}

	rows, err := s.queries.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err)
	}
	return c.JSON(http.StatusOK, newOrderSummaryViews(rows))
}

// ChangeStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) ChangeStatus(c echo.Context, orderId string) error {
	const command = "change_status"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req changeStatusRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewChangeStatusCommand(id, status, actor(c), req.Force)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.ChangeStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// SetMarketplaceOpen handles PUT /api/v1/orders/{orderId}/marketplace.
func (s *Server) SetMarketplaceOpen(c echo.Context, orderId string) error {
	const command = "set_marketplace_open"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req setMarketplaceOpenRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewSetMarketplaceOpenCommand(id, req.Open, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.SetMarketplaceOpen.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// UpdateRequirementPrices handles PUT /api/v1/orders/{orderId}/requirements/{index}/prices.
func (s *Server) UpdateRequirementPrices(c echo.Context, orderId string, index int) error {
	const command = "update_requirement_prices"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req updatePricesRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}
	customerPrice, err := kernel.MoneyFromString(req.CustomerPrice)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	contractorPrice, err := kernel.MoneyFromString(req.ContractorPrice)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewUpdateRequirementPricesCommand(id, index, customerPrice, contractorPrice, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.UpdateRequirementPrices.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}
