package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListMarketplaceSlots handles GET /api/v1/marketplace/slots.
func (s *Server) ListMarketplaceSlots(c echo.Context, contractorId string) error {
	slots, err := s.queries.ListMarketplaceSlots.Handle(c.Request().Context(),
		queries.NewListMarketplaceSlotsQuery(contractorId))
	if err != nil {
		return s.queryFailed(c, err)
	}
	return c.JSON(http.StatusOK, newSlotViews(slots))
}

// ListAssignments handles GET /api/v1/assignments.
func (s *Server) ListAssignments(c echo.Context, params WorkFilterParams) error {
	contractorID, driverName := params.values()
	query, err := queries.NewListAssignmentsQuery(contractorID, driverName)
	if err != nil {
		return s.queryFailed(c, err)
	}

	rows, err := s.queries.ListAssignments.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err)
	}
	return c.JSON(http.StatusOK, newWorkItemViews(rows))
}

// GetEarnings handles GET /api/v1/earnings.
func (s *Server) GetEarnings(c echo.Context, params WorkFilterParams) error {
	contractorID, driverName := params.values()
	query, err := queries.NewGetEarningsQuery(contractorID, driverName)
	if err != nil {
		return s.queryFailed(c, err)
	}

	earnings, err := s.queries.GetEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return s.queryFailed(c, err)
	}
	return c.JSON(http.StatusOK, newEarningsView(earnings))
}

func (p WorkFilterParams) values() (string, string) {
	var contractorID, driverName string
	if p.ContractorId != nil {
		contractorID = *p.ContractorId
	}
	if p.DriverName != nil {
		driverName = *p.DriverName
	}
	return contractorID, driverName
}
