package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"

	"github.com/labstack/echo/v4"
)

// AcceptJob handles POST /api/v1/orders/{orderId}/assignments.
func (s *Server) AcceptJob(c echo.Context, orderId string) error {
	const command = "accept_job"

	id, err := parseID("orderId", orderId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req acceptJobRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}
	assetType, err := order.ParseAssetType(req.AssetType)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewAcceptJobCommand(id, req.ContractorID, req.DriverName, assetType, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	assignmentID, err := s.commands.AcceptJob.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.JSON(http.StatusCreated, createdIDResponse{ID: assignmentID.String()})
}

// UpdateAssignmentStatus handles PUT /api/v1/orders/{orderId}/assignments/{assignmentId}/status.
func (s *Server) UpdateAssignmentStatus(c echo.Context, orderId string, assignmentId string) error {
	const command = "update_assignment_status"

	orderID, assignmentID, err := parseAssignmentIDs(orderId, assignmentId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	var req assignmentStatusRequest
	if err = bind(c, &req); err != nil {
		return s.commandFailed(c, command, err)
	}
	status, err := order.ParseAssignmentStatus(req.Status)
	if err != nil {
		return s.commandFailed(c, command, err)
	}

	cmd, err := commands.NewUpdateAssignmentStatusCommand(orderID, assignmentID, status, actor(c))
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.UpdateAssignmentStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// StartShift handles POST /api/v1/orders/{orderId}/assignments/{assignmentId}/shift/start.
func (s *Server) StartShift(c echo.Context, orderId string, assignmentId string) error {
	const command = "start_shift"

	cmd, err := s.shiftCommand(c, orderId, assignmentId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.StartShift.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// EndShift handles POST /api/v1/orders/{orderId}/assignments/{assignmentId}/shift/end.
func (s *Server) EndShift(c echo.Context, orderId string, assignmentId string) error {
	const command = "end_shift"

	cmd, err := s.shiftCommand(c, orderId, assignmentId)
	if err != nil {
		return s.commandFailed(c, command, err)
	}
	if err = s.commands.EndShift.Handle(c.Request().Context(), cmd); err != nil {
		return s.commandFailed(c, command, err)
	}

	s.countCommand(command, metrics.OutcomeOK)
	return c.NoContent(http.StatusNoContent)
}

// shiftCommand reads the optional body; an empty body means "now".
func (s *Server) shiftCommand(c echo.Context, orderId, assignmentId string) (commands.ShiftCommand, error) {
	orderID, assignmentID, err := parseAssignmentIDs(orderId, assignmentId)
	if err != nil {
		return commands.ShiftCommand{}, err
	}
	var req shiftRequest
	if c.Request().ContentLength != 0 {
		if err = bind(c, &req); err != nil {
			return commands.ShiftCommand{}, err
		}
	}
	return commands.NewShiftCommand(orderID, assignmentID, actor(c), req.At)
}

func parseAssignmentIDs(orderId, assignmentId string) (kernel.UUID, kernel.UUID, error) {
	orderID, err := parseID("orderId", orderId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	assignmentID, err := parseID("assignmentId", assignmentId)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return orderID, assignmentID, nil
}
