package http

import (
	"errors"
	"log/slog"
	"net/http"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx API response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var errPhotoStorageDisabled = errors.New("photo upload is not configured")

// businessRules are refusals by the aggregate; the request was well formed
// but the order's current state does not allow it.
var businessRules = []error{
	order.ErrInvalidTransition,
	order.ErrOrderTerminal,
	order.ErrOrderFrozen,
	order.ErrBidNotPending,
	order.ErrSlotFilled,
	order.ErrAssignmentTerminal,
	order.ErrInvalidAssignmentTransition,
	order.ErrShiftNotApplicable,
	order.ErrShiftNotStarted,
	order.ErrShiftAlreadyStarted,
	order.ErrNoEvidence,
	order.ErrAlreadyConfirmed,
	errs.ErrVersionIsInvalid,
}

// classify maps an error to its HTTP status and metrics outcome.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, metrics.OutcomeNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, metrics.OutcomeInvalid
	}
	for _, rule := range businessRules {
		if errors.Is(err, rule) {
			return http.StatusConflict, metrics.OutcomeConflict
		}
	}
	return http.StatusInternalServerError, metrics.OutcomeError
}

// commandFailed answers a failed command and counts its outcome.
func (s *Server) commandFailed(c echo.Context, command string, err error) error {
	status, outcome := classify(err)
	s.countCommand(command, outcome)
	return s.writeError(c, status, err)
}

func (s *Server) queryFailed(c echo.Context, err error) error {
	status, _ := classify(err)
	return s.writeError(c, status, err)
}

func (s *Server) writeError(c echo.Context, status int, err error) error {
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("path", c.Path()), slog.Any("error", err))
		message = http.StatusText(status)
	}
	return c.JSON(status, Error{Code: status, Message: firstLine(message)})
}

func (s *Server) countCommand(command, outcome string) {
	if s.metrics != nil {
		s.metrics.CommandsTotal.WithLabelValues(command, outcome).Inc()
	}
}
