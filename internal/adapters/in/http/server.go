package http

import (
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
)

// CommandHandlers groups the write side use cases served over HTTP.
type CommandHandlers struct {
	CreateOrder             commands.CreateOrderCommandHandler
	ChangeStatus            commands.ChangeStatusCommandHandler
	SetMarketplaceOpen      commands.SetMarketplaceOpenCommandHandler
	UpdateRequirementPrices commands.UpdateRequirementPricesCommandHandler
	SubmitBid               commands.SubmitBidCommandHandler
	ApproveBid              commands.ApproveBidCommandHandler
	RejectBid               commands.RejectBidCommandHandler
	WithdrawBid             commands.WithdrawBidCommandHandler
	AcceptJob               commands.AcceptJobCommandHandler
	UpdateAssignmentStatus  commands.UpdateAssignmentStatusCommandHandler
	StartShift              commands.StartShiftCommandHandler
	EndShift                commands.EndShiftCommandHandler
	ReportTrip              commands.ReportTripCommandHandler
	ConfirmTrip             commands.ConfirmTripCommandHandler
	RejectTrip              commands.RejectTripCommandHandler
}

// QueryHandlers groups the read side use cases served over HTTP.
type QueryHandlers struct {
	GetOrder             queries.GetOrderQueryHandler
	ListOrders           queries.ListOrdersQueryHandler
	ListMarketplaceSlots queries.ListMarketplaceSlotsQueryHandler
	ListAssignments      queries.ListAssignmentsQueryHandler
	GetEarnings          queries.GetEarningsQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	commands CommandHandlers
	queries  QueryHandlers

	// photos is optional; without it multipart trip reports are refused.
	photos  ports.PhotoStorage
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	commandHandlers CommandHandlers,
	queryHandlers QueryHandlers,
	photos ports.PhotoStorage,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		commands: commandHandlers,
		queries:  queryHandlers,
		photos:   photos,
		metrics:  m,
		logger:   logger.With(slog.String("handler", "http")),
	}
}

func parseID(name, value string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(value)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
