package queries

import (
	"context"
	"errors"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrListAssignmentsQueryIsNotConstructed = errors.New(
	"ListAssignmentsQuery must be created via NewListAssignmentsQuery constructor",
)

// ListAssignmentsQuery lists the work of one contractor or one driver.
type ListAssignmentsQuery struct {
	filter services.EarningsFilter

	guard guard.ConstructorGuard
}

// NewListAssignmentsQuery needs exactly one of contractorID and driverName.
func NewListAssignmentsQuery(contractorID, driverName string) (ListAssignmentsQuery, error) {
	filter := services.EarningsFilter{ContractorID: contractorID, DriverName: driverName}
	if err := filter.Validate(); err != nil {
		return ListAssignmentsQuery{}, err
	}
	return ListAssignmentsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrListAssignmentsQueryIsNotConstructed)
}

func (q ListAssignmentsQuery) ContractorID() string {
	return q.filter.ContractorID
}

func (q ListAssignmentsQuery) DriverName() string {
	return q.filter.DriverName
}

// AssignmentView is an assignment with the order context a driver needs.
type AssignmentView struct {
	Assignment  order.DriverAssignment
	OrderID     kernel.UUID
	OrderNumber string
	Address     string
	WorkDate    time.Time
	OrderStatus order.Status
	// TripsReported counts the driver's trip evidences on the order.
	TripsReported int
}

type ListAssignmentsQueryHandler struct {
	orders ports.OrderRepository
}

func NewListAssignmentsQueryHandler(orders ports.OrderRepository) ListAssignmentsQueryHandler {
	return ListAssignmentsQueryHandler{orders: orders}
}

// Handle returns matching assignments, earliest work date first.
func (h ListAssignmentsQueryHandler) Handle(ctx context.Context, query ListAssignmentsQuery) ([]AssignmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.List(ctx, ports.OrderFilter{
		ContractorID: query.ContractorID(),
		DriverName:   query.DriverName(),
	})
	if err != nil {
		return nil, err
	}

	var views []AssignmentView
	for _, o := range orders {
		for _, a := range o.Assignments() {
			if query.ContractorID() != "" && a.ContractorID() != query.ContractorID() {
				continue
			}
			if query.DriverName() != "" && a.DriverName() != query.DriverName() {
				continue
			}
			views = append(views, AssignmentView{
				Assignment:    a,
				OrderID:       o.ID(),
				OrderNumber:   o.Number(),
				Address:       o.Address(),
				WorkDate:      o.WorkDate(),
				OrderStatus:   o.Status(),
				TripsReported: o.TripCount(a.DriverName()),
			})
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].WorkDate.Equal(views[j].WorkDate) {
			return views[i].WorkDate.Before(views[j].WorkDate)
		}
		return views[i].Assignment.AssignedAt().Before(views[j].Assignment.AssignedAt())
	})
	return views, nil
}
