package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListOrdersQuery filters orders by status, work date range and customer.
//
// Example:
//
//	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
//	query, err := NewListOrdersQuery([]order.Status{order.InProgress}, &from, nil, "", 20, 0)
//	rows, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery applies DefaultListLimit when limit is zero.
func NewListOrdersQuery(
	statuses []order.Status,
	from, to *time.Time,
	customerID string,
	limit, offset int,
) (ListOrdersQuery, error) {
	var errList []error
	for _, s := range statuses {
		errList = append(errList, s.Validate())
	}
	if from != nil && to != nil && to.Before(*from) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("workDate range", errors.New("to is before from")))
	}
	if limit < 0 || limit > MaxListLimit {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit))
	}
	if offset < 0 {
		errList = append(errList, errs.NewValueIsInvalidError("offset"))
	}
	if err := errors.Join(errList...); err != nil {
		return ListOrdersQuery{}, err
	}

	if limit == 0 {
		limit = DefaultListLimit
	}

	return ListOrdersQuery{
		filter: ports.OrderFilter{
			Statuses:     append([]order.Status(nil), statuses...),
			CustomerID:   customerID,
			WorkDateFrom: from,
			WorkDateTo:   to,
			Limit:        limit,
			Offset:       offset,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}

// ListOrdersQueryHandler reads list rows from the summary projection.
type ListOrdersQueryHandler struct {
	reader ports.OrderSummaryReader
}

func NewListOrdersQueryHandler(reader ports.OrderSummaryReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ports.OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.reader.ListSummaries(ctx, query.Filter())
}
