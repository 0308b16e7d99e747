package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrGetEarningsQueryIsNotConstructed = errors.New(
	"GetEarningsQuery must be created via NewGetEarningsQuery constructor",
)

// GetEarningsQuery asks for the earnings of one contractor or one driver.
type GetEarningsQuery struct {
	filter services.EarningsFilter

	guard guard.ConstructorGuard
}

func NewGetEarningsQuery(contractorID, driverName string) (GetEarningsQuery, error) {
	filter := services.EarningsFilter{ContractorID: contractorID, DriverName: driverName}
	if err := filter.Validate(); err != nil {
		return GetEarningsQuery{}, err
	}
	return GetEarningsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q GetEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsQueryIsNotConstructed)
}

func (q GetEarningsQuery) Filter() services.EarningsFilter {
	return q.filter
}

// GetEarningsQueryResponse adds contractor names from the directory.
type GetEarningsQueryResponse struct {
	services.Earnings
	ContractorNames map[string]string
}

type GetEarningsQueryHandler struct {
	orders     ports.OrderRepository
	directory  ports.Directory
	calculator services.EarningsCalculator
}

func NewGetEarningsQueryHandler(orders ports.OrderRepository, directory ports.Directory) GetEarningsQueryHandler {
	return GetEarningsQueryHandler{
		orders:     orders,
		directory:  directory,
		calculator: services.NewEarningsCalculator(),
	}
}

func (h GetEarningsQueryHandler) Handle(ctx context.Context, query GetEarningsQuery) (GetEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEarningsQueryResponse{}, err
	}

	filter := query.Filter()
	orders, err := h.orders.List(ctx, ports.OrderFilter{
		ContractorID: filter.ContractorID,
		DriverName:   filter.DriverName,
	})
	if err != nil {
		return GetEarningsQueryResponse{}, err
	}

	earnings, err := h.calculator.Calculate(orders, filter)
	if err != nil {
		return GetEarningsQueryResponse{}, err
	}

	contractors := make(map[string]string, len(earnings.Lines))
	for _, line := range earnings.Lines {
		contractors[line.ContractorID] = line.ContractorID
	}
	names, err := lookupNames(ctx, h.directory, contractors)
	if err != nil {
		return GetEarningsQueryResponse{}, err
	}

	return GetEarningsQueryResponse{Earnings: earnings, ContractorNames: names}, nil
}
