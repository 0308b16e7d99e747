package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrReportTripCommandIsNotConstructed = errors.New(
	"ReportTripCommand must be created via NewReportTripCommand constructor",
)

// ReportTripCommand carries a driver's trip report. Photos are already
// uploaded; the command only holds their URLs.
type ReportTripCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	driverName  string
	photos      []order.Photo
	coordinates *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportTripCommand accepts an empty photo list; the order rejects it
// with order.ErrNoEvidence so the failure is reported like any other rule.
func NewReportTripCommand(
	orderID kernel.UUID,
	driverName string,
	photos []order.Photo,
	coordinates *kernel.GeoPoint,
) (ReportTripCommand, error) {
	if err := errors.Join(
		validateID("orderID", orderID),
		validateRequired("driverName", driverName),
	); err != nil {
		return ReportTripCommand{}, err
	}

	cmd := ReportTripCommand{
		orderID:    orderID,
		driverName: driverName,
		photos:     append([]order.Photo(nil), photos...),
		guard:      guard.NewConstructorGuard(),
	}
	if coordinates != nil {
		p := *coordinates
		cmd.coordinates = &p
	}
	return cmd, nil
}

func (c ReportTripCommand) Validate() error {
	return c.guard.Validate(ErrReportTripCommandIsNotConstructed)
}

func (c ReportTripCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReportTripCommand) DriverName() string {
	return c.driverName
}

func (c ReportTripCommand) Photos() []order.Photo {
	return append([]order.Photo(nil), c.photos...)
}

func (c ReportTripCommand) Coordinates() *kernel.GeoPoint {
	if c.coordinates == nil {
		return nil
	}
	p := *c.coordinates
	return &p
}
