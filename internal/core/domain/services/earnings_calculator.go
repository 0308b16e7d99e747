package services

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var ErrEarningsFilterIsEmpty = errs.NewValueIsRequiredError("contractor id or driver name")

// EarningsFilter selects whose earnings to project. Exactly one field is set.
type EarningsFilter struct {
	ContractorID string
	DriverName   string
}

func (f EarningsFilter) Validate() error {
	if f.ContractorID == "" && f.DriverName == "" {
		return ErrEarningsFilterIsEmpty
	}
	if f.ContractorID != "" && f.DriverName != "" {
		return errs.NewValueIsInvalidErrorWithCause("earnings filter", errors.New("set either contractor id or driver name"))
	}
	return nil
}

func (f EarningsFilter) matches(a order.DriverAssignment) bool {
	if f.ContractorID != "" {
		return a.ContractorID() == f.ContractorID
	}
	return a.DriverName() == f.DriverName
}

// EarningsLine is the billable result of one assignment.
type EarningsLine struct {
	OrderID      kernel.UUID
	OrderNumber  string
	AssignmentID kernel.UUID
	ContractorID string
	DriverName   string
	AssetType    order.AssetType
	// Units is confirmed trips for trucks and finished shifts for other equipment.
	Units int
	// PendingUnits counts trips reported but neither confirmed nor rejected.
	PendingUnits int
	UnitPrice    kernel.Money
	Amount       kernel.Money
}

// Earnings aggregates EarningsLine values.
type Earnings struct {
	Lines          []EarningsLine
	ConfirmedUnits int
	PendingUnits   int
	Total          kernel.Money
}

// EarningsCalculator multiplies confirmed work by the assigned price.
//
// Truck work is billed per confirmed trip of the assignment's driver; a driver
// holding several truck assignments on one order is billed on the first one.
// Loader work is billed once per assignment whose shift has ended.
type EarningsCalculator struct{}

func NewEarningsCalculator() EarningsCalculator {
	return EarningsCalculator{}
}

func (EarningsCalculator) Calculate(orders []*order.Order, filter EarningsFilter) (Earnings, error) {
	if err := filter.Validate(); err != nil {
		return Earnings{}, err
	}

	result := Earnings{Total: kernel.ZeroMoney}
	for _, o := range orders {
		if o == nil {
			continue
		}
		confirmed, pending := tripsByDriver(o)
		billing := billingAssignments(o)

		for _, a := range o.Assignments() {
			if !filter.matches(a) {
				continue
			}

			line := EarningsLine{
				OrderID:      o.ID(),
				OrderNumber:  o.Number(),
				AssignmentID: a.ID(),
				ContractorID: a.ContractorID(),
				DriverName:   a.DriverName(),
				AssetType:    a.AssetType(),
				UnitPrice:    a.AssignedPrice(),
				Amount:       kernel.ZeroMoney,
			}

			switch {
			case a.AssetType() == order.Truck && billing[a.DriverName()].IsEqual(a.ID()):
				line.Units = confirmed[a.DriverName()]
				line.PendingUnits = pending[a.DriverName()]
			case a.AssetType().TracksShifts() && a.ShiftEndTime() != nil:
				line.Units = 1
			}

			amount, err := line.UnitPrice.Times(line.Units)
			if err != nil {
				return Earnings{}, err
			}
			line.Amount = amount

			if result.Total, err = result.Total.Add(amount); err != nil {
				return Earnings{}, err
			}
			result.ConfirmedUnits += line.Units
			result.PendingUnits += line.PendingUnits
			result.Lines = append(result.Lines, line)
		}
	}

	return result, nil
}

// billingAssignments picks, per driver, the first truck assignment on the
// order. Trips are billed to that assignment only, whoever the caller filters on.
func billingAssignments(o *order.Order) map[string]kernel.UUID {
	out := make(map[string]kernel.UUID)
	for _, a := range o.Assignments() {
		if a.AssetType() != order.Truck || a.DriverName() == "" {
			continue
		}
		if _, ok := out[a.DriverName()]; !ok {
			out[a.DriverName()] = a.ID()
		}
	}
	return out
}

func tripsByDriver(o *order.Order) (map[string]int, map[string]int) {
	confirmed := make(map[string]int)
	pending := make(map[string]int)
	for _, e := range o.Evidences() {
		switch {
		case e.Confirmed():
			confirmed[e.DriverName()]++
		case !e.IsRejected():
			pending[e.DriverName()]++
		}
	}
	return confirmed, pending
}
