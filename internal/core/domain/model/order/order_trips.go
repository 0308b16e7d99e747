package order

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ReportTrip appends a driver's trip report. The trip number continues the
// driver's own sequence on this order.
func (o *Order) ReportTrip(
	driverName string,
	photos []Photo,
	coordinates *kernel.GeoPoint,
	now time.Time,
) (TripEvidence, error) {
	if o.status.IsTerminal() {
		return TripEvidence{}, fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if len(photos) == 0 {
		return TripEvidence{}, ErrNoEvidence
	}

	evidence, err := newTripEvidence(o.id, driverName, o.TripCount(driverName)+1, photos, coordinates, now)
	if err != nil {
		return TripEvidence{}, err
	}

	o.evidences = append(o.evidences, evidence)
	o.record(now, ActionOther, driverName,
		fmt.Sprintf("trip #%d reported by %s with %d photo(s)", evidence.TripNumber(), driverName, len(photos)), "", "")
	return evidence, nil
}

// ConfirmTrip makes a trip billable. Confirming an already confirmed trip
// changes nothing and records nothing. A previously rejected trip may still be
// confirmed, which clears its rejection.
func (o *Order) ConfirmTrip(evidenceID kernel.UUID, actor string, now time.Time) error {
	i, err := o.evidenceIndex(evidenceID)
	if err != nil {
		return err
	}

	e := o.evidences[i]
	if !e.confirm(actor, now) {
		return nil
	}

	o.evidences[i] = e
	o.record(now, ActionTripConfirmed, actor,
		fmt.Sprintf("trip #%d of %s confirmed", e.TripNumber(), e.DriverName()),
		"", fmt.Sprintf("actual trips: %d", o.ActualTrips()))
	return nil
}

// RejectTrip records why a pending trip was not accepted. Confirmed trips
// cannot be rejected.
func (o *Order) RejectTrip(evidenceID kernel.UUID, reason, actor string, now time.Time) error {
	i, err := o.evidenceIndex(evidenceID)
	if err != nil {
		return err
	}

	e := o.evidences[i]
	if err = e.reject(reason, actor, now); err != nil {
		return err
	}

	o.evidences[i] = e
	o.record(now, ActionOther, actor,
		fmt.Sprintf("trip #%d of %s rejected: %s", e.TripNumber(), e.DriverName(), reason), "", "")
	return nil
}

// Evidence looks up trip evidence by id.
func (o *Order) Evidence(id kernel.UUID) (TripEvidence, error) {
	i, err := o.evidenceIndex(id)
	if err != nil {
		return TripEvidence{}, err
	}
	return o.evidences[i], nil
}

// ActualTrips is the number of confirmed trips across all drivers.
func (o *Order) ActualTrips() int {
	n := 0
	for _, e := range o.evidences {
		if e.Confirmed() {
			n++
		}
	}
	return n
}

// TripCount is how many trips the driver has reported on this order.
func (o *Order) TripCount(driverName string) int {
	n := 0
	for _, e := range o.evidences {
		if e.DriverName() == driverName {
			n++
		}
	}
	return n
}

func (o *Order) evidenceIndex(id kernel.UUID) (int, error) {
	for i, e := range o.evidences {
		if e.ID().IsEqual(id) {
			return i, nil
		}
	}
	return -1, errs.NewObjectNotFoundError("evidence", id.String())
}
