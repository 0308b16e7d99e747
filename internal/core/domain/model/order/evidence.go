package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Photo is one image attached to a trip report.
type Photo struct {
	url     string
	takenAt time.Time
}

func NewPhoto(url string, takenAt time.Time) (Photo, error) {
	if url == "" {
		return Photo{}, errs.NewValueIsRequiredError("photo url")
	}
	return Photo{url: url, takenAt: takenAt}, nil
}

func (p Photo) URL() string {
	return p.url
}

func (p Photo) TakenAt() time.Time {
	return p.takenAt
}

var ErrTripEvidenceIsNotConstructed = errors.New("TripEvidence must be created via Order.ReportTrip or RestoreTripEvidence")

// TripEvidence is a driver's proof of one completed truck trip. Trip numbers
// count per driver within the order, starting at 1. Evidence is never removed:
// the dispatcher either confirms it, which makes it billable, or rejects it
// with a reason.
type TripEvidence struct { //nolint:recvcheck // mutated only through the aggregate
	id              kernel.UUID
	orderID         kernel.UUID
	driverName      string
	tripNumber      int
	timestamp       time.Time
	coordinates     *kernel.GeoPoint
	photos          []Photo
	confirmed       bool
	confirmedAt     *time.Time
	confirmedBy     string
	rejectionReason string
	rejectedAt      *time.Time
	rejectedBy      string
	guard           guard.ConstructorGuard
}

// EvidenceSnapshot carries persisted evidence state into RestoreTripEvidence.
type EvidenceSnapshot struct {
	ID              kernel.UUID
	OrderID         kernel.UUID
	DriverName      string
	TripNumber      int
	Timestamp       time.Time
	Coordinates     *kernel.GeoPoint
	Photos          []Photo
	Confirmed       bool
	ConfirmedAt     *time.Time
	ConfirmedBy     string
	RejectionReason string
	RejectedAt      *time.Time
	RejectedBy      string
}

func newTripEvidence(
	orderID kernel.UUID,
	driverName string,
	tripNumber int,
	photos []Photo,
	coordinates *kernel.GeoPoint,
	now time.Time,
) (TripEvidence, error) {
	e := TripEvidence{
		id:          kernel.NewUUID(),
		orderID:     orderID,
		tripNumber:  tripNumber,
		timestamp:   now,
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setDriverName(driverName),
		e.setPhotos(photos),
		e.setCoordinates(coordinates),
	); err != nil {
		return TripEvidence{}, err
	}

	return e, nil
}

// RestoreTripEvidence rebuilds evidence loaded from storage.
func RestoreTripEvidence(s EvidenceSnapshot) (TripEvidence, error) {
	e := TripEvidence{
		id:              s.ID,
		orderID:         s.OrderID,
		timestamp:       s.Timestamp,
		confirmed:       s.Confirmed,
		confirmedAt:     s.ConfirmedAt,
		confirmedBy:     s.ConfirmedBy,
		rejectionReason: s.RejectionReason,
		rejectedAt:      s.RejectedAt,
		rejectedBy:      s.RejectedBy,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		e.setDriverName(s.DriverName),
		e.setTripNumber(s.TripNumber),
		e.setPhotos(s.Photos),
		e.setCoordinates(s.Coordinates),
	); err != nil {
		return TripEvidence{}, err
	}

	return e, nil
}

func (e TripEvidence) Validate() error {
	return e.guard.Validate(ErrTripEvidenceIsNotConstructed)
}

func (e TripEvidence) ID() kernel.UUID {
	return e.id
}

func (e TripEvidence) OrderID() kernel.UUID {
	return e.orderID
}

func (e TripEvidence) DriverName() string {
	return e.driverName
}

func (e TripEvidence) TripNumber() int {
	return e.tripNumber
}

func (e TripEvidence) Timestamp() time.Time {
	return e.timestamp
}

func (e TripEvidence) Coordinates() *kernel.GeoPoint {
	return e.coordinates
}

func (e TripEvidence) Photos() []Photo {
	return append([]Photo(nil), e.photos...)
}

func (e TripEvidence) Confirmed() bool {
	return e.confirmed
}

func (e TripEvidence) ConfirmedAt() *time.Time {
	return e.confirmedAt
}

func (e TripEvidence) ConfirmedBy() string {
	return e.confirmedBy
}

func (e TripEvidence) RejectionReason() string {
	return e.rejectionReason
}

func (e TripEvidence) RejectedAt() *time.Time {
	return e.rejectedAt
}

func (e TripEvidence) RejectedBy() string {
	return e.rejectedBy
}

// IsRejected reports a pending trip the dispatcher turned down.
func (e TripEvidence) IsRejected() bool {
	return !e.confirmed && e.rejectionReason != ""
}

// confirm reports false when the trip was already confirmed.
func (e *TripEvidence) confirm(actor string, now time.Time) bool {
	if e.confirmed {
		return false
	}
	e.confirmed = true
	e.confirmedAt = &now
	e.confirmedBy = actor
	e.rejectionReason = ""
	e.rejectedAt = nil
	e.rejectedBy = ""
	return true
}

func (e *TripEvidence) reject(reason, actor string, now time.Time) error {
	if e.confirmed {
		return fmt.Errorf("%w: trip %d of %s", ErrAlreadyConfirmed, e.tripNumber, e.driverName)
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}
	e.rejectionReason = reason
	e.rejectedAt = &now
	e.rejectedBy = actor
	return nil
}

func (e *TripEvidence) setDriverName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	e.driverName = name
	return nil
}

func (e *TripEvidence) setTripNumber(n int) error {
	if n < 1 {
		return errs.NewValueIsInvalidErrorWithCause("trip number", fmt.Errorf("%d is less than 1", n))
	}
	e.tripNumber = n
	return nil
}

func (e *TripEvidence) setPhotos(photos []Photo) error {
	if len(photos) == 0 {
		return ErrNoEvidence
	}
	e.photos = append([]Photo(nil), photos...)
	return nil
}

func (e *TripEvidence) setCoordinates(p *kernel.GeoPoint) error {
	if p == nil {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	cp := *p
	e.coordinates = &cp
	return nil
}
