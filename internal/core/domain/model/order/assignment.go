package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// AssignmentStatus is the lifecycle of one unit of equipment on an order. It
// is independent of the order status and only moves forward:
//
//	assigned → en_route → working → completed
//
// Steps may be skipped. Completed is terminal.
type AssignmentStatus int

const (
	AssignmentUnknown AssignmentStatus = iota
	AssignmentAssigned
	AssignmentEnRoute
	AssignmentWorking
	AssignmentCompleted
)

func getAssignmentStatusStrings() map[AssignmentStatus]string {
	return map[AssignmentStatus]string{
		AssignmentUnknown:   "unknown",
		AssignmentAssigned:  "assigned",
		AssignmentEnRoute:   "en_route",
		AssignmentWorking:   "working",
		AssignmentCompleted: "completed",
	}
}

func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	for st, name := range getAssignmentStatusStrings() {
		if st != AssignmentUnknown && name == s {
			return st, nil
		}
	}
	return AssignmentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"assignment status",
		fmt.Errorf("%q is not a known assignment status", s),
	)
}

func (s AssignmentStatus) String() string {
	if str, ok := getAssignmentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s AssignmentStatus) Validate() error {
	if s < AssignmentAssigned || s > AssignmentCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("%d is not a valid assignment status", s),
		)
	}
	return nil
}

// Advance returns target if it lies strictly ahead of s.
func (s AssignmentStatus) Advance(target AssignmentStatus) (AssignmentStatus, error) {
	if s == AssignmentCompleted {
		return 0, ErrAssignmentTerminal
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if target <= s {
		return 0, fmt.Errorf("%w: %s → %s", ErrInvalidAssignmentTransition, s, target)
	}
	return target, nil
}

// SystemActor marks entries and assignments produced without a human actor.
const SystemActor = "SYSTEM"

var ErrDriverAssignmentIsNotConstructed = errors.New("DriverAssignment must be created via the Order aggregate or RestoreDriverAssignment")

// DriverAssignment binds one driver and piece of equipment to an order.
//
// It is created either by approving a bid or by a contractor accepting a
// direct-offer slot; both paths share the same constructor. Status timestamps
// are written once, when the status is first reached. Shift times only apply
// to asset types billed by shift.
type DriverAssignment struct { //nolint:recvcheck // mutated only through the aggregate
	id             kernel.UUID
	orderID        kernel.UUID
	bidID          *kernel.UUID
	driverName     string
	contractorID   string
	assetType      AssetType
	assignedPrice  kernel.Money
	status         AssignmentStatus
	assignedBy     string
	assignedAt     time.Time
	arrivedAt      *time.Time
	startedAt      *time.Time
	completedAt    *time.Time
	shiftStartTime *time.Time
	shiftEndTime   *time.Time
	guard          guard.ConstructorGuard
}

// AssignmentSnapshot carries persisted assignment state into RestoreDriverAssignment.
type AssignmentSnapshot struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	BidID          *kernel.UUID
	DriverName     string
	ContractorID   string
	AssetType      AssetType
	AssignedPrice  kernel.Money
	Status         AssignmentStatus
	AssignedBy     string
	AssignedAt     time.Time
	ArrivedAt      *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ShiftStartTime *time.Time
	ShiftEndTime   *time.Time
}

func newDriverAssignment(
	orderID kernel.UUID,
	bidID *kernel.UUID,
	driverName, contractorID string,
	assetType AssetType,
	price kernel.Money,
	assignedBy string,
	now time.Time,
) (DriverAssignment, error) {
	if assignedBy == "" {
		assignedBy = SystemActor
	}
	a := DriverAssignment{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		bidID:         bidID,
		driverName:    driverName,
		assignedPrice: price,
		status:        AssignmentAssigned,
		assignedBy:    assignedBy,
		assignedAt:    now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setContractorID(contractorID),
		a.setAssetType(assetType),
	); err != nil {
		return DriverAssignment{}, err
	}

	return a, nil
}

// RestoreDriverAssignment rebuilds an assignment loaded from storage.
func RestoreDriverAssignment(s AssignmentSnapshot) (DriverAssignment, error) {
	a := DriverAssignment{
		id:             s.ID,
		orderID:        s.OrderID,
		bidID:          s.BidID,
		driverName:     s.DriverName,
		assignedPrice:  s.AssignedPrice,
		status:         s.Status,
		assignedBy:     s.AssignedBy,
		assignedAt:     s.AssignedAt,
		arrivedAt:      s.ArrivedAt,
		startedAt:      s.StartedAt,
		completedAt:    s.CompletedAt,
		shiftStartTime: s.ShiftStartTime,
		shiftEndTime:   s.ShiftEndTime,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		a.setContractorID(s.ContractorID),
		a.setAssetType(s.AssetType),
		s.Status.Validate(),
	); err != nil {
		return DriverAssignment{}, err
	}

	return a, nil
}

func (a DriverAssignment) Validate() error {
	return a.guard.Validate(ErrDriverAssignmentIsNotConstructed)
}

func (a DriverAssignment) ID() kernel.UUID {
	return a.id
}

func (a DriverAssignment) OrderID() kernel.UUID {
	return a.orderID
}

// BidID is the approved bid that produced the assignment, nil for direct accepts.
func (a DriverAssignment) BidID() *kernel.UUID {
	return a.bidID
}

func (a DriverAssignment) DriverName() string {
	return a.driverName
}

func (a DriverAssignment) ContractorID() string {
	return a.contractorID
}

func (a DriverAssignment) AssetType() AssetType {
	return a.assetType
}

func (a DriverAssignment) AssignedPrice() kernel.Money {
	return a.assignedPrice
}

func (a DriverAssignment) Status() AssignmentStatus {
	return a.status
}

func (a DriverAssignment) AssignedBy() string {
	return a.assignedBy
}

func (a DriverAssignment) AssignedAt() time.Time {
	return a.assignedAt
}

func (a DriverAssignment) ArrivedAt() *time.Time {
	return a.arrivedAt
}

func (a DriverAssignment) StartedAt() *time.Time {
	return a.startedAt
}

func (a DriverAssignment) CompletedAt() *time.Time {
	return a.completedAt
}

func (a DriverAssignment) ShiftStartTime() *time.Time {
	return a.shiftStartTime
}

func (a DriverAssignment) ShiftEndTime() *time.Time {
	return a.shiftEndTime
}

// ShiftDuration is zero until both ends of the shift are known.
func (a DriverAssignment) ShiftDuration() time.Duration {
	if a.shiftStartTime == nil || a.shiftEndTime == nil {
		return 0
	}
	return a.shiftEndTime.Sub(*a.shiftStartTime)
}

func (a *DriverAssignment) updateStatus(target AssignmentStatus, now time.Time) error {
	next, err := a.status.Advance(target)
	if err != nil {
		return err
	}

	a.status = next
	switch next {
	case AssignmentEnRoute:
		a.arrivedAt = &now
	case AssignmentWorking:
		a.startedAt = &now
	case AssignmentCompleted:
		a.completedAt = &now
	case AssignmentUnknown, AssignmentAssigned:
	}
	return nil
}

func (a *DriverAssignment) startShift(now time.Time) error {
	if err := a.checkShift(); err != nil {
		return err
	}
	if a.shiftStartTime != nil {
		return ErrShiftAlreadyStarted
	}
	a.shiftStartTime = &now
	return nil
}

func (a *DriverAssignment) endShift(now time.Time) error {
	if err := a.checkShift(); err != nil {
		return err
	}
	if a.shiftStartTime == nil {
		return ErrShiftNotStarted
	}
	if now.Before(*a.shiftStartTime) {
		return errs.NewValueIsInvalidErrorWithCause("shift end", fmt.Errorf("%s is before shift start", now))
	}
	a.shiftEndTime = &now
	return nil
}

func (a DriverAssignment) checkShift() error {
	if a.status == AssignmentCompleted {
		return ErrAssignmentTerminal
	}
	if !a.assetType.TracksShifts() {
		return ErrShiftNotApplicable
	}
	return nil
}

func (a *DriverAssignment) setContractorID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("contractor id")
	}
	a.contractorID = id
	return nil
}

func (a *DriverAssignment) setAssetType(t AssetType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	a.assetType = t
	return nil
}
