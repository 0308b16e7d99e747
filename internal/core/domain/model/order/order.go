package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root for one logistics job.
//
// Invariants kept by the aggregate:
//   - the order number is assigned once, at creation
//   - child collections only grow and keep their order
//   - ActualTrips always equals the number of confirmed trip evidences
//   - a terminal order never changes status again
//   - reaching CONFIRMED_BY_CUSTOMER freezes pricing
//
// Methods take the current time explicitly so that handlers own the clock.
type Order struct {
	id           kernel.UUID
	number       string
	customerID   string
	address      string
	workDate     time.Time
	requirements []AssetRequirement
	isBirzhaOpen bool
	bids         []Bid
	assignments  []DriverAssignment
	evidences    []TripEvidence
	actionLog    []ActionLogEntry
	status       Status
	plannedTrips int
	isFrozen     bool
	createdAt    time.Time
	updatedAt    time.Time

	// version is the stored revision the aggregate was loaded at.
	version int64
	// committedLog is how many log entries were already persisted.
	committedLog int

	guard guard.ConstructorGuard
}

// Snapshot carries persisted order state into RestoreOrder.
type Snapshot struct {
	ID           kernel.UUID
	Number       string
	CustomerID   string
	Address      string
	WorkDate     time.Time
	Requirements []AssetRequirement
	IsBirzhaOpen bool
	Bids         []Bid
	Assignments  []DriverAssignment
	Evidences    []TripEvidence
	ActionLog    []ActionLogEntry
	Status       Status
	PlannedTrips int
	IsFrozen     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
}

// NewOrder opens a job in NEW_REQUEST status and records its creation.
//
// Example:
//
//	truck, _ := order.NewAssetRequirement(order.Truck, "", 2, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
//	o, err := order.NewOrder(kernel.NewUUID(), "cust-17", "Lenina 5", workDate,
//	    []order.AssetRequirement{truck}, 10, true, "dispatcher-1", time.Now())
func NewOrder(
	id kernel.UUID,
	customerID, address string,
	workDate time.Time,
	requirements []AssetRequirement,
	plannedTrips int,
	birzhaOpen bool,
	createdBy string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		customerID:   customerID,
		address:      address,
		workDate:     workDate,
		isBirzhaOpen: birzhaOpen,
		status:       NewRequest,
		createdAt:    now,
		updatedAt:    now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setRequirements(requirements),
		o.setPlannedTrips(plannedTrips),
	); err != nil {
		return nil, err
	}
	o.number = GenerateNumber(id, now)

	o.record(now, ActionOther, createdBy, fmt.Sprintf("order %s created", o.number), "", NewRequest.String())
	return o, nil
}

// RestoreOrder rebuilds an aggregate from storage without recording anything.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:       s.Number,
		customerID:   s.CustomerID,
		address:      s.Address,
		workDate:     s.WorkDate,
		isBirzhaOpen: s.IsBirzhaOpen,
		bids:         append([]Bid(nil), s.Bids...),
		assignments:  append([]DriverAssignment(nil), s.Assignments...),
		evidences:    append([]TripEvidence(nil), s.Evidences...),
		actionLog:    append([]ActionLogEntry(nil), s.ActionLog...),
		status:       s.Status,
		isFrozen:     s.IsFrozen,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		version:      s.Version,
		committedLog: len(s.ActionLog),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setRequirements(s.Requirements),
		o.setPlannedTrips(s.PlannedTrips),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	return o, nil
}

// GenerateNumber builds the human-facing number, e.g. "ORD-20261017-3F2A9C".
func GenerateNumber(id kernel.UUID, at time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(hex[:6]))
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) Address() string {
	return o.address
}

func (o *Order) WorkDate() time.Time {
	return o.workDate
}

func (o *Order) Requirements() []AssetRequirement {
	return append([]AssetRequirement(nil), o.requirements...)
}

func (o *Order) IsBirzhaOpen() bool {
	return o.isBirzhaOpen
}

func (o *Order) Bids() []Bid {
	return append([]Bid(nil), o.bids...)
}

func (o *Order) Assignments() []DriverAssignment {
	return append([]DriverAssignment(nil), o.assignments...)
}

func (o *Order) Evidences() []TripEvidence {
	return append([]TripEvidence(nil), o.evidences...)
}

func (o *Order) ActionLog() []ActionLogEntry {
	return append([]ActionLogEntry(nil), o.actionLog...)
}

// UncommittedActions returns the log entries appended since the order was
// created or restored. Repositories turn them into outbox events.
func (o *Order) UncommittedActions() []ActionLogEntry {
	return append([]ActionLogEntry(nil), o.actionLog[o.committedLog:]...)
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PlannedTrips() int {
	return o.plannedTrips
}

func (o *Order) IsFrozen() bool {
	return o.isFrozen
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version is the stored revision this instance was loaded at; zero for new orders.
func (o *Order) Version() int64 {
	return o.version
}

// MarkCommitted is called by storage once the aggregate is durably written at
// version. Log entries up to now stop being reported by UncommittedActions.
func (o *Order) MarkCommitted(version int64) {
	o.version = version
	o.committedLog = len(o.actionLog)
}

// Snapshot copies the full state, for adapters that persist the aggregate as
// one document.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:           o.id,
		Number:       o.number,
		CustomerID:   o.customerID,
		Address:      o.address,
		WorkDate:     o.workDate,
		Requirements: o.Requirements(),
		IsBirzhaOpen: o.isBirzhaOpen,
		Bids:         o.Bids(),
		Assignments:  o.Assignments(),
		Evidences:    o.Evidences(),
		ActionLog:    o.ActionLog(),
		Status:       o.status,
		PlannedTrips: o.plannedTrips,
		IsFrozen:     o.isFrozen,
		CreatedAt:    o.createdAt,
		UpdatedAt:    o.updatedAt,
		Version:      o.version,
	}
}

// ChangeStatus moves the order to next when policy allows it. Reaching
// CONFIRMED_BY_CUSTOMER freezes the order's pricing in the same step.
func (o *Order) ChangeStatus(next Status, actor string, policy TransitionPolicy, force bool, now time.Time) error {
	if err := policy.Check(o.status, next, force); err != nil {
		return err
	}

	prev := o.status
	o.status = next
	if next == ConfirmedByCustomer {
		o.isFrozen = true
	}

	action := fmt.Sprintf("status changed from %s to %s", prev, next)
	if force {
		action += " (forced)"
	}
	o.record(now, ActionStatusChange, actor, action, prev.String(), next.String())
	return nil
}

// SetMarketplaceOpen shows or hides the order's open slots on the public board.
func (o *Order) SetMarketplaceOpen(open bool, actor string, now time.Time) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	o.isBirzhaOpen = open
	action := "marketplace closed"
	if open {
		action = "marketplace opened"
	}
	o.record(now, ActionOther, actor, action, "", "")
	return nil
}

// UpdateRequirementPrices replaces both prices of one requirement. Pricing is
// locked once the customer has confirmed the order.
func (o *Order) UpdateRequirementPrices(
	index int,
	customerPrice, contractorPrice kernel.Money,
	actor string,
	now time.Time,
) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if o.isFrozen {
		return ErrOrderFrozen
	}
	if index < 0 || index >= len(o.requirements) {
		return errs.NewValueIsOutOfRangeError("requirement index", index, 0, len(o.requirements)-1)
	}

	prev := o.requirements[index]
	o.requirements[index] = prev.withPrices(customerPrice, contractorPrice)

	o.record(now, ActionPriceUpdate, actor,
		fmt.Sprintf("prices of requirement #%d (%s) updated", index+1, prev.AssetType()),
		fmt.Sprintf("customer=%s contractor=%s", prev.CustomerPrice(), prev.ContractorPrice()),
		fmt.Sprintf("customer=%s contractor=%s", customerPrice, contractorPrice),
	)
	return nil
}

func (o *Order) record(now time.Time, t ActionType, actor, action, prev, next string) {
	if actor == "" {
		actor = SystemActor
	}
	o.actionLog = append(o.actionLog, ActionLogEntry{
		timestamp:     now,
		action:        action,
		actionType:    t,
		performedBy:   actor,
		previousValue: prev,
		newValue:      next,
	})
	o.updatedAt = now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRequirements(requirements []AssetRequirement) error {
	for i, r := range requirements {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("requirement #%d: %w", i+1, err)
		}
	}
	o.requirements = append([]AssetRequirement(nil), requirements...)
	return nil
}

func (o *Order) setPlannedTrips(n int) error {
	if n < 0 {
		return errs.NewValueIsInvalidErrorWithCause("planned trips", fmt.Errorf("%d is negative", n))
	}
	o.plannedTrips = n
	return nil
}
