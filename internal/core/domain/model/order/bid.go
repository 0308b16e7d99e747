package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// BidStatus tracks a bid from submission to its single terminal decision.
//
//	pending ──┬──> accepted
//	          ├──> rejected
//	          └──> withdrawn
type BidStatus int

const (
	BidUnknown BidStatus = iota
	BidPending
	BidAccepted
	BidRejected
	BidWithdrawn
)

func getBidStatusStrings() map[BidStatus]string {
	return map[BidStatus]string{
		BidUnknown:   "unknown",
		BidPending:   "pending",
		BidAccepted:  "accepted",
		BidRejected:  "rejected",
		BidWithdrawn: "withdrawn",
	}
}

func ParseBidStatus(s string) (BidStatus, error) {
	for st, name := range getBidStatusStrings() {
		if st != BidUnknown && name == s {
			return st, nil
		}
	}
	return BidUnknown, errs.NewValueIsInvalidErrorWithCause("bid status", fmt.Errorf("%q is not a known bid status", s))
}

func (s BidStatus) String() string {
	if str, ok := getBidStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s BidStatus) Validate() error {
	if s < BidPending || s > BidWithdrawn {
		return errs.NewValueIsInvalidErrorWithCause("bid status", fmt.Errorf("%d is not a valid bid status", s))
	}
	return nil
}

var ErrBidIsNotConstructed = errors.New("Bid must be created via Order.SubmitBid or RestoreBid")

// Bid is a contractor's priced offer against the order. Only a pending bid
// can change, and it changes exactly once.
type Bid struct { //nolint:recvcheck // mutated only through the aggregate
	id            kernel.UUID
	orderID       kernel.UUID
	contractorID  string
	driverName    string
	assetType     AssetType
	proposedPrice kernel.Money
	eta           *time.Time
	comment       string
	status        BidStatus
	createdAt     time.Time
	decidedAt     *time.Time
	decidedBy     string
	guard         guard.ConstructorGuard
}

// BidSnapshot carries persisted bid state into RestoreBid.
type BidSnapshot struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	ContractorID  string
	DriverName    string
	AssetType     AssetType
	ProposedPrice kernel.Money
	ETA           *time.Time
	Comment       string
	Status        BidStatus
	CreatedAt     time.Time
	DecidedAt     *time.Time
	DecidedBy     string
}

func newBid(
	orderID kernel.UUID,
	contractorID, driverName string,
	assetType AssetType,
	price kernel.Money,
	eta *time.Time,
	comment string,
	now time.Time,
) (Bid, error) {
	b := Bid{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		driverName:    driverName,
		proposedPrice: price,
		eta:           eta,
		comment:       comment,
		status:        BidPending,
		createdAt:     now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setContractorID(contractorID),
		assetType.Validate(),
	); err != nil {
		return Bid{}, err
	}
	b.assetType = assetType

	return b, nil
}

// RestoreBid rebuilds a bid loaded from storage.
func RestoreBid(s BidSnapshot) (Bid, error) {
	b := Bid{
		id:            s.ID,
		orderID:       s.OrderID,
		driverName:    s.DriverName,
		assetType:     s.AssetType,
		proposedPrice: s.ProposedPrice,
		eta:           s.ETA,
		comment:       s.Comment,
		status:        s.Status,
		createdAt:     s.CreatedAt,
		decidedAt:     s.DecidedAt,
		decidedBy:     s.DecidedBy,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		b.setContractorID(s.ContractorID),
		s.AssetType.Validate(),
		s.Status.Validate(),
	); err != nil {
		return Bid{}, err
	}

	return b, nil
}

func (b Bid) Validate() error {
	return b.guard.Validate(ErrBidIsNotConstructed)
}

func (b Bid) ID() kernel.UUID {
	return b.id
}

func (b Bid) OrderID() kernel.UUID {
	return b.orderID
}

func (b Bid) ContractorID() string {
	return b.contractorID
}

func (b Bid) DriverName() string {
	return b.driverName
}

func (b Bid) AssetType() AssetType {
	return b.assetType
}

func (b Bid) ProposedPrice() kernel.Money {
	return b.proposedPrice
}

func (b Bid) ETA() *time.Time {
	return b.eta
}

func (b Bid) Comment() string {
	return b.comment
}

func (b Bid) Status() BidStatus {
	return b.status
}

func (b Bid) CreatedAt() time.Time {
	return b.createdAt
}

func (b Bid) DecidedAt() *time.Time {
	return b.decidedAt
}

func (b Bid) DecidedBy() string {
	return b.decidedBy
}

func (b Bid) IsPending() bool {
	return b.status == BidPending
}

func (b Bid) matches(contractorID string, assetType AssetType) bool {
	return b.contractorID == contractorID && b.assetType == assetType
}

func (b *Bid) decide(status BidStatus, actor string, now time.Time) error {
	if b.status != BidPending {
		return fmt.Errorf("%w: bid %s is %s", ErrBidNotPending, b.id, b.status)
	}
	b.status = status
	b.decidedAt = &now
	b.decidedBy = actor
	return nil
}

func (b *Bid) setContractorID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("contractor id")
	}
	b.contractorID = id
	return nil
}
