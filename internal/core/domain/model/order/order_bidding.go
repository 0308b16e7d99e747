package order

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// SubmitBid records a contractor's pending offer. Several pending bids from
// the same contractor for the same asset type are allowed; see HasPendingBid.
func (o *Order) SubmitBid(
	contractorID, driverName string,
	assetType AssetType,
	price kernel.Money,
	eta *time.Time,
	comment string,
	now time.Time,
) (Bid, error) {
	if o.status.IsTerminal() {
		return Bid{}, fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}

	bid, err := newBid(o.id, contractorID, driverName, assetType, price, eta, comment, now)
	if err != nil {
		return Bid{}, err
	}

	o.bids = append(o.bids, bid)
	o.record(now, ActionOther, contractorID,
		fmt.Sprintf("bid %s submitted for %s at %s", bid.ID(), assetType, price), "", BidPending.String())
	return bid, nil
}

// HasPendingBid reports whether the contractor already has a pending bid for the asset type.
func (o *Order) HasPendingBid(contractorID string, assetType AssetType) bool {
	for _, b := range o.bids {
		if b.IsPending() && b.matches(contractorID, assetType) {
			return true
		}
	}
	return false
}

// Bid looks up a bid by id.
func (o *Order) Bid(id kernel.UUID) (Bid, error) {
	i, err := o.bidIndex(id)
	if err != nil {
		return Bid{}, err
	}
	return o.bids[i], nil
}

// WithdrawBid is the contractor taking back its own pending bid.
func (o *Order) WithdrawBid(bidID kernel.UUID, actor string, now time.Time) error {
	return o.closeBid(bidID, BidWithdrawn, actor, now)
}

// RejectBid is the dispatcher declining a pending bid.
func (o *Order) RejectBid(bidID kernel.UUID, actor string, now time.Time) error {
	return o.closeBid(bidID, BidRejected, actor, now)
}

func (o *Order) closeBid(bidID kernel.UUID, status BidStatus, actor string, now time.Time) error {
	i, err := o.bidIndex(bidID)
	if err != nil {
		return err
	}

	bid := o.bids[i]
	if err = bid.decide(status, actor, now); err != nil {
		return err
	}

	o.bids[i] = bid
	o.record(now, ActionOther, actor, fmt.Sprintf("bid %s %s", bidID, status), BidPending.String(), status.String())
	return nil
}

// ApproveBid accepts a pending bid and assigns its contractor to the order.
// An order waiting in CONFIRMED_BY_CUSTOMER moves on to EQUIPMENT_APPROVED.
func (o *Order) ApproveBid(bidID kernel.UUID, actor string, now time.Time) (DriverAssignment, error) {
	i, err := o.bidIndex(bidID)
	if err != nil {
		return DriverAssignment{}, err
	}

	bid := o.bids[i]
	if err = bid.decide(BidAccepted, actor, now); err != nil {
		return DriverAssignment{}, err
	}

	id := bid.ID()
	assignment, err := o.createAssignment(
		&id, bid.DriverName(), bid.ContractorID(), bid.AssetType(), bid.ProposedPrice(), actor, true, now)
	if err != nil {
		return DriverAssignment{}, err
	}

	o.bids[i] = bid
	o.commitAssignment(assignment, ConfirmedByCustomer, actor,
		fmt.Sprintf("bid %s approved: %s assigned to %s", bidID, assignment.AssetType(), assignment.ContractorID()), now)
	return assignment, nil
}

// AcceptJob lets a contractor or its driver take a slot without bidding. The
// price is the contractor price of the slot being filled. An order still in
// NEW_REQUEST moves on to EQUIPMENT_APPROVED.
func (o *Order) AcceptJob(
	contractorID, driverName string,
	assetType AssetType,
	actor string,
	now time.Time,
) (DriverAssignment, error) {
	price := kernel.ZeroMoney
	if slot := o.freeSlot(contractorID, assetType, o.isBirzhaOpen); slot >= 0 {
		price = o.requirements[slot].ContractorPrice()
	}

	assignment, err := o.createAssignment(nil, driverName, contractorID, assetType, price, actor, o.isBirzhaOpen, now)
	if err != nil {
		return DriverAssignment{}, err
	}

	o.commitAssignment(assignment, NewRequest, actor,
		fmt.Sprintf("job accepted: %s assigned to %s", assignment.AssetType(), assignment.ContractorID()), now)
	return assignment, nil
}

// createAssignment is the single path through which assignments come to exist.
// It checks the order is open and that a slot is free, but mutates nothing.
func (o *Order) createAssignment(
	bidID *kernel.UUID,
	driverName, contractorID string,
	assetType AssetType,
	price kernel.Money,
	actor string,
	allowMarketplace bool,
	now time.Time,
) (DriverAssignment, error) {
	if o.status.IsTerminal() {
		return DriverAssignment{}, fmt.Errorf("%w: %s", ErrOrderTerminal, o.status)
	}
	if len(o.requirements) > 0 && o.freeSlot(contractorID, assetType, allowMarketplace) < 0 {
		return DriverAssignment{}, fmt.Errorf("%w: %s for %s", ErrSlotFilled, assetType, contractorID)
	}

	return newDriverAssignment(o.id, bidID, driverName, contractorID, assetType, price, actor, now)
}

// commitAssignment appends the assignment and, when the order sits in
// advanceFrom, moves it to EQUIPMENT_APPROVED. The auto-advance is an engine
// side effect and is not subject to the transition policy.
func (o *Order) commitAssignment(a DriverAssignment, advanceFrom Status, actor, action string, now time.Time) {
	o.assignments = append(o.assignments, a)

	prev, next := "", ""
	if o.status == advanceFrom {
		prev, next = o.status.String(), EquipmentApproved.String()
		o.status = EquipmentApproved
		action += fmt.Sprintf("; status changed from %s to %s", prev, next)
	}
	o.record(now, ActionAssignment, actor, action, prev, next)
}

func (o *Order) bidIndex(id kernel.UUID) (int, error) {
	for i, b := range o.bids {
		if b.ID().IsEqual(id) {
			return i, nil
		}
	}
	return -1, errs.NewObjectNotFoundError("bid", id.String())
}
