package services

import (
	"sort"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// MarketplaceSlot is one requirement with free units, as shown on the board.
type MarketplaceSlot struct {
	OrderID          kernel.UUID
	OrderNumber      string
	Address          string
	WorkDate         time.Time
	RequirementIndex int
	AssetType        order.AssetType
	ContractorID     string
	IsDirectOffer    bool
	PlannedUnits     int
	Remaining        int
	ContractorPrice  kernel.Money
}

// MarketplaceBoard projects orders onto the list of slots a contractor can take.
//
// Rules:
//   - completed and cancelled orders are never shown
//   - only requirements with free units are shown
//   - marketplace slots need the order's board to be open
//   - direct offers are shown only to the contractor they target
//
// An empty contractorID asks for the public board: marketplace slots only.
type MarketplaceBoard struct{}

func NewMarketplaceBoard() MarketplaceBoard {
	return MarketplaceBoard{}
}

// Slots returns the visible slots sorted by work date, then order number.
func (MarketplaceBoard) Slots(orders []*order.Order, contractorID string) []MarketplaceSlot {
	var out []MarketplaceSlot
	for _, o := range orders {
		if o == nil || o.Status().IsTerminal() {
			continue
		}
		for _, s := range o.Slots() {
			if s.Remaining <= 0 || !visible(o, s.Requirement, contractorID) {
				continue
			}
			out = append(out, MarketplaceSlot{
				OrderID:          o.ID(),
				OrderNumber:      o.Number(),
				Address:          o.Address(),
				WorkDate:         o.WorkDate(),
				RequirementIndex: s.Index,
				AssetType:        s.Requirement.AssetType(),
				ContractorID:     s.Requirement.ContractorID(),
				IsDirectOffer:    s.Requirement.IsDirectOffer(),
				PlannedUnits:     s.Requirement.PlannedUnits(),
				Remaining:        s.Remaining,
				ContractorPrice:  s.Requirement.ContractorPrice(),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].WorkDate.Before(out[j].WorkDate)
		}
		if out[i].OrderNumber != out[j].OrderNumber {
			return out[i].OrderNumber < out[j].OrderNumber
		}
		return out[i].RequirementIndex < out[j].RequirementIndex
	})
	return out
}

// OpenSlotCount sums free units on the public board per asset type.
func (b MarketplaceBoard) OpenSlotCount(orders []*order.Order) map[order.AssetType]int {
	counts := make(map[order.AssetType]int)
	for _, s := range b.Slots(orders, "") {
		counts[s.AssetType] += s.Remaining
	}
	return counts
}

func visible(o *order.Order, r order.AssetRequirement, contractorID string) bool {
	if r.IsDirectOffer() {
		return contractorID != "" && r.ContractorID() == contractorID
	}
	return o.IsBirzhaOpen()
}
