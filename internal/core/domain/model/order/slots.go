package order

// Slot is the fill state of one requirement.
type Slot struct {
	Index         int
	Requirement   AssetRequirement
	AssignedCount int
	Remaining     int
}

// Slots reports, per requirement, how many units are assigned and how many
// are still free. Counts are derived from the assignment list on every call.
//
// Each assignment fills exactly one requirement: a direct offer to its own
// contractor first, then a marketplace slot of the same asset type. Units
// beyond plannedUnits stay attributed to the first matching requirement and
// never make Remaining negative.
func (o *Order) Slots() []Slot {
	counts := o.allocate()
	slots := make([]Slot, len(o.requirements))
	for i, r := range o.requirements {
		slots[i] = Slot{
			Index:         i,
			Requirement:   r,
			AssignedCount: counts[i],
			Remaining:     max(0, r.PlannedUnits()-counts[i]),
		}
	}
	return slots
}

// Remaining is the number of free units of the requirement at index.
func (o *Order) Remaining(index int) int {
	if index < 0 || index >= len(o.requirements) {
		return 0
	}
	return o.Slots()[index].Remaining
}

func (o *Order) allocate() []int {
	counts := make([]int, len(o.requirements))
	for _, a := range o.assignments {
		idx := o.pickRequirement(counts, a.ContractorID(), a.AssetType(), true, true)
		if idx < 0 {
			idx = o.pickRequirement(counts, a.ContractorID(), a.AssetType(), true, false)
		}
		if idx >= 0 {
			counts[idx]++
		}
	}
	return counts
}

// freeSlot returns the requirement a new assignment would fill, or -1.
func (o *Order) freeSlot(contractorID string, assetType AssetType, allowMarketplace bool) int {
	return o.pickRequirement(o.allocate(), contractorID, assetType, allowMarketplace, true)
}

func (o *Order) pickRequirement(
	counts []int,
	contractorID string,
	assetType AssetType,
	allowMarketplace bool,
	needCapacity bool,
) int {
	fits := func(i int) bool {
		return !needCapacity || counts[i] < o.requirements[i].PlannedUnits()
	}
	for i, r := range o.requirements {
		if r.IsDirectOffer() && r.IsEligible(contractorID, assetType) && fits(i) {
			return i
		}
	}
	if !allowMarketplace {
		return -1
	}
	for i, r := range o.requirements {
		if r.IsMarketplaceSlot() && r.AssetType() == assetType && fits(i) {
			return i
		}
	}
	return -1
}
