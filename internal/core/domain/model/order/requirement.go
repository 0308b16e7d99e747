package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssetRequirementIsNotConstructed = errors.New("AssetRequirement must be created via NewAssetRequirement")

// AssetRequirement is one line of equipment demand. An empty contractorID
// makes it a marketplace slot that any contractor may bid on; otherwise it is
// a direct offer that only the named contractor can fill.
//
// Prices are pass-through values supplied by the dispatcher.
type AssetRequirement struct {
	assetType       AssetType
	contractorID    string
	plannedUnits    int
	customerPrice   kernel.Money
	contractorPrice kernel.Money
	guard           guard.ConstructorGuard
}

func NewAssetRequirement(
	assetType AssetType,
	contractorID string,
	plannedUnits int,
	customerPrice kernel.Money,
	contractorPrice kernel.Money,
) (AssetRequirement, error) {
	r := AssetRequirement{
		contractorID:    contractorID,
		customerPrice:   customerPrice,
		contractorPrice: contractorPrice,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setAssetType(assetType),
		r.setPlannedUnits(plannedUnits),
	); err != nil {
		return AssetRequirement{}, err
	}

	return r, nil
}

func (r AssetRequirement) Validate() error {
	return r.guard.Validate(ErrAssetRequirementIsNotConstructed)
}

func (r AssetRequirement) AssetType() AssetType {
	return r.assetType
}

func (r AssetRequirement) ContractorID() string {
	return r.contractorID
}

func (r AssetRequirement) PlannedUnits() int {
	return r.plannedUnits
}

func (r AssetRequirement) CustomerPrice() kernel.Money {
	return r.customerPrice
}

func (r AssetRequirement) ContractorPrice() kernel.Money {
	return r.contractorPrice
}

// IsMarketplaceSlot reports whether any contractor may fill the requirement.
func (r AssetRequirement) IsMarketplaceSlot() bool {
	return r.contractorID == ""
}

// IsDirectOffer reports whether the requirement is reserved for one contractor.
func (r AssetRequirement) IsDirectOffer() bool {
	return r.contractorID != ""
}

// IsEligible reports whether contractorID may fill this requirement with assetType.
func (r AssetRequirement) IsEligible(contractorID string, assetType AssetType) bool {
	if r.assetType != assetType {
		return false
	}
	return r.IsMarketplaceSlot() || r.contractorID == contractorID
}

func (r AssetRequirement) withPrices(customerPrice, contractorPrice kernel.Money) AssetRequirement {
	r.customerPrice = customerPrice
	r.contractorPrice = contractorPrice
	return r
}

func (r *AssetRequirement) setAssetType(t AssetType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.assetType = t
	return nil
}

func (r *AssetRequirement) setPlannedUnits(units int) error {
	if units < 0 {
		return errs.NewValueIsInvalidErrorWithCause("planned units", fmt.Errorf("%d is negative", units))
	}
	r.plannedUnits = units
	return nil
}
