package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// AssetType is the kind of equipment a requirement asks for.
type AssetType int

const (
	UnknownAsset AssetType = iota
	Truck
	Loader
	MiniLoader
)

func getAssetTypeStrings() map[AssetType]string {
	return map[AssetType]string{
		UnknownAsset: "unknown",
		Truck:        "truck",
		Loader:       "loader",
		MiniLoader:   "mini_loader",
	}
}

func ParseAssetType(s string) (AssetType, error) {
	for t, name := range getAssetTypeStrings() {
		if t != UnknownAsset && name == s {
			return t, nil
		}
	}
	return UnknownAsset, errs.NewValueIsInvalidErrorWithCause("asset type", fmt.Errorf("%q is not a known asset type", s))
}

func (t AssetType) Validate() error {
	if t != Truck && t != Loader && t != MiniLoader {
		return errs.NewValueIsInvalidErrorWithCause("asset type", fmt.Errorf("%d is not a valid asset type", t))
	}
	return nil
}

func (t AssetType) String() string {
	if s, ok := getAssetTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// TracksShifts reports whether the asset is billed by shift instead of by trip.
func (t AssetType) TracksShifts() bool {
	return t == Loader || t == MiniLoader
}
