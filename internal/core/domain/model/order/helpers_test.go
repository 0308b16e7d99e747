package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func requirement(t *testing.T, assetType order.AssetType, contractorID string, units int) order.AssetRequirement {
	t.Helper()
	r, err := order.NewAssetRequirement(assetType, contractorID, units, kernel.MustMoney("4000"), kernel.MustMoney("3500"))
	require.NoError(t, err)
	return r
}

func newOrder(t *testing.T, requirements ...order.AssetRequirement) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "customer-1", "Lenina 5", baseTime, requirements, 10, true, "dispatcher", baseTime)
	require.NoError(t, err)
	return o
}

func photos(t *testing.T, n int) []order.Photo {
	t.Helper()
	out := make([]order.Photo, 0, n)
	for i := range n {
		p, err := order.NewPhoto("https://cdn.example.com/trip/"+string(rune('a'+i))+".jpg", baseTime)
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func forceStatus(t *testing.T, o *order.Order, s order.Status) {
	t.Helper()
	require.NoError(t, o.ChangeStatus(s, "dispatcher", order.StrictPolicy, true, baseTime))
}
