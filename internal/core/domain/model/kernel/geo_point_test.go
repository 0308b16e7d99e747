package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"city center", 55.7512, 37.6184, false},
		{"corners", -90, 180, false},
		{"latitude too high", 90.1, 0, true},
		{"longitude too low", 0, -180.5, true},
		{"both invalid", 100, 200, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lon)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.Equal(t, tt.lat, p.Lat())
			assert.Equal(t, tt.lon, p.Lon())
		})
	}
}

func TestGeoPoint_ZeroValue(t *testing.T) {
	var p kernel.GeoPoint
	assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, p.Validate())
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, _ := kernel.NewGeoPoint(59.93, 30.31)
	b, _ := kernel.NewGeoPoint(59.93, 30.31)
	c, _ := kernel.NewGeoPoint(59.94, 30.31)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.Equal(t, "GeoPoint(59.930000,30.310000)", a.String())
}
