package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range order.AllStatuses() {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		require.NoError(t, s.Validate())
	}
	assert.Len(t, order.AllStatuses(), 16)

	_, err := order.ParseStatus("DELIVERED")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "UNKNOWN", order.Status(99).String())
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range order.AllStatuses() {
		want := s == order.Completed || s == order.Cancelled
		assert.Equal(t, want, s.IsTerminal(), s.String())
	}
}

func TestTransitionPolicy_Check(t *testing.T) {
	tests := []struct {
		name    string
		policy  order.TransitionPolicy
		from    order.Status
		to      order.Status
		force   bool
		wantErr bool
	}{
		{"strict happy path", order.StrictPolicy, order.EnRoute, order.InProgress, false, false},
		{"strict skip rejected", order.StrictPolicy, order.NewRequest, order.Completed, false, true},
		{"strict self transition rejected", order.StrictPolicy, order.Calculating, order.Calculating, false, true},
		{"strict forced skip", order.StrictPolicy, order.NewRequest, order.Completed, true, false},
		{"permissive skip", order.PermissivePolicy, order.NewRequest, order.Completed, false, false},
		{"terminal forced", order.StrictPolicy, order.Cancelled, order.NewRequest, true, true},
		{"terminal permissive", order.PermissivePolicy, order.Completed, order.InProgress, false, true},
		{"zero policy behaves strict", order.TransitionPolicy(0), order.NewRequest, order.InProgress, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.from, tt.to, tt.force)
			if tt.wantErr {
				require.ErrorIs(t, err, order.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAllowedTargets_EveryNonTerminalStatusCanCloseOrCancel(t *testing.T) {
	for _, s := range order.AllStatuses() {
		if s.IsTerminal() {
			assert.Empty(t, order.AllowedTargets(s), s.String())
			continue
		}
		assert.NotEmpty(t, order.AllowedTargets(s), s.String())
	}
}

func TestParseTransitionPolicy(t *testing.T) {
	p, err := order.ParseTransitionPolicy("Permissive")
	require.NoError(t, err)
	assert.Equal(t, order.PermissivePolicy, p)

	p, err = order.ParseTransitionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, order.StrictPolicy, p)

	_, err = order.ParseTransitionPolicy("lenient")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
