package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	m, err := kernel.MoneyFromString("12500.50")
	require.NoError(t, err)
	assert.Equal(t, "12500.5", m.String())

	empty, err := kernel.MoneyFromString("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = kernel.MoneyFromString("-1")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = kernel.MoneyFromString("abc")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney("3500")

	total, err := price.Times(3)
	require.NoError(t, err)
	assert.True(t, total.IsEqual(kernel.MustMoney("10500")))

	sum, err := total.Add(kernel.MustMoney("0.25"))
	require.NoError(t, err)
	assert.Equal(t, "10500.25", sum.String())

	_, err = price.Times(-1)
	require.Error(t, err)
}

func TestMoney_ZeroValue(t *testing.T) {
	assert.True(t, kernel.ZeroMoney.IsZero())
	assert.Equal(t, "0", kernel.ZeroMoney.String())
}
