package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/govalues/decimal"
)

// Money is a non-negative amount in the single settlement currency. The engine
// never computes prices; it stores what callers supply and sums them for
// earnings projections.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = Money{}

// NewMoney wraps a decimal amount. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNeg() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%s is negative", amount))
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "12500.50".
func MoneyFromString(s string) (Money, error) {
	if s == "" {
		return ZeroMoney, nil
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return NewMoney(d)
}

// MustMoney is MoneyFromString for literals known to be valid.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) (Money, error) {
	sum, err := m.amount.Add(other.amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: sum}, nil
}

// Times multiplies the amount by a whole number of units (trips, shifts).
func (m Money) Times(units int) (Money, error) {
	if units < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("units", fmt.Errorf("%d is negative", units))
	}
	product, err := m.amount.Mul(decimal.MustNew(int64(units), 0))
	if err != nil {
		return Money{}, err
	}
	return Money{amount: product}, nil
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Cmp(other.amount) == 0
}

// String renders the amount trimmed of trailing zeros.
func (m Money) String() string {
	return m.amount.Trim(0).String()
}
