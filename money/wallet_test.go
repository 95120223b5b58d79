package money

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallet_DepositWithdraw(t *testing.T) {
	t.Parallel()

	w := NewWallet()
	assert.True(t, w.IsEmpty())

	w.Deposit(NewAmount(USD, 100))
	w.Deposit(NewAmount(USD, 50))
	w.Withdraw(NewAmount(EUR, 20))

	assert.Equal(t, 150.0, w.Get(USD))
	assert.Equal(t, -20.0, w.Get(EUR))
	assert.Equal(t, 0.0, w.Get(JPY))
	assert.Equal(t, Zero(JPY), w.Amount(JPY))
	assert.True(t, w.IsMultiCurrency())

	w.Withdraw(NewAmount(USD, 150))
	assert.Equal(t, []*Currency{EUR}, w.Currencies())
	assert.False(t, w.IsMultiCurrency())
}

func TestWallet_DropsNegligibleBalances(t *testing.T) {
	t.Parallel()

	w := NewWallet(NewAmount(USD, 0.1), NewAmount(USD, 0.2))
	w.Withdraw(NewAmount(USD, 0.3))
	assert.True(t, w.IsEmpty())

	w.Set(EUR, 10)
	assert.Equal(t, 10.0, w.Get(EUR))
	w.Set(EUR, 0)
	assert.True(t, w.IsEmpty())
}

func TestWallet_Conservation(t *testing.T) {
	t.Parallel()

	ops := []struct {
		deposit bool
		amount  Amount
	}{
		{true, NewAmount(USD, 100)},
		{true, NewAmount(EUR, 30)},
		{false, NewAmount(USD, 25.5)},
		{true, NewAmount(JPY, 10000)},
		{false, NewAmount(EUR, 30)},
		{false, NewAmount(JPY, 2500)},
	}

	w := NewWallet()
	expected := map[*Currency]float64{}
	for _, op := range ops {
		if op.deposit {
			w.Deposit(op.amount)
			expected[op.amount.Currency] += op.amount.Value
		} else {
			w.Withdraw(op.amount)
			expected[op.amount.Currency] -= op.amount.Value
		}
	}

	for c, v := range expected {
		assert.InDelta(t, v, w.Get(c), 1e-9, c.Code())
	}
	assert.NotContains(t, w.Currencies(), EUR)

	fresh := NewWallet()
	fresh.WithdrawWallet(w)
	fresh.DepositWallet(w)
	assert.True(t, fresh.IsEmpty())
}

func TestWallet_OperatorsDoNotMutate(t *testing.T) {
	t.Parallel()

	a := NewWallet(NewAmount(USD, 100))
	b := NewWallet(NewAmount(EUR, 50))

	sum := a.Plus(b)
	assert.Equal(t, 100.0, sum.Get(USD))
	assert.Equal(t, 50.0, sum.Get(EUR))
	assert.False(t, a.IsMultiCurrency())
	assert.False(t, b.IsMultiCurrency())

	diff := a.Minus(b)
	assert.Equal(t, -50.0, diff.Get(EUR))

	plus := a.PlusAmount(NewAmount(USD, 1))
	minus := a.MinusAmount(NewAmount(USD, 1))
	assert.Equal(t, 101.0, plus.Get(USD))
	assert.Equal(t, 99.0, minus.Get(USD))
	assert.Equal(t, 100.0, a.Get(USD))

	scaled := sum.Times(2)
	assert.Equal(t, 200.0, scaled.Get(USD))
	assert.Equal(t, 100.0, scaled.Get(EUR))
	halved := sum.Div(2)
	assert.Equal(t, 50.0, halved.Get(USD))
	assert.Equal(t, 100.0, sum.Get(USD))

	clone := sum.Clone()
	clone.Clear()
	assert.True(t, clone.IsEmpty())
	assert.False(t, sum.IsEmpty())
}

func TestWallet_Equal(t *testing.T) {
	t.Parallel()

	a := NewWallet(NewAmount(USD, 1), NewAmount(EUR, 2))
	b := NewWallet(NewAmount(EUR, 2), NewAmount(USD, 1))
	c := NewWallet(NewAmount(EUR, 2))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(NewWallet(NewAmount(EUR, 3))))
	assert.Equal(t, "{EUR 2.00, USD 1.00}", a.String())
}

func TestWallet_Convert(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	// single currency equal to the target skips the converter
	got, err := NewWallet(NewAmount(USD, 10)).Convert(NoExchangeRates{}, USD, now)
	require.NoError(t, err)
	assert.Equal(t, NewAmount(USD, 10), got)

	got, err = NewWallet().Convert(NoExchangeRates{}, USD, now)
	require.NoError(t, err)
	assert.Equal(t, Zero(USD), got)

	conv := &countingConverter{rate: 2}
	w := NewWallet(NewAmount(USD, 10), NewAmount(EUR, 5))
	got, err = w.Convert(conv, USD, now)
	require.NoError(t, err)
	assert.Equal(t, NewAmount(USD, 20), got)
	assert.Equal(t, 1, conv.called)

	_, err = w.Convert(NoExchangeRates{}, USD, now)
	assert.True(t, errors.Is(err, ErrNoRateAvailable))
}

func TestWallet_ZeroValueUsable(t *testing.T) {
	t.Parallel()

	var w Wallet
	assert.True(t, w.IsEmpty())
	w.Deposit(NewAmount(USD, 1))
	assert.Equal(t, 1.0, w.Get(USD))
}

func TestWallet_IgnoresAmountsWithoutCurrency(t *testing.T) {
	t.Parallel()

	w := NewWallet(NewAmount(USD, 10), Amount{Value: 5})
	w.Withdraw(Amount{Value: 3})
	w.Set(nil, 7)

	assert.Equal(t, []*Currency{USD}, w.Currencies())
	assert.Equal(t, []Amount{NewAmount(USD, 10)}, w.Amounts())
	assert.NotPanics(t, func() { _ = w.String() })
}
