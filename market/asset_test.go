package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/roboquant/money"
)

func TestStock_ValueAndWallet(t *testing.T) {
	t.Parallel()

	aapl, err := NewStock("AAPL", money.USD, nil)
	require.NoError(t, err)
	assert.Same(t, DefaultExchange, aapl.Exchange())

	v := aapl.Value(NewSize(10), 150.0)
	assert.Equal(t, money.NewAmount(money.USD, 1500.0), v)

	w := money.NewWallet()
	w.Deposit(v)
	assert.False(t, w.IsEmpty())
	w.Withdraw(v)
	assert.True(t, w.IsEmpty())
}

func TestAsset_ZeroSizeIgnoresPrice(t *testing.T) {
	t.Parallel()

	stock, err := NewStock("AAPL", money.USD, GetExchange("XNYS"))
	require.NoError(t, err)
	option, err := NewOption("AAPL240621C00200000", money.USD, 0)
	require.NoError(t, err)
	future, err := NewFuture("ESM4", money.USD, 50)
	require.NoError(t, err)
	fx, err := NewForex("EUR/USD")
	require.NoError(t, err)
	coin, err := NewCrypto("BTC-USDT", money.USDT)
	require.NoError(t, err)

	for _, a := range []Asset{stock, option, future, fx, coin} {
		got := a.Value(ZeroSize, math.NaN())
		assert.Equal(t, money.Zero(a.Currency()), got, a.Symbol())
		assert.True(t, math.IsNaN(a.Value(OneSize, math.NaN()).Value), a.Symbol())
	}
}

func TestAsset_Multiplier(t *testing.T) {
	t.Parallel()

	option, err := NewOption("SPY_C400", money.USD, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptionMultiplier, option.Multiplier())
	assert.Equal(t, money.NewAmount(money.USD, 700), option.Value(NewSize(2), 3.5))

	future, err := NewFuture("FDAX", money.EUR, 25)
	require.NoError(t, err)
	assert.Equal(t, money.NewAmount(money.EUR, -25*18000.0), future.Value(NewSize(-1), 18000))

	_, err = NewFuture("FDAX", money.EUR, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewOption("X", money.EUR, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAsset_InvalidArguments(t *testing.T) {
	t.Parallel()

	_, err := NewStock("  ", money.USD, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewStock("AAPL", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewCrypto("", money.USDT)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	for _, m := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = NewOption("SPY", money.USD, m)
		assert.ErrorIs(t, err, ErrInvalidArgument, m)
		_, err = NewFuture("ES", money.USD, m)
		assert.ErrorIs(t, err, ErrInvalidArgument, m)
	}
	_, err = NewFuture("ES", money.USD, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	for _, bad := range []string{"", "EURO", "EUR/USD/JPY", "EUR/"} {
		_, err = NewForex(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestForex_Parse(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"EUR/USD", "eur_usd", "EURUSD", "EUR-USD"} {
		fx, err := NewForex(s)
		require.NoError(t, err, s)
		assert.Equal(t, "EUR/USD", fx.Symbol())
		assert.Same(t, money.EUR, fx.Base())
		assert.Same(t, money.USD, fx.Currency())
	}

	fx, err := NewForex("GBPJPY")
	require.NoError(t, err)
	assert.Equal(t, money.NewAmount(money.JPY, 190_000), fx.Value(NewSize(1000), 190))
}

func TestAsset_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	stock, err := NewStock("ASML", money.EUR, GetExchange("XAMS"))
	require.NoError(t, err)
	plain, err := NewStock("MSFT", money.USD, nil)
	require.NoError(t, err)
	option, err := NewOption("TSLA_P150", money.USD, 10)
	require.NoError(t, err)
	future, err := NewFuture("CL", money.USD, 1000)
	require.NoError(t, err)
	fx, err := NewForex("USD_JPY")
	require.NoError(t, err)
	coin, err := NewCrypto("ETH-BTC", money.BTC)
	require.NoError(t, err)

	for _, a := range []Asset{stock, plain, option, future, fx, coin} {
		s := a.Serialize()
		assert.Contains(t, s, SEP)

		got, err := DeserializeAsset(s)
		require.NoError(t, err, s)
		assert.Equal(t, a, got)
		assert.True(t, a == got, "%v != %v", a, got)
		assert.Equal(t, a.Exchange(), got.Exchange())

		again := MustDeserializeAsset(s)
		assert.True(t, got == again)
	}
}

func TestDeserializeAsset_Errors(t *testing.T) {
	t.Parallel()

	_, err := DeserializeAsset("Bond" + SEP + "US10Y")
	assert.ErrorIs(t, err, ErrUnknownAssetType)

	_, err = DeserializeAsset("Stock" + SEP + "AAPL")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DeserializeAsset("Option" + SEP + "X" + SEP + "USD" + SEP + "many")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Panics(t, func() { MustDeserializeAsset("") })
}

func TestRegisterAssetType(t *testing.T) {
	t.Parallel()

	RegisterAssetType("Index", func(fields []string) (Asset, error) {
		if err := wantFields(fields, 1); err != nil {
			return nil, err
		}
		return NewStock(fields[0], money.USD, GetExchange("US"))
	})

	a, err := DeserializeAsset("Index" + SEP + "SPX")
	require.NoError(t, err)
	assert.Equal(t, "SPX", a.Symbol())
	assert.Equal(t, "US", a.Exchange().Code())
}

func TestSortAssets(t *testing.T) {
	t.Parallel()

	msft, _ := NewStock("MSFT", money.USD, nil)
	aapl, _ := NewStock("AAPL", money.USD, nil)
	aaplCoin, _ := NewCrypto("AAPL", money.USDT)
	fx, _ := NewForex("EURUSD")

	assets := []Asset{msft, fx, aaplCoin, aapl}
	SortAssets(assets)
	assert.Equal(t, []Asset{aaplCoin, aapl, fx, msft}, assets)
	assert.Equal(t, 0, CompareAssets(aapl, aapl))
}
