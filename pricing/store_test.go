package pricing

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

var (
	t0     = time.Date(2024, 3, 28, 14, 0, 0, 0, time.UTC)
	eurusd = mustForex("EUR_USD")
	aapl   = mustStock("AAPL")
)

func mustForex(s string) market.Forex {
	fx, err := market.NewForex(s)
	if err != nil {
		panic(err)
	}
	return fx
}

func mustStock(s string) market.Stock {
	st, err := market.NewStock(s, money.USD, nil)
	if err != nil {
		panic(err)
	}
	return st
}

func TestQuote_MidSpread(t *testing.T) {
	t.Parallel()

	q := Quote{Asset: eurusd, Bid: 1.1, Ask: 1.2}
	assert.InDelta(t, 1.15, q.Mid(), 1e-12)
	assert.InDelta(t, 0.1, q.Spread(), 1e-12)
	assert.Equal(t, 0.0, Quote{}.Mid())

	b := Bar{Asset: aapl, Time: t0, Open: 170, High: 172, Low: 169, Close: 171}
	assert.Equal(t, Quote{Asset: aapl, Time: t0, Bid: 171, Ask: 171}, b.Quote())
}

func TestQuoteStore_SetGet(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()
	q := Quote{Asset: eurusd, Time: t0, Bid: 1.1, Ask: 1.2}
	qs.Set(q)

	got, err := qs.Get(eurusd)
	assert.NoError(t, err)
	assert.Equal(t, q, got)

	// asset identity survives deserialization
	same := market.MustDeserializeAsset(eurusd.Serialize())
	got, err = qs.Get(same)
	assert.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestQuoteStore_GetMissing(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()
	got, err := qs.Get(aapl)
	assert.ErrorIs(t, err, ErrNoPrice)
	assert.Equal(t, Quote{}, got)
	assert.True(t, math.IsNaN(qs.Price(aapl, t0)))
}

func TestQuoteStore_At(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()
	for i, px := range []float64{100, 101, 102} {
		qs.Set(Quote{Asset: aapl, Time: t0.Add(time.Duration(2-i) * time.Minute), Bid: px, Ask: px})
	}
	qs.Set(Quote{Asset: aapl, Time: t0.Add(time.Minute), Bid: 200, Ask: 200})

	_, err := qs.At(aapl, t0.Add(-time.Second))
	assert.ErrorIs(t, err, ErrNoPrice)

	assert.Equal(t, 102.0, qs.Price(aapl, t0))
	assert.Equal(t, 200.0, qs.Price(aapl, t0.Add(90*time.Second)))
	assert.Equal(t, 100.0, qs.Price(aapl, t0.Add(time.Hour)))

	latest, err := qs.Get(aapl)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(2*time.Minute), latest.Time)

	tf := market.MustTimeframe(t0, t0.Add(2*time.Minute), false)
	assert.Len(t, qs.History(aapl, tf), 2)
}

func TestQuoteStore_Event(t *testing.T) {
	t.Parallel()

	e := NewEvent(t0,
		Quote{Asset: aapl, Time: t0, Bid: 170, Ask: 170.2},
		Quote{Asset: eurusd, Time: t0, Bid: 1.08, Ask: 1.08},
	)
	assert.Equal(t, []market.Asset{aapl, eurusd}, e.Assets())
	assert.InDelta(t, 170.1, e.Price(aapl, t0), 1e-9)
	assert.True(t, math.IsNaN(e.Price(mustStock("MSFT"), t0)))

	qs := NewQuoteStore()
	qs.SetEvent(e)
	assert.Equal(t, []market.Asset{aapl, eurusd}, qs.Assets())

	var src PriceSource = qs
	assert.Equal(t, 1.08, src.Price(eurusd, t0))
}

func TestQuoteStore_Concurrent(t *testing.T) {
	t.Parallel()

	qs := NewQuoteStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				qs.Set(Quote{Asset: aapl, Time: t0.Add(time.Duration(i*100+j) * time.Second), Bid: 1, Ask: 1})
				_ = qs.Price(aapl, t0)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, qs.History(aapl, market.Infinite), 800)
}

func TestPriceFunc(t *testing.T) {
	t.Parallel()

	var src PriceSource = PriceFunc(func(market.Asset, time.Time) float64 { return 42 })
	assert.Equal(t, 42.0, src.Price(aapl, t0))
}
