// Package pricing holds price observations keyed by asset and the
// PriceSource interface consumed by accounts and rate converters.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/rustyeddy/roboquant/market"
)

var ErrNoPrice = errors.New("price not found")

// PriceSource returns the price of an asset at time t, or NaN when no price
// is known. The NaN flows into market.Asset.Value, which ignores it for flat
// positions.
type PriceSource interface {
	Price(asset market.Asset, t time.Time) float64
}

// PriceFunc adapts a function to PriceSource.
type PriceFunc func(asset market.Asset, t time.Time) float64

func (f PriceFunc) Price(asset market.Asset, t time.Time) float64 { return f(asset, t) }

// Quote is a top-of-book observation.
type Quote struct {
	Asset market.Asset
	Time  time.Time
	Bid   float64
	Ask   float64
}

// Mid returns the midpoint, 0 when both sides are empty.
func (q Quote) Mid() float64 {
	if q.Bid == 0 && q.Ask == 0 {
		return 0
	}
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Bar is an OHLCV bar for one asset.
type Bar struct {
	Asset market.Asset
	Time  time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64 // optional
}

// Quote returns the bar as a zero-spread quote at its close.
func (b Bar) Quote() Quote {
	return Quote{Asset: b.Asset, Time: b.Time, Bid: b.Close, Ask: b.Close}
}

// Event is the set of quotes observed at one instant.
type Event struct {
	Time   time.Time
	Quotes map[market.Asset]Quote
}

// NewEvent indexes quotes by asset; a later quote for the same asset wins.
func NewEvent(t time.Time, quotes ...Quote) Event {
	e := Event{Time: t, Quotes: make(map[market.Asset]Quote, len(quotes))}
	for _, q := range quotes {
		e.Quotes[q.Asset] = q
	}
	return e
}

// Price returns the mid price of asset in this event, NaN when absent.
func (e Event) Price(asset market.Asset, _ time.Time) float64 {
	q, ok := e.Quotes[asset]
	if !ok {
		return math.NaN()
	}
	return q.Mid()
}

// Assets returns the assets in the event, sorted.
func (e Event) Assets() []market.Asset {
	out := make([]market.Asset, 0, len(e.Quotes))
	for a := range e.Quotes {
		out = append(out, a)
	}
	market.SortAssets(out)
	return out
}
