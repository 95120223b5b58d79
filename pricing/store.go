package pricing

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/roboquant/market"
)

// QuoteStore keeps a time-ordered history of quotes per asset. It is safe
// for concurrent use.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[market.Asset][]Quote
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[market.Asset][]Quote)}
}

// Set records q. Quotes may arrive out of order; a quote with the same
// time as an existing one replaces it.
func (qs *QuoteStore) Set(q Quote) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	hist := qs.quotes[q.Asset]
	i := sort.Search(len(hist), func(i int) bool { return !hist[i].Time.Before(q.Time) })
	switch {
	case i < len(hist) && hist[i].Time.Equal(q.Time):
		hist[i] = q
	case i == len(hist):
		hist = append(hist, q)
	default:
		hist = append(hist, Quote{})
		copy(hist[i+1:], hist[i:])
		hist[i] = q
	}
	qs.quotes[q.Asset] = hist
}

// SetEvent records every quote of e.
func (qs *QuoteStore) SetEvent(e Event) {
	for _, q := range e.Quotes {
		qs.Set(q)
	}
}

// Get returns the latest quote for asset.
func (qs *QuoteStore) Get(asset market.Asset) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	hist := qs.quotes[asset]
	if len(hist) == 0 {
		return Quote{}, fmt.Errorf("%s: %w", asset.Symbol(), ErrNoPrice)
	}
	return hist[len(hist)-1], nil
}

// At returns the latest quote for asset at or before t.
func (qs *QuoteStore) At(asset market.Asset, t time.Time) (Quote, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	hist := qs.quotes[asset]
	i := sort.Search(len(hist), func(i int) bool { return hist[i].Time.After(t) })
	if i == 0 {
		return Quote{}, fmt.Errorf("%s at %s: %w", asset.Symbol(), t.Format(time.RFC3339), ErrNoPrice)
	}
	return hist[i-1], nil
}

// Price implements PriceSource with the mid of the quote in effect at t.
func (qs *QuoteStore) Price(asset market.Asset, t time.Time) float64 {
	q, err := qs.At(asset, t)
	if err != nil {
		return math.NaN()
	}
	return q.Mid()
}

// History returns the quotes for asset within tf.
func (qs *QuoteStore) History(asset market.Asset, tf market.Timeframe) []Quote {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	var out []Quote
	for _, q := range qs.quotes[asset] {
		if tf.Contains(q.Time) {
			out = append(out, q)
		}
	}
	return out
}

// Assets returns every asset with at least one quote, sorted.
func (qs *QuoteStore) Assets() []market.Asset {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	out := make([]market.Asset, 0, len(qs.quotes))
	for a := range qs.quotes {
		out = append(out, a)
	}
	market.SortAssets(out)
	return out
}
