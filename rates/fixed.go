// Package rates provides money.Converter implementations backed by a fixed
// rate table, a time series of rate tables, or live forex quotes.
package rates

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/money"
)

// FixedRates converts with constant rates. A rate is the number of units of
// a currency that one unit of the base currency buys; the base has rate 1.
type FixedRates struct {
	mu    sync.RWMutex
	base  *money.Currency
	rates map[*money.Currency]float64
}

// NewFixedRates returns a table with only the base currency in it.
func NewFixedRates(base *money.Currency) *FixedRates {
	return &FixedRates{
		base:  base,
		rates: map[*money.Currency]float64{base: 1},
	}
}

func (r *FixedRates) Base() *money.Currency { return r.base }

// Set sets the rate of c against the base currency.
func (r *FixedRates) Set(c *money.Currency, rate float64) error {
	if !(rate > 0) {
		return fmt.Errorf("rate %s %v: %w", c, rate, ErrInvalidRate)
	}
	if c == r.base && rate != 1 {
		return fmt.Errorf("rate of base %s must be 1: %w", c, ErrInvalidRate)
	}
	r.mu.Lock()
	r.rates[c] = rate
	r.mu.Unlock()
	return nil
}

// Rate returns the rate of c against the base.
func (r *FixedRates) Rate(c *money.Currency) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.rates[c]
	return rate, ok
}

// Convert implements money.Converter. The time is ignored.
func (r *FixedRates) Convert(a money.Amount, to *money.Currency, _ time.Time) (money.Amount, error) {
	if a.Currency == to {
		return a, nil
	}
	from, ok := r.Rate(a.Currency)
	if !ok {
		return r.missing(a.Currency, to)
	}
	dest, ok := r.Rate(to)
	if !ok {
		return r.missing(a.Currency, to)
	}
	return money.NewAmount(to, a.Value/from*dest), nil
}

func (r *FixedRates) missing(from, to *money.Currency) (money.Amount, error) {
	log.Debug().Str("from", from.Code()).Str("to", to.Code()).Msg("no fixed rate")
	return money.Amount{}, fmt.Errorf("%s to %s: %w", from, to, money.ErrNoRateAvailable)
}
