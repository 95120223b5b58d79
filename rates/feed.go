package rates

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/pricing"
)

// FeedRates derives rates from forex prices. A conversion from A to B uses
// the A/B pair, else the inverse of B/A, else goes through the pivot
// currency (A to pivot, then pivot to B).
type FeedRates struct {
	prices pricing.PriceSource
	pivot  *money.Currency
}

// NewFeedRates returns a converter reading forex prices from prices. A nil
// pivot disables cross conversions.
func NewFeedRates(prices pricing.PriceSource, pivot *money.Currency) *FeedRates {
	return &FeedRates{prices: prices, pivot: pivot}
}

// rate returns the units of to bought by one unit of from.
func (r *FeedRates) rate(from, to *money.Currency, t time.Time) (float64, bool) {
	if from == to {
		return 1, true
	}
	if px := r.price(from, to, t); px > 0 {
		return px, true
	}
	if px := r.price(to, from, t); px > 0 {
		return 1 / px, true
	}
	return 0, false
}

func (r *FeedRates) price(base, quote *money.Currency, t time.Time) float64 {
	pair, err := market.NewForex(base.Code() + "/" + quote.Code())
	if err != nil {
		return math.NaN()
	}
	return r.prices.Price(pair, t)
}

// Rate returns the units of to that one unit of from buys at t.
func (r *FeedRates) Rate(from, to *money.Currency, t time.Time) (float64, error) {
	if rate, ok := r.rate(from, to, t); ok {
		return rate, nil
	}
	if r.pivot != nil && from != r.pivot && to != r.pivot {
		first, ok1 := r.rate(from, r.pivot, t)
		second, ok2 := r.rate(r.pivot, to, t)
		if ok1 && ok2 {
			return first * second, nil
		}
	}
	log.Debug().Str("from", from.Code()).Str("to", to.Code()).Time("at", t).Msg("no forex quote")
	return 0, fmt.Errorf("%s to %s at %s: %w", from, to, t.Format(time.RFC3339), money.ErrNoRateAvailable)
}

// Convert implements money.Converter.
func (r *FeedRates) Convert(a money.Amount, to *money.Currency, t time.Time) (money.Amount, error) {
	if a.Currency == to {
		return a, nil
	}
	rate, err := r.Rate(a.Currency, to, t)
	if err != nil {
		return money.Amount{}, err
	}
	return money.NewAmount(to, a.Value*rate), nil
}
