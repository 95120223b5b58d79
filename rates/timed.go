package rates

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/money"
)

type point struct {
	time time.Time
	rate float64
}

// TimedRates holds a history of rates against a base currency. The rate in
// effect at t is the latest one at or before t; before the first entry the
// first entry is used.
type TimedRates struct {
	mu     sync.RWMutex
	base   *money.Currency
	series map[*money.Currency][]point
}

func NewTimedRates(base *money.Currency) *TimedRates {
	return &TimedRates{base: base, series: make(map[*money.Currency][]point)}
}

func (r *TimedRates) Base() *money.Currency { return r.base }

// Add records the rate of c at t, replacing an existing entry at t.
func (r *TimedRates) Add(c *money.Currency, t time.Time, rate float64) error {
	if !(rate > 0) {
		return fmt.Errorf("rate %s %v at %s: %w", c, rate, t.Format(time.RFC3339), ErrInvalidRate)
	}
	if c == r.base {
		return fmt.Errorf("base %s has a fixed rate of 1: %w", c, ErrInvalidRate)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.series[c]
	i := sort.Search(len(s), func(i int) bool { return !s[i].time.Before(t) })
	if i < len(s) && s[i].time.Equal(t) {
		s[i].rate = rate
		return nil
	}
	s = append(s, point{})
	copy(s[i+1:], s[i:])
	s[i] = point{time: t, rate: rate}
	r.series[c] = s
	return nil
}

// Rate returns the rate of c against the base at t.
func (r *TimedRates) Rate(c *money.Currency, t time.Time) (float64, bool) {
	if c == r.base {
		return 1, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.series[c]
	if len(s) == 0 {
		return 0, false
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].time.After(t) })
	if i == 0 {
		return s[0].rate, true
	}
	return s[i-1].rate, true
}

// Convert implements money.Converter.
func (r *TimedRates) Convert(a money.Amount, to *money.Currency, t time.Time) (money.Amount, error) {
	if a.Currency == to {
		return a, nil
	}
	from, okFrom := r.Rate(a.Currency, t)
	dest, okTo := r.Rate(to, t)
	if !okFrom || !okTo {
		log.Debug().Str("from", a.Currency.Code()).Str("to", to.Code()).Time("at", t).Msg("no timed rate")
		return money.Amount{}, fmt.Errorf("%s to %s at %s: %w", a.Currency, to, t.Format(time.RFC3339), money.ErrNoRateAvailable)
	}
	return money.NewAmount(to, a.Value/from*dest), nil
}
