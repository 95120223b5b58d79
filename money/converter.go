package money

import (
	"fmt"
	"time"
)

// Converter converts an amount into another currency at a point in time.
// The returned amount must be denominated in to.
type Converter interface {
	Convert(a Amount, to *Currency, t time.Time) (Amount, error)
}

// ConverterFunc adapts a plain function to a Converter.
type ConverterFunc func(a Amount, to *Currency, t time.Time) (Amount, error)

func (f ConverterFunc) Convert(a Amount, to *Currency, t time.Time) (Amount, error) {
	return f(a, to, t)
}

// NoExchangeRates is the converter used when none is configured. It fails
// for every conversion between two different currencies.
type NoExchangeRates struct{}

func (NoExchangeRates) Convert(a Amount, to *Currency, t time.Time) (Amount, error) {
	return Amount{}, fmt.Errorf("%s to %s at %s: %w", a.Currency, to, t.Format(time.RFC3339), ErrNoRateAvailable)
}
