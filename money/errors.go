package money

import "errors"

var (
	// ErrCurrencyMismatch is returned when two amounts of different
	// currencies are compared.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNoRateAvailable is returned by a Converter that has no rate
	// between two currencies at the requested time.
	ErrNoRateAvailable = errors.New("no exchange rate available")
)
