package money

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in a single currency.
type Amount struct {
	Currency *Currency
	Value    float64
}

// NewAmount returns an Amount of v in currency c.
func NewAmount(c *Currency, v float64) Amount {
	return Amount{Currency: c, Value: v}
}

// Zero returns the zero amount in currency c.
func Zero(c *Currency) Amount {
	return Amount{Currency: c}
}

func (a Amount) Times(x float64) Amount    { return Amount{a.Currency, a.Value * x} }
func (a Amount) Div(x float64) Amount      { return Amount{a.Currency, a.Value / x} }
func (a Amount) AddValue(x float64) Amount { return Amount{a.Currency, a.Value + x} }
func (a Amount) SubValue(x float64) Amount { return Amount{a.Currency, a.Value - x} }
func (a Amount) Neg() Amount               { return Amount{a.Currency, -a.Value} }
func (a Amount) Abs() Amount               { return Amount{a.Currency, math.Abs(a.Value)} }

func (a Amount) IsZero() bool     { return a.Value == 0.0 }
func (a Amount) IsPositive() bool { return a.Value > 0.0 }
func (a Amount) IsNegative() bool { return a.Value < 0.0 }

// Add returns a new wallet holding both a and o. Amounts in different
// currencies stay separate.
func (a Amount) Add(o Amount) *Wallet {
	w := NewWallet(a)
	w.Deposit(o)
	return w
}

// Sub returns a new wallet holding a minus o.
func (a Amount) Sub(o Amount) *Wallet {
	w := NewWallet(a)
	w.Withdraw(o)
	return w
}

// Wallet returns a new wallet containing only a.
func (a Amount) Wallet() *Wallet {
	return NewWallet(a)
}

// Compare returns -1, 0 or +1. Amounts in different currencies cannot be
// compared.
func (a Amount) Compare(o Amount) (int, error) {
	if a.Currency != o.Currency {
		return 0, fmt.Errorf("compare %s with %s: %w", a.Currency, o.Currency, ErrCurrencyMismatch)
	}
	switch {
	case a.Value < o.Value:
		return -1, nil
	case a.Value > o.Value:
		return 1, nil
	}
	return 0, nil
}

// Convert returns a expressed in currency to at time t. A zero amount or an
// amount already in the target currency never reaches the converter.
func (a Amount) Convert(conv Converter, to *Currency, t time.Time) (Amount, error) {
	if a.Currency == to {
		return a, nil
	}
	if a.Value == 0.0 {
		return Zero(to), nil
	}
	return conv.Convert(a, to, t)
}

// FormatValue formats the value with the given number of fraction digits.
// The output does not depend on the process locale.
func (a Amount) FormatValue(digits int) string {
	if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return strconv.FormatFloat(a.Value, 'f', -1, 64)
	}
	return decimal.NewFromFloat(a.Value).StringFixed(int32(digits))
}

// Format formats the value using the currency's display digits.
func (a Amount) Format() string {
	return a.FormatValue(a.Currency.Digits())
}

func (a Amount) String() string {
	return a.Currency.Code() + " " + a.Format()
}
