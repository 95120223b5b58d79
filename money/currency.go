// Package money provides currencies, single-currency amounts and
// multi-currency wallets. Nothing in this package converts between
// currencies implicitly; conversion always goes through a Converter.
package money

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/currency"
)

// defaultDigits is used for codes that are not ISO-4217 (crypto, tokens).
const defaultDigits = 2

// Currency is an interned currency identifier. There is exactly one
// *Currency per code, so pointer equality is currency equality.
type Currency struct {
	code   string
	digits atomic.Int32
}

var registry sync.Map // code -> *Currency

// Well-known currencies, registered at package initialisation.
var (
	USD  = GetCurrency("USD")
	EUR  = GetCurrency("EUR")
	JPY  = GetCurrency("JPY")
	GBP  = GetCurrency("GBP")
	CHF  = GetCurrency("CHF")
	AUD  = GetCurrency("AUD")
	CAD  = GetCurrency("CAD")
	HKD  = GetCurrency("HKD")
	CNY  = GetCurrency("CNY")
	BTC  = GetCurrency("BTC")
	ETH  = GetCurrency("ETH")
	USDT = GetCurrency("USDT")
)

// GetCurrency returns the interned currency for code, creating it on first
// use. Codes are normalised to upper case.
func GetCurrency(code string) *Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if c, ok := registry.Load(code); ok {
		return c.(*Currency)
	}

	c := &Currency{code: code}
	c.digits.Store(int32(standardDigits(code)))
	actual, _ := registry.LoadOrStore(code, c)
	return actual.(*Currency)
}

func standardDigits(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return defaultDigits
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// IncreaseDigits adds extra display digits to every registered currency.
// It only affects formatting.
func IncreaseDigits(extra int) {
	registry.Range(func(_, v any) bool {
		v.(*Currency).digits.Add(int32(extra))
		return true
	})
}

// Currencies returns all registered currencies sorted by code.
func Currencies() []*Currency {
	var out []*Currency
	registry.Range(func(_, v any) bool {
		out = append(out, v.(*Currency))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out
}

// Code returns the currency code, e.g. "USD". A nil currency has code "".
func (c *Currency) Code() string {
	if c == nil {
		return ""
	}
	return c.code
}

// Digits returns the number of fraction digits used when displaying values.
func (c *Currency) Digits() int {
	if c == nil {
		return defaultDigits
	}
	return int(c.digits.Load())
}

func (c *Currency) String() string { return c.Code() }
