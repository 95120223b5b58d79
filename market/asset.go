package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rustyeddy/roboquant/money"
)

// Asset is a tradeable instrument. Implementations are immutable,
// comparable values so they can be used as map keys.
type Asset interface {
	Symbol() string
	Currency() *money.Currency
	Exchange() *Exchange

	// Type is the tag used by Serialize and DeserializeAsset.
	Type() string

	// Value returns the value of size units at price, in the asset currency.
	// A zero size is worth zero whatever the price, NaN included.
	Value(size Size, price float64) money.Amount

	// Serialize returns "<Type><SEP><field>..." so that
	// DeserializeAsset(a.Serialize()) == a.
	Serialize() string
}

func value(c *money.Currency, size Size, multiplier, price float64) money.Amount {
	if size.IsZero() {
		return money.Zero(c)
	}
	return money.NewAmount(c, size.Float64()*multiplier*price)
}

func validate(kind, symbol string, c *money.Currency) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%s: blank symbol: %w", kind, ErrInvalidArgument)
	}
	if c == nil {
		return fmt.Errorf("%s %s: no currency: %w", kind, symbol, ErrInvalidArgument)
	}
	return nil
}

// Stock is an exchange-listed equity.
type Stock struct {
	symbol   string
	currency *money.Currency
	exchange *Exchange
}

// NewStock returns a stock listed on exchange; nil means DefaultExchange.
func NewStock(symbol string, currency *money.Currency, exchange *Exchange) (Stock, error) {
	if err := validate("stock", symbol, currency); err != nil {
		return Stock{}, err
	}
	if exchange == nil {
		exchange = DefaultExchange
	}
	return Stock{symbol: symbol, currency: currency, exchange: exchange}, nil
}

func (s Stock) Symbol() string                              { return s.symbol }
func (s Stock) Currency() *money.Currency                   { return s.currency }
func (s Stock) Exchange() *Exchange                         { return s.exchange }
func (s Stock) Type() string                                { return "Stock" }
func (s Stock) Value(size Size, price float64) money.Amount { return value(s.currency, size, 1, price) }
func (s Stock) String() string                              { return "Stock(" + s.symbol + ")" }

func (s Stock) Serialize() string {
	return join(s.Type(), s.symbol, s.currency.Code(), s.exchange.Code())
}

// DefaultOptionMultiplier is the contract size of a standard equity option.
const DefaultOptionMultiplier = 100.0

// Option is a listed option contract; price is quoted per underlying unit.
type Option struct {
	symbol     string
	currency   *money.Currency
	multiplier float64
}

// NewOption returns an option; a multiplier of 0 selects
// DefaultOptionMultiplier.
func NewOption(symbol string, currency *money.Currency, multiplier float64) (Option, error) {
	if err := validate("option", symbol, currency); err != nil {
		return Option{}, err
	}
	if multiplier == 0 {
		multiplier = DefaultOptionMultiplier
	}
	if !validMultiplier(multiplier) {
		return Option{}, fmt.Errorf("option %s: multiplier %v: %w", symbol, multiplier, ErrInvalidArgument)
	}
	return Option{symbol: symbol, currency: currency, multiplier: multiplier}, nil
}

func (o Option) Symbol() string            { return o.symbol }
func (o Option) Currency() *money.Currency { return o.currency }
func (o Option) Exchange() *Exchange       { return DefaultExchange }
func (o Option) Type() string              { return "Option" }
func (o Option) Multiplier() float64       { return o.multiplier }
func (o Option) String() string            { return "Option(" + o.symbol + ")" }

func (o Option) Value(size Size, price float64) money.Amount {
	return value(o.currency, size, o.multiplier, price)
}

func (o Option) Serialize() string {
	return join(o.Type(), o.symbol, o.currency.Code(), formatFloat(o.multiplier))
}

// validMultiplier rejects zero, negatives, NaN and infinities.
func validMultiplier(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}

// Future is a futures contract with a fixed multiplier.
type Future struct {
	symbol     string
	currency   *money.Currency
	multiplier float64
}

func NewFuture(symbol string, currency *money.Currency, multiplier float64) (Future, error) {
	if err := validate("future", symbol, currency); err != nil {
		return Future{}, err
	}
	if !validMultiplier(multiplier) {
		return Future{}, fmt.Errorf("future %s: multiplier %v: %w", symbol, multiplier, ErrInvalidArgument)
	}
	return Future{symbol: symbol, currency: currency, multiplier: multiplier}, nil
}

func (f Future) Symbol() string            { return f.symbol }
func (f Future) Currency() *money.Currency { return f.currency }
func (f Future) Exchange() *Exchange       { return DefaultExchange }
func (f Future) Type() string              { return "Future" }
func (f Future) Multiplier() float64       { return f.multiplier }
func (f Future) String() string            { return "Future(" + f.symbol + ")" }

func (f Future) Value(size Size, price float64) money.Amount {
	return value(f.currency, size, f.multiplier, price)
}

func (f Future) Serialize() string {
	return join(f.Type(), f.symbol, f.currency.Code(), formatFloat(f.multiplier))
}

// Forex is a currency pair; size is in base currency units and price is
// quoted in the quote currency.
type Forex struct {
	base  *money.Currency
	quote *money.Currency
}

// NewForex parses "EUR/USD", "EUR_USD" or "EURUSD".
func NewForex(symbol string) (Forex, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	var base, quote string
	switch {
	case strings.ContainsAny(s, "/_-"):
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '_' || r == '-' })
		if len(parts) != 2 {
			return Forex{}, fmt.Errorf("forex %q: %w", symbol, ErrInvalidArgument)
		}
		base, quote = parts[0], parts[1]
	case len(s) == 6:
		base, quote = s[:3], s[3:]
	default:
		return Forex{}, fmt.Errorf("forex %q: %w", symbol, ErrInvalidArgument)
	}
	return Forex{base: money.GetCurrency(base), quote: money.GetCurrency(quote)}, nil
}

func (f Forex) Symbol() string            { return f.base.Code() + "/" + f.quote.Code() }
func (f Forex) Currency() *money.Currency { return f.quote }
func (f Forex) Base() *money.Currency     { return f.base }
func (f Forex) Exchange() *Exchange       { return DefaultExchange }
func (f Forex) Type() string              { return "Forex" }
func (f Forex) String() string            { return "Forex(" + f.Symbol() + ")" }
func (f Forex) Serialize() string         { return join(f.Type(), f.Symbol()) }

func (f Forex) Value(size Size, price float64) money.Amount {
	return value(f.quote, size, 1, price)
}

// Crypto is a crypto pair such as "BTC-USDT", traded on the CRYPTO exchange.
type Crypto struct {
	symbol   string
	currency *money.Currency
}

func NewCrypto(symbol string, currency *money.Currency) (Crypto, error) {
	if err := validate("crypto", symbol, currency); err != nil {
		return Crypto{}, err
	}
	return Crypto{symbol: symbol, currency: currency}, nil
}

func (c Crypto) Symbol() string            { return c.symbol }
func (c Crypto) Currency() *money.Currency { return c.currency }
func (c Crypto) Exchange() *Exchange       { return GetExchange("CRYPTO") }
func (c Crypto) Type() string              { return "Crypto" }
func (c Crypto) String() string            { return "Crypto(" + c.symbol + ")" }
func (c Crypto) Serialize() string         { return join(c.Type(), c.symbol, c.currency.Code()) }

func (c Crypto) Value(size Size, price float64) money.Amount {
	return value(c.currency, size, 1, price)
}

// CompareAssets orders by symbol, then by type.
func CompareAssets(a, b Asset) int {
	if c := strings.Compare(a.Symbol(), b.Symbol()); c != 0 {
		return c
	}
	return strings.Compare(a.Type(), b.Type())
}

// SortAssets sorts assets in place using CompareAssets.
func SortAssets(assets []Asset) {
	sort.Slice(assets, func(i, j int) bool { return CompareAssets(assets[i], assets[j]) < 0 })
}
