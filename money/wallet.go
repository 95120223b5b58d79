package money

import (
	"math"
	"sort"
	"strings"
	"time"
)

// epsilon is the absolute balance below which a wallet drops a currency.
const epsilon = 1e-10

// Wallet holds balances in any number of currencies. It never converts
// between them. A Wallet is not safe for concurrent mutation.
type Wallet struct {
	data map[*Currency]float64
}

// NewWallet returns a wallet holding the given amounts.
func NewWallet(amounts ...Amount) *Wallet {
	w := &Wallet{data: make(map[*Currency]float64, len(amounts))}
	for _, a := range amounts {
		w.Deposit(a)
	}
	return w
}

// put sets the balance of c. Balances without a currency are ignored.
func (w *Wallet) put(c *Currency, v float64) {
	if c == nil {
		return
	}
	if w.data == nil {
		w.data = make(map[*Currency]float64)
	}
	if math.Abs(v) < epsilon {
		delete(w.data, c)
		return
	}
	w.data[c] = v
}

// Deposit adds a to the balance of its currency. An amount without a
// currency is ignored.
func (w *Wallet) Deposit(a Amount) {
	w.put(a.Currency, w.data[a.Currency]+a.Value)
}

// Withdraw subtracts a from the balance of its currency.
func (w *Wallet) Withdraw(a Amount) {
	w.put(a.Currency, w.data[a.Currency]-a.Value)
}

// DepositWallet adds every balance of o to w.
func (w *Wallet) DepositWallet(o *Wallet) {
	for c, v := range o.data {
		w.put(c, w.data[c]+v)
	}
}

// WithdrawWallet subtracts every balance of o from w.
func (w *Wallet) WithdrawWallet(o *Wallet) {
	for c, v := range o.data {
		w.put(c, w.data[c]-v)
	}
}

// Set overwrites the balance of c.
func (w *Wallet) Set(c *Currency, v float64) {
	w.put(c, v)
}

// Get returns the balance of c, 0 when absent.
func (w *Wallet) Get(c *Currency) float64 {
	return w.data[c]
}

// Amount returns the balance of c as an Amount.
func (w *Wallet) Amount(c *Currency) Amount {
	return Amount{Currency: c, Value: w.data[c]}
}

// Plus returns a new wallet with the balances of w and o combined.
func (w *Wallet) Plus(o *Wallet) *Wallet {
	r := w.Clone()
	r.DepositWallet(o)
	return r
}

// Minus returns a new wallet with the balances of o subtracted from w.
func (w *Wallet) Minus(o *Wallet) *Wallet {
	r := w.Clone()
	r.WithdrawWallet(o)
	return r
}

// PlusAmount returns a new wallet with a deposited.
func (w *Wallet) PlusAmount(a Amount) *Wallet {
	r := w.Clone()
	r.Deposit(a)
	return r
}

// MinusAmount returns a new wallet with a withdrawn.
func (w *Wallet) MinusAmount(a Amount) *Wallet {
	r := w.Clone()
	r.Withdraw(a)
	return r
}

// Times returns a new wallet with every balance multiplied by x.
func (w *Wallet) Times(x float64) *Wallet {
	r := &Wallet{data: make(map[*Currency]float64, len(w.data))}
	for c, v := range w.data {
		r.put(c, v*x)
	}
	return r
}

// Div returns a new wallet with every balance divided by x.
func (w *Wallet) Div(x float64) *Wallet {
	r := &Wallet{data: make(map[*Currency]float64, len(w.data))}
	for c, v := range w.data {
		r.put(c, v/x)
	}
	return r
}

func (w *Wallet) IsEmpty() bool         { return len(w.data) == 0 }
func (w *Wallet) IsMultiCurrency() bool { return len(w.data) > 1 }

// Currencies returns the currencies with a non-zero balance, sorted by code.
func (w *Wallet) Currencies() []*Currency {
	out := make([]*Currency, 0, len(w.data))
	for c := range w.data {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out
}

// Amounts returns the balances as amounts, sorted by currency code.
func (w *Wallet) Amounts() []Amount {
	cs := w.Currencies()
	out := make([]Amount, len(cs))
	for i, c := range cs {
		out[i] = Amount{Currency: c, Value: w.data[c]}
	}
	return out
}

// Clone returns an independent copy of w.
func (w *Wallet) Clone() *Wallet {
	r := &Wallet{data: make(map[*Currency]float64, len(w.data))}
	for c, v := range w.data {
		r.data[c] = v
	}
	return r
}

// Clear removes all balances.
func (w *Wallet) Clear() {
	clear(w.data)
}

// Convert sums all balances expressed in currency to at time t. The
// converter is not called for an empty wallet or a wallet that only holds
// the target currency.
func (w *Wallet) Convert(conv Converter, to *Currency, t time.Time) (Amount, error) {
	if len(w.data) == 0 {
		return Zero(to), nil
	}
	if v, ok := w.data[to]; ok && len(w.data) == 1 {
		return Amount{Currency: to, Value: v}, nil
	}

	sum := 0.0
	for _, a := range w.Amounts() {
		c, err := a.Convert(conv, to, t)
		if err != nil {
			return Amount{}, err
		}
		sum += c.Value
	}
	return Amount{Currency: to, Value: sum}, nil
}

// Equal reports whether both wallets hold the same balances.
func (w *Wallet) Equal(o *Wallet) bool {
	if len(w.data) != len(o.data) {
		return false
	}
	for c, v := range w.data {
		ov, ok := o.data[c]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

func (w *Wallet) String() string {
	parts := make([]string, 0, len(w.data))
	for _, a := range w.Amounts() {
		parts = append(parts, a.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
