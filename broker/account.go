package broker

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/journal"
	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/pkg/id"
	"github.com/rustyeddy/roboquant/pricing"
)

var ErrInvalidTrade = errors.New("invalid trade")

// Account keeps the books of a trading account: cash, positions, open
// orders and executed trades. It does not match orders; trades are applied
// by whatever executes them. An Account is not safe for concurrent use.
type Account struct {
	ID           string
	BaseCurrency *money.Currency
	Cash         *money.Wallet
	LastUpdate   time.Time

	// Journal, when set, receives every applied trade and snapshot.
	Journal journal.Journal

	positions map[market.Asset]Position
	orders    map[string]*Order
	trades    []Trade
}

// NewAccount returns an account with the given initial deposits.
func NewAccount(base *money.Currency, deposits ...money.Amount) *Account {
	return &Account{
		ID:           id.New(),
		BaseCurrency: base,
		Cash:         money.NewWallet(deposits...),
		positions:    make(map[market.Asset]Position),
		orders:       make(map[string]*Order),
	}
}

func (a *Account) Deposit(m money.Amount)  { a.Cash.Deposit(m) }
func (a *Account) Withdraw(m money.Amount) { a.Cash.Withdraw(m) }

// Place accepts a new order, a modification (an order with a known ID) or
// a cancellation, and returns the order ID.
func (a *Account) Place(o *Order) (string, error) {
	switch {
	case o.IsCancellation():
		if _, ok := a.orders[o.ID]; !ok {
			return "", fmt.Errorf("cancel %s: %w", o.ID, ErrUnknownOrder)
		}
		delete(a.orders, o.ID)
		log.Debug().Str("order", o.ID).Msg("order cancelled")
	case o.ID != "":
		if _, ok := a.orders[o.ID]; !ok {
			return "", fmt.Errorf("modify %s: %w", o.ID, ErrUnknownOrder)
		}
		a.orders[o.ID] = o
		log.Debug().Str("order", o.ID).Stringer("size", o.Size).Float64("limit", o.Limit).Msg("order modified")
	case o.Size.IsZero():
		return "", fmt.Errorf("place %s: zero size: %w", o.Asset.Symbol(), ErrInvalidOrder)
	default:
		if err := o.AssignID(id.New()); err != nil {
			return "", err
		}
		a.orders[o.ID] = o
		log.Debug().Str("order", o.ID).Str("asset", o.Asset.Symbol()).Stringer("size", o.Size).Msg("order placed")
	}
	return o.ID, nil
}

// Apply books an execution: the position is filled, cash moves by the trade
// value and the matching order, if any, records the fill. The booked trade,
// with its ID and realized PNL set, is returned.
func (a *Account) Apply(tr Trade) (Trade, error) {
	if tr.Asset == nil || tr.Size.IsZero() {
		return Trade{}, fmt.Errorf("apply trade %q: %w", tr.ID, ErrInvalidTrade)
	}
	if math.IsNaN(tr.Price) || math.IsInf(tr.Price, 0) {
		return Trade{}, fmt.Errorf("apply trade %s: price %v: %w", tr.Asset.Symbol(), tr.Price, ErrInvalidTrade)
	}
	if tr.ID == "" {
		tr.ID = id.NewAt(tr.Time)
	}

	next, pnl := a.positions[tr.Asset].Fill(tr.Asset, tr.Size, tr.Price, tr.Time)
	tr.PNL = pnl
	if next.Closed() {
		delete(a.positions, tr.Asset)
	} else {
		a.positions[tr.Asset] = next
	}
	a.Cash.Withdraw(tr.Value())

	if o, ok := a.orders[tr.OrderID]; ok {
		o.Fill = o.Fill.Add(tr.Size)
		if o.Completed() {
			delete(a.orders, o.ID)
		}
	}

	a.trades = append(a.trades, tr)
	if tr.Time.After(a.LastUpdate) {
		a.LastUpdate = tr.Time
	}
	log.Debug().Str("trade", tr.ID).Str("asset", tr.Asset.Symbol()).Stringer("size", tr.Size).
		Float64("price", tr.Price).Stringer("pnl", tr.PNL).Msg("trade applied")

	if a.Journal != nil {
		if err := a.Journal.RecordTrade(tradeRecord(tr)); err != nil {
			return tr, fmt.Errorf("journal trade %s: %w", tr.ID, err)
		}
	}
	return tr, nil
}

func tradeRecord(tr Trade) journal.TradeRecord {
	return journal.TradeRecord{
		TradeID: tr.ID,
		OrderID: tr.OrderID,
		Asset:   tr.Asset,
		Time:    tr.Time,
		Size:    tr.Size,
		Price:   tr.Price,
		PNL:     tr.PNL,
	}
}

// Mark updates the market price of every position from prices. Positions
// without a price at t keep their last price.
func (a *Account) Mark(prices pricing.PriceSource, t time.Time) {
	for asset, p := range a.positions {
		px := prices.Price(asset, t)
		if math.IsNaN(px) {
			log.Debug().Str("asset", asset.Symbol()).Time("at", t).Msg("no price to mark position")
			continue
		}
		a.positions[asset] = p.Mark(px, t)
	}
	a.LastUpdate = t
}

// Position returns the position in asset; a closed position if none.
func (a *Account) Position(asset market.Asset) Position {
	return a.positions[asset]
}

// Assets returns the assets with an open position, sorted.
func (a *Account) Assets() []market.Asset {
	out := make([]market.Asset, 0, len(a.positions))
	for asset := range a.positions {
		out = append(out, asset)
	}
	market.SortAssets(out)
	return out
}

// OpenOrders returns the orders not yet filled or cancelled, by ID.
func (a *Account) OpenOrders() []*Order {
	out := make([]*Order, 0, len(a.orders))
	for _, o := range a.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Trades returns a copy of the booked trades in booking order.
func (a *Account) Trades() []Trade {
	return append([]Trade(nil), a.trades...)
}

// PositionsValue is the market value of all positions, per currency.
func (a *Account) PositionsValue() *money.Wallet {
	w := money.NewWallet()
	for asset, p := range a.positions {
		w.Deposit(p.MarketValue(asset))
	}
	return w
}

// UnrealizedPNL sums the unrealized PNL of all positions, per currency.
func (a *Account) UnrealizedPNL() *money.Wallet {
	w := money.NewWallet()
	for asset, p := range a.positions {
		w.Deposit(p.UnrealizedPNL(asset))
	}
	return w
}

// RealizedPNL sums the realized PNL of all trades, per currency.
func (a *Account) RealizedPNL() *money.Wallet {
	w := money.NewWallet()
	for _, tr := range a.trades {
		w.Deposit(tr.PNL)
	}
	return w
}

// Equity is cash plus positions, converted to the base currency.
func (a *Account) Equity(conv money.Converter, t time.Time) (money.Amount, error) {
	return a.Cash.Plus(a.PositionsValue()).Convert(conv, a.BaseCurrency, t)
}

// Snapshot values the account in the base currency at t and records it in
// the journal, if any.
func (a *Account) Snapshot(conv money.Converter, t time.Time) (journal.EquitySnapshot, error) {
	cash, err := a.Cash.Convert(conv, a.BaseCurrency, t)
	if err != nil {
		return journal.EquitySnapshot{}, fmt.Errorf("snapshot cash: %w", err)
	}
	positions, err := a.PositionsValue().Convert(conv, a.BaseCurrency, t)
	if err != nil {
		return journal.EquitySnapshot{}, fmt.Errorf("snapshot positions: %w", err)
	}
	snap := journal.EquitySnapshot{
		Time:      t,
		Cash:      cash,
		Positions: positions,
		Equity:    money.NewAmount(a.BaseCurrency, cash.Value+positions.Value),
	}
	if a.Journal != nil {
		if err := a.Journal.RecordEquity(snap); err != nil {
			return snap, fmt.Errorf("journal equity: %w", err)
		}
	}
	return snap, nil
}
