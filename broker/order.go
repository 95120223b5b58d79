package broker

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

var (
	ErrNoOrderID      = errors.New("order has no id")
	ErrInvalidOrder   = errors.New("invalid order")
	ErrUnknownOrder   = errors.New("unknown order")
	ErrOrderIDAlready = errors.New("order id already assigned")
)

// TIF is the time in force of an order.
type TIF string

const (
	DAY TIF = "DAY" // expires at the end of the trading day
	GTC TIF = "GTC" // good till cancelled
)

// Order is a limit order. ID is empty until the order is placed. A
// cancellation is an order with an ID and a zero Size.
type Order struct {
	ID    string
	Asset market.Asset
	Size  market.Size
	Limit float64
	TIF   TIF
	Tag   string
	Fill  market.Size
}

// NewOrder returns a DAY order. Size must be non-zero and limit positive.
func NewOrder(asset market.Asset, size market.Size, limit float64) (*Order, error) {
	if asset == nil {
		return nil, fmt.Errorf("new order: no asset: %w", ErrInvalidOrder)
	}
	if size.IsZero() {
		return nil, fmt.Errorf("new order %s: zero size: %w", asset.Symbol(), ErrInvalidOrder)
	}
	if !(limit > 0) || math.IsInf(limit, 0) {
		return nil, fmt.Errorf("new order %s: limit %v: %w", asset.Symbol(), limit, ErrInvalidOrder)
	}
	return &Order{Asset: asset, Size: size, Limit: limit, TIF: DAY}, nil
}

// AssignID sets the broker id. It can be done once.
func (o *Order) AssignID(id string) error {
	if o.ID != "" {
		return fmt.Errorf("assign %q to %s: %w", id, o.ID, ErrOrderIDAlready)
	}
	o.ID = id
	return nil
}

// Cancel returns the order that cancels o.
func (o *Order) Cancel() (*Order, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("cancel %s: %w", o.Asset.Symbol(), ErrNoOrderID)
	}
	return &Order{ID: o.ID, Asset: o.Asset, TIF: o.TIF, Tag: o.Tag}, nil
}

// Modify returns an order that replaces o with a new size and limit.
func (o *Order) Modify(size market.Size, limit float64) (*Order, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("modify %s: %w", o.Asset.Symbol(), ErrNoOrderID)
	}
	next, err := NewOrder(o.Asset, size, limit)
	if err != nil {
		return nil, err
	}
	next.ID, next.TIF, next.Tag, next.Fill = o.ID, o.TIF, o.Tag, o.Fill
	return next, nil
}

func (o *Order) IsCancellation() bool { return o.Size.IsZero() && o.ID != "" }
func (o *Order) IsBuy() bool          { return o.Size.IsPositive() }
func (o *Order) IsSell() bool         { return o.Size.IsNegative() }

// Remaining is the size still to be filled.
func (o *Order) Remaining() market.Size { return o.Size.Sub(o.Fill) }

// Completed reports whether the order is fully filled.
func (o *Order) Completed() bool { return !o.IsCancellation() && o.Remaining().IsZero() }

// Value is the notional value at the limit price.
func (o *Order) Value() money.Amount { return o.Asset.Value(o.Size, o.Limit) }

func (o *Order) String() string {
	if o.IsCancellation() {
		return fmt.Sprintf("cancel %s %s", o.ID, o.Asset.Symbol())
	}
	return fmt.Sprintf("%s %s %s@%s %s fill=%s", o.ID, o.Asset.Symbol(), o.Size,
		money.NewAmount(o.Asset.Currency(), o.Limit).Format(), o.TIF, o.Fill)
}
