package broker

import (
	"time"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

// Position is the holding in one asset. It is a value; updates return a new
// Position.
type Position struct {
	Size       market.Size
	AvgPrice   float64
	MktPrice   float64
	LastUpdate time.Time
}

func (p Position) Closed() bool { return p.Size.IsZero() }
func (p Position) Long() bool   { return p.Size.IsPositive() }
func (p Position) Short() bool  { return p.Size.IsNegative() }

// MarketValue is the position valued at the last market price.
func (p Position) MarketValue(asset market.Asset) money.Amount {
	return asset.Value(p.Size, p.MktPrice)
}

// TotalCost is the position valued at its average entry price.
func (p Position) TotalCost(asset market.Asset) money.Amount {
	return asset.Value(p.Size, p.AvgPrice)
}

func (p Position) UnrealizedPNL(asset market.Asset) money.Amount {
	return asset.Value(p.Size, p.MktPrice-p.AvgPrice)
}

// Mark returns the position with a new market price.
func (p Position) Mark(price float64, t time.Time) Position {
	p.MktPrice = price
	p.LastUpdate = t
	return p
}

// Fill applies an execution of size at price and returns the new position
// and the PNL realized by the part of the fill that reduced the position.
// A fill that flips the position realizes the whole old position and opens
// the remainder at price.
func (p Position) Fill(asset market.Asset, size market.Size, price float64, t time.Time) (Position, money.Amount) {
	pnl := money.Zero(asset.Currency())
	next := Position{Size: p.Size.Add(size), AvgPrice: p.AvgPrice, MktPrice: price, LastUpdate: t}

	switch {
	case size.IsZero():
	case next.Size.IsZero():
		pnl = asset.Value(p.Size, price-p.AvgPrice)
		next.AvgPrice = 0
	case p.Size.IsZero() || p.Size.Sign() == size.Sign():
		cost := p.Size.Float64()*p.AvgPrice + size.Float64()*price
		next.AvgPrice = cost / next.Size.Float64()
	case next.Size.Sign() == p.Size.Sign():
		pnl = asset.Value(size.Neg(), price-p.AvgPrice)
	default:
		pnl = asset.Value(p.Size, price-p.AvgPrice)
		next.AvgPrice = price
	}
	return next, pnl
}
