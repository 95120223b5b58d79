package risk

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

var ErrNoRisk = errors.New("entry and stop must differ")

// maxUnits keeps sizes well inside the range of market.Size.
const maxUnits = 1e10

// PlannedRisk is the loss, in the currency of to, if a position of size
// in asset entered at entry is stopped out at stop.
func PlannedRisk(asset market.Asset, size market.Size, entry, stop float64,
	conv money.Converter, to *money.Currency, t time.Time) (money.Amount, error) {
	loss := asset.Value(size.Abs(), math.Abs(entry-stop))
	return loss.Convert(conv, to, t)
}

// RR is the reward to risk ratio of a trade; 0 without a stop distance.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}

// RiskPct is the planned risk as a fraction of equity.
func RiskPct(planned, equity money.Amount) float64 {
	if !equity.IsPositive() {
		return math.Inf(1)
	}
	return planned.Value / equity.Value
}

// Size returns the largest position that loses no more than riskPct of
// equity when stopped out. The sign follows the trade direction: long when
// stop is below entry. Sizes are whole units unless fractional is set, in
// which case they are truncated to 8 decimals. A non-positive equity gives
// a zero size.
func Size(asset market.Asset, equity money.Amount, riskPct, entry, stop float64,
	fractional bool, conv money.Converter, t time.Time) (market.Size, error) {
	if entry == stop {
		return market.ZeroSize, ErrNoRisk
	}
	if !(riskPct > 0) {
		return market.ZeroSize, fmt.Errorf("risk pct %v: %w", riskPct, market.ErrInvalidArgument)
	}

	perUnit, err := PlannedRisk(asset, market.OneSize, entry, stop, conv, equity.Currency, t)
	if err != nil {
		return market.ZeroSize, fmt.Errorf("size %s: %w", asset.Symbol(), err)
	}

	if !(perUnit.Value > 0) {
		return market.ZeroSize, ErrNoRisk
	}

	units := equity.Value * riskPct / perUnit.Value
	if fractional {
		units = math.Floor(units*1e8) / 1e8
	} else {
		units = math.Floor(units)
	}
	if units < 0 {
		units = 0
	}
	if math.IsNaN(units) || units > maxUnits {
		return market.ZeroSize, fmt.Errorf("size %s %v: %w", asset.Symbol(), units, market.ErrSizeOverflow)
	}
	size := market.SizeFromFloat(units)
	if stop > entry {
		size = size.Neg()
	}
	return size, nil
}
