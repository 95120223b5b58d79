// Package risk sizes orders by the amount of equity put at risk and checks
// planned trades against a risk policy.
package risk

import (
	"time"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

type Policy struct {
	// Risk limits, as a fraction of equity
	DefaultRiskPct float64 // 0.005
	MaxRiskPct     float64 // 0.01

	// Circuit breaker on the realized loss of the current day
	MaxDailyLossPct float64 // 0.015

	// Exposure limits
	MaxOpenPositions int // 3

	// Trade constraints
	MinRR float64 // 1.5
}

// DefaultPolicy risks half a percent per trade and at most one percent.
func DefaultPolicy() Policy {
	return Policy{
		DefaultRiskPct:   0.005,
		MaxRiskPct:       0.01,
		MaxDailyLossPct:  0.015,
		MaxOpenPositions: 3,
		MinRR:            1.5,
	}
}

// Intent is a planned trade. TakeProfit is optional.
type Intent struct {
	Time       time.Time
	Asset      market.Asset
	Size       market.Size
	Entry      float64
	Stop       float64
	TakeProfit float64
}

// Exposure is what the account already has on.
type Exposure struct {
	Equity        money.Amount
	OpenPositions int
	DayRealized   money.Amount // realized PNL of the day, in Equity's currency
}
