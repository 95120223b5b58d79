package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/roboquant/broker"
	"github.com/rustyeddy/roboquant/money"
)

// AccountExposure reads the exposure of acc at t. The day is the UTC date
// of t.
func AccountExposure(acc *broker.Account, conv money.Converter, t time.Time) (Exposure, error) {
	equity, err := acc.Equity(conv, t)
	if err != nil {
		return Exposure{}, fmt.Errorf("exposure equity: %w", err)
	}

	y, m, d := t.UTC().Date()
	day := money.NewWallet()
	for _, tr := range acc.Trades() {
		ty, tm, td := tr.Time.UTC().Date()
		if ty == y && tm == m && td == d {
			day.Deposit(tr.PNL)
		}
	}
	realized, err := day.Convert(conv, acc.BaseCurrency, t)
	if err != nil {
		return Exposure{}, fmt.Errorf("exposure realized pnl: %w", err)
	}

	return Exposure{
		Equity:        equity,
		OpenPositions: len(acc.Assets()),
		DayRealized:   realized,
	}, nil
}
