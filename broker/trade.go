package broker

import (
	"fmt"
	"time"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

// Trade is an execution. It is created by whatever matches orders and is
// never modified afterwards.
type Trade struct {
	ID      string
	OrderID string
	Asset   market.Asset
	Time    time.Time
	Size    market.Size
	Price   float64
	PNL     money.Amount // realized
}

// Value is the notional value of the execution.
func (t Trade) Value() money.Amount {
	return t.Asset.Value(t.Size, t.Price)
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s@%v pnl=%s", t.Time.Format(time.RFC3339), t.Asset.Symbol(), t.Size, t.Price, t.PNL)
}
