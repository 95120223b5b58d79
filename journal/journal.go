// Package journal records booked trades and equity snapshots to CSV files
// or a SQLite database.
package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

var (
	ErrTradeNotFound  = errors.New("trade not found")
	ErrUnknownJournal = errors.New("unknown journal type")
)

// TradeRecord is a booked execution. Asset is stored in its serialized form
// and Size as its exact decimal string.
type TradeRecord struct {
	TradeID string
	OrderID string
	Asset   market.Asset
	Time    time.Time
	Size    market.Size
	Price   float64
	PNL     money.Amount // realized
}

// EquitySnapshot values an account in its base currency.
type EquitySnapshot struct {
	Time      time.Time
	Cash      money.Amount
	Positions money.Amount
	Equity    money.Amount
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Open returns a journal of the given type. For "sqlite" path is the
// database file; for "csv" it is a directory that receives trades.csv and
// equity.csv.
func Open(kind, path string) (Journal, error) {
	switch strings.ToLower(kind) {
	case "sqlite", "sqlite3":
		log.Debug().Str("path", path).Msg("opening sqlite journal")
		return NewSQLite(path)
	case "csv":
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("csv journal dir: %w", err)
		}
		log.Debug().Str("dir", path).Msg("opening csv journal")
		return NewCSV(filepath.Join(path, "trades.csv"), filepath.Join(path, "equity.csv"))
	}
	return nil, fmt.Errorf("journal %q: %w", kind, ErrUnknownJournal)
}
