package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, order_id, asset, symbol, time, size, price, pnl, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.OrderID, t.Asset.Serialize(), t.Asset.Symbol(),
		t.Time.UTC(), t.Size.String(), t.Price, t.PNL.Value, t.PNL.Currency.Code(),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, currency, cash, positions, equity)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time.UTC(), e.Equity.Currency.Code(), e.Cash.Value, e.Positions.Value, e.Equity.Value,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
