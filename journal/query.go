package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

const tradeColumns = `trade_id, order_id, asset, time, size, price, pnl, currency`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec      TradeRecord
		asset    string
		size     string
		pnl      float64
		currency string
	)
	if err := s.Scan(&rec.TradeID, &rec.OrderID, &asset, &rec.Time, &size, &rec.Price, &pnl, &currency); err != nil {
		return TradeRecord{}, err
	}
	return decodeTrade(rec, asset, size, pnl, currency)
}

func decodeTrade(rec TradeRecord, asset, size string, pnl float64, currency string) (TradeRecord, error) {
	a, err := market.DeserializeAsset(asset)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s: %w", rec.TradeID, err)
	}
	sz, err := market.ParseSize(size)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("trade %s: %w", rec.TradeID, err)
	}
	rec.Asset = a
	rec.Size = sz
	rec.PNL = money.NewAmount(money.GetCurrency(currency), pnl)
	return rec, nil
}

// bounds returns the SQL comparison for the end of tf.
func bounds(tf market.Timeframe) (start, end time.Time, endOp string) {
	endOp = "<"
	if tf.Inclusive() {
		endOp = "<="
	}
	return tf.Start().UTC(), tf.End().UTC(), endOp
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns the trades booked within tf, oldest first.
func (j *SQLite) ListTradesBetween(tf market.Timeframe) ([]TradeRecord, error) {
	start, end, op := bounds(tf)
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE time >= ? AND time `+op+` ?
		ORDER BY time ASC, trade_id ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns the snapshots taken within tf, oldest first.
func (j *SQLite) ListEquityBetween(tf market.Timeframe) ([]EquitySnapshot, error) {
	start, end, op := bounds(tf)
	rows, err := j.db.Query(`
		SELECT time, currency, cash, positions, equity
		FROM equity
		WHERE time >= ? AND time `+op+` ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var (
			snap                    EquitySnapshot
			code                    string
			cash, positions, equity float64
		)
		if err := rows.Scan(&snap.Time, &code, &cash, &positions, &equity); err != nil {
			return nil, err
		}
		c := money.GetCurrency(code)
		snap.Cash = money.NewAmount(c, cash)
		snap.Positions = money.NewAmount(c, positions)
		snap.Equity = money.NewAmount(c, equity)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary aggregates the realized PNL of trades within tf, per currency.
func (j *SQLite) Summary(tf market.Timeframe) (*money.Wallet, int, error) {
	start, end, op := bounds(tf)
	rows, err := j.db.Query(`
		SELECT currency, SUM(pnl), COUNT(*)
		FROM trades
		WHERE time >= ? AND time `+op+` ?
		GROUP BY currency`, start, end)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	w := money.NewWallet()
	total := 0
	for rows.Next() {
		var (
			code string
			sum  float64
			n    int
		)
		if err := rows.Scan(&code, &sum, &n); err != nil {
			return nil, 0, err
		}
		w.Deposit(money.NewAmount(money.GetCurrency(code), sum))
		total += n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return w, total, nil
}
