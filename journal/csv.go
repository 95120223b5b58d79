package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var (
	tradeHeader  = []string{"trade_id", "order_id", "asset", "time", "size", "price", "pnl", "currency"}
	equityHeader = []string{"time", "currency", "cash", "positions", "equity"}
)

type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSV{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.write(j.trades, tradeHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.TradeID,
		t.OrderID,
		t.Asset.Serialize(),
		t.Time.UTC().Format(time.RFC3339Nano),
		t.Size.String(),
		f(t.Price),
		f(t.PNL.Value),
		t.PNL.Currency.Code(),
	})
}

func (j *CSV) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.Time.UTC().Format(time.RFC3339Nano),
		e.Equity.Currency.Code(),
		f(e.Cash.Value),
		f(e.Positions.Value),
		f(e.Equity.Value),
	})
}

func (j *CSV) Close() error {
	j.trades.Flush()
	j.equity.Flush()
	return errors.Join(j.trades.Error(), j.equity.Error(), j.tf.Close(), j.ef.Close())
}

// ReadTrades parses a trades file written by CSV.
func ReadTrades(r io.Reader) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(tradeHeader)

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read trades header: %w", err)
	}

	var out []TradeRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		rec := TradeRecord{TradeID: row[0], OrderID: row[1]}
		if rec.Time, err = time.Parse(time.RFC3339Nano, row[3]); err != nil {
			return nil, fmt.Errorf("trade %s time: %w", rec.TradeID, err)
		}
		if rec.Price, err = strconv.ParseFloat(row[5], 64); err != nil {
			return nil, fmt.Errorf("trade %s price: %w", rec.TradeID, err)
		}
		pnl, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("trade %s pnl: %w", rec.TradeID, err)
		}
		if rec, err = decodeTrade(rec, row[2], row[4], pnl, row[7]); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadTradesFile is ReadTrades on a file.
func ReadTradesFile(path string) ([]TradeRecord, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadTrades(fh)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
