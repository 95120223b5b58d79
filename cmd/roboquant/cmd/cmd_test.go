package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/roboquant/journal"
	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

// run executes a fresh command tree. Commands share the global logger, so
// these tests do not run in parallel.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roboquant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// fields splits every output line on whitespace.
func fields(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "roboquant version "+version+"\n", out)
}

func TestValue(t *testing.T) {
	out, err := run(t, "value", "AAPL", "10", "150.25")
	require.NoError(t, err)
	assert.Equal(t, "Stock AAPL 10 @ 150.25 = USD 1502.50\n", out)

	out, err = run(t, "value", "-t", "future", "ES", "2", "5200", "--multiplier", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "= USD 520000.00")

	_, err = run(t, "value", "-t", "bond", "X", "1", "1")
	assert.ErrorIs(t, err, market.ErrUnknownAssetType)

	_, err = run(t, "value", "AAPL", "1.000000001", "1")
	assert.Error(t, err)
}

func TestValueAndConvert_WithRates(t *testing.T) {
	cfg := writeConfig(t, `
account:
  base_currency: USD
  initial_cash:
    USD: 1000
rates:
  base: USD
  table:
    EUR: 0.5
`)

	out, err := run(t, "-c", cfg, "value", "-t", "forex", "EUR/USD", "1000", "1.1", "--to", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "Forex EUR/USD 1000 @ 1.1 = USD 1100.00\n  = EUR 550.00\n", out)

	out, err = run(t, "-c", cfg, "convert", "100", "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, "EUR 100.00 = USD 200.00\n", out)

	_, err = run(t, "-c", cfg, "convert", "100", "GBP", "USD")
	assert.ErrorIs(t, err, money.ErrNoRateAvailable)

	_, err = run(t, "convert", "ten", "EUR", "USD")
	assert.Error(t, err)
}

func TestCalendar(t *testing.T) {
	out, err := run(t, "calendar", "XNYS", "2024-07-03", "2024-07-06")
	require.NoError(t, err)

	rows := fields(out)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2024-07-03", "Wed", "09:30-13:00", "America/New_York"}, rows[0])
	assert.Equal(t, []string{"2024-07-04", "Thu", "closed"}, rows[1])
	assert.Equal(t, []string{"2024-07-05", "Fri", "09:30-16:00", "America/New_York"}, rows[2])
	assert.Equal(t, []string{"2024-07-06", "Sat", "closed"}, rows[3])

	out, err = run(t, "calendar", "XNYS", "--next", "2024-07-03T18:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "XNYS next open 2024-07-05T09:30:00-04:00\n", out)

	_, err = run(t, "calendar", "XNYS")
	assert.Error(t, err)
}

func TestExchanges(t *testing.T) {
	out, err := run(t, "exchanges")
	require.NoError(t, err)
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "XLON")
	assert.Contains(t, out, "Europe/London")
}

func TestTimeframe(t *testing.T) {
	out, err := run(t, "timeframe", "split", "2020-01-01", "2022-01-01", "--period", "1Y")
	require.NoError(t, err)
	assert.Equal(t, "[2020-01-01 - 2021-01-01)\n[2021-01-01 - 2022-01-01)\n", out)

	out, err = run(t, "timeframe", "split", "2024-01-01", "2024-01-11", "-p", "4D", "--remaining")
	require.NoError(t, err)
	assert.Len(t, fields(out), 3)

	_, err = run(t, "timeframe", "split", "2024-01-01", "2024-01-11", "-p", "0D")
	assert.ErrorIs(t, err, market.ErrInvalidArgument)

	out, err = run(t, "timeframe", "traintest", "2020-01-01", "2020-01-11", "--test", "0.2")
	require.NoError(t, err)
	assert.Equal(t, "train [2020-01-01 - 2020-01-09)\ntest  [2020-01-09T00:00 - 2020-01-11T00:00)\n", out)
}

func TestSize(t *testing.T) {
	out, err := run(t, "size", "AAPL", "--entry", "100", "--stop", "95", "--tp", "110")
	require.NoError(t, err)
	assert.Equal(t, "Stock AAPL entry 100 stop 95: size 1000\n"+
		"risk USD 5000.00 (0.50% of USD 1000000.00), RR 2.00\n", out)

	out, err = run(t, "size", "AAPL", "--entry", "100", "--stop", "105", "--tp", "97", "--risk", "0.02")
	require.NoError(t, err)
	assert.Contains(t, out, "size -4000")
	assert.Contains(t, out, "RISK_TOO_HIGH")
	assert.Contains(t, out, "RR_TOO_LOW")

	_, err = run(t, "size", "AAPL", "--entry", "100")
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rq.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Base currency: USD")

	_, err = run(t, "config", "validate", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func writeTrades(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	j, err := journal.NewCSV(filepath.Join(dir, "trades.csv"), filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)

	aapl, err := market.NewStock("AAPL", money.USD, market.GetExchange("XNAS"))
	require.NoError(t, err)
	t0 := time.Date(2024, 3, 28, 14, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordTrade(journal.TradeRecord{
		TradeID: "T1", OrderID: "O1", Asset: aapl, Time: t0, Size: market.NewSize(10), Price: 100, PNL: money.Zero(money.USD),
	}))
	require.NoError(t, j.RecordTrade(journal.TradeRecord{
		TradeID: "T2", OrderID: "O2", Asset: aapl, Time: t0.Add(24 * time.Hour), Size: market.NewSize(-4), Price: 110, PNL: money.NewAmount(money.USD, 40),
	}))
	require.NoError(t, j.Close())
	return dir
}

func TestReplayAndJournal(t *testing.T) {
	tradesDir := writeTrades(t)
	db := filepath.Join(t.TempDir(), "rq.db")
	cfg := writeConfig(t, `
account:
  base_currency: USD
  initial_cash:
    USD: 1000000
journal:
  type: sqlite
  path: `+db+`
`)

	out, err := run(t, "-c", cfg, "replay", "--record", filepath.Join(tradesDir, "trades.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "equity     USD 1000100.00 (cash 999440.00, positions 660.00)")
	assert.Contains(t, out, "realized   {USD 40.00}")

	out, err = run(t, "-c", cfg, "journal", "trades")
	require.NoError(t, err)
	rows := fields(out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-03-28T14:00:00Z", "T1", "AAPL", "10", "100", "USD", "0.00"}, rows[1])
	assert.Equal(t, "T2", rows[2][1])

	out, err = run(t, "-c", cfg, "journal", "trades", "--to", "2024-03-28")
	require.NoError(t, err)
	assert.Len(t, fields(out), 2)

	out, err = run(t, "-c", cfg, "journal", "summary")
	require.NoError(t, err)
	assert.Equal(t, "2 trades, realized PNL {USD 40.00}\n", out)

	out, err = run(t, "-c", cfg, "journal", "trade", "T2")
	require.NoError(t, err)
	assert.Contains(t, out, "** Trade: AAPL (T2)")
	assert.Contains(t, out, ":PNL: USD 40.00")

	_, err = run(t, "-c", cfg, "journal", "trade", "T9")
	assert.ErrorIs(t, err, journal.ErrTradeNotFound)

	// the csv journal is read directly
	out, err = run(t, "journal", "summary", "--type", "csv", "--path", tradesDir, "--from", "2024-03-29")
	require.NoError(t, err)
	assert.Equal(t, "1 trades, realized PNL {USD 40.00}\n", out)

	_, err = run(t, "journal", "trade", "T1", "--type", "csv", "--path", tradesDir)
	assert.ErrorIs(t, err, journal.ErrUnknownJournal)
}
