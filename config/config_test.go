package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/risk"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "USD", cfg.Account.BaseCurrency)
	assert.Equal(t, 1_000_000.0, cfg.Account.InitialCash["USD"])
	assert.Same(t, money.USD, cfg.BaseCurrency())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing base currency", func(c *Config) { c.Account.BaseCurrency = "" }, "account.base_currency is required"},
		{"negative cash", func(c *Config) { c.Account.InitialCash["EUR"] = -1 }, "account.initial_cash[EUR] must be >= 0"},
		{"negative digits", func(c *Config) { c.Currency.ExtraDigits = -1 }, "currency.extra_digits must be >= 0"},
		{"zero rate", func(c *Config) { c.Rates.Table = map[string]float64{"EUR": 0} }, "rates.table[EUR] must be > 0"},
		{"rates without base", func(c *Config) {
			c.Rates.Base = ""
			c.Rates.Table = map[string]float64{"EUR": 0.9}
		}, "rates.base is required"},
		{"bad zone", func(c *Config) {
			c.Exchanges = []ExchangeConfig{{Code: "XCFG", Zone: "Mars/Olympus", Open: "09:00", Close: "17:00"}}
		}, "exchanges[0].zone"},
		{"bad open", func(c *Config) {
			c.Exchanges = []ExchangeConfig{{Code: "XCFG", Zone: "UTC", Open: "9am", Close: "17:00"}}
		}, "exchanges[0].open must be HH:MM"},
		{"open after close", func(c *Config) {
			c.Exchanges = []ExchangeConfig{{Code: "XCFG", Zone: "UTC", Open: "17:00", Close: "09:00"}}
		}, "exchanges[0].open must be before close"},
		{"risk above one", func(c *Config) { c.Risk.MaxRiskPct = 2 }, "risk.max_risk_pct must be <= 1"},
		{"default over max", func(c *Config) { c.Risk.DefaultRiskPct = 0.02 }, "risk.default_risk_pct must not exceed"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type must be one of [csv sqlite sqlite3]"},
		{"journal without path", func(c *Config) { c.Journal.Type = "sqlite" }, "journal.path is required"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of [console json]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.Account.InitialCash = map[string]float64{"EUR": 5000}
			cfg.Rates.Table = map[string]float64{"EUR": 0.9}
			cfg.Journal = JournalConfig{Type: "csv", Path: "./out"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFile_Partial(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "roboquant.yaml")
	data := "account:\n  base_currency: EUR\n  initial_cash:\n    EUR: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"EUR": 100}, cfg.Account.InitialCash)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100.0, cfg.InitialCash().Get(money.EUR))
}

func TestLoadInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: [1, 2"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal:\n  type: parquet\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestConverter(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Rates.Table = map[string]float64{"EUR": 0.5}

	conv, err := cfg.Converter()
	require.NoError(t, err)
	assert.Same(t, money.USD, conv.Base())

	got, err := money.NewAmount(money.EUR, 100).Convert(conv, money.USD, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, money.NewAmount(money.USD, 200), got)

	_, err = money.NewAmount(money.GBP, 1).Convert(conv, money.USD, time.Time{})
	assert.ErrorIs(t, err, money.ErrNoRateAvailable)

	cfg.Rates.Table = map[string]float64{"USD": 2}
	_, err = cfg.Converter()
	assert.Error(t, err)
}

func TestApply_RegistersExchanges(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Exchanges = []ExchangeConfig{{Code: "XCFG", Zone: "Europe/Zurich", Currency: "CHF", Open: "09:00", Close: "17:30"}}
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.Apply())

	e := market.GetExchange("XCFG")
	assert.Equal(t, "XCFG", e.Code())
	assert.Same(t, money.CHF, e.Currency())
	assert.Equal(t, "Europe/Zurich", e.Location().String())

	s, ok := e.Calendar().Session(time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, market.TimeOfDay{Hour: 17, Minute: 30}, s.Close)
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, risk.DefaultPolicy(), Default().Policy())
	assert.Equal(t, risk.DefaultPolicy(), (&Config{}).Policy())

	cfg := Default()
	cfg.Risk.MaxOpenPositions = 10
	p := cfg.Policy()
	assert.Equal(t, 10, p.MaxOpenPositions)
	assert.Equal(t, 0.01, p.MaxRiskPct)
}
