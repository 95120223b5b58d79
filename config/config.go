package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/rates"
	"github.com/rustyeddy/roboquant/risk"
)

// Config is the complete roboquant configuration
type Config struct {
	Account   AccountConfig    `json:"account" yaml:"account"`
	Currency  CurrencyConfig   `json:"currency" yaml:"currency"`
	Rates     RatesConfig      `json:"rates" yaml:"rates"`
	Exchanges []ExchangeConfig `json:"exchanges,omitempty" yaml:"exchanges,omitempty" validate:"dive"`
	Risk      RiskConfig       `json:"risk" yaml:"risk"`
	Journal   JournalConfig    `json:"journal" yaml:"journal"`
	Log       LogConfig        `json:"log" yaml:"log"`
}

// AccountConfig holds the base currency and the initial cash
type AccountConfig struct {
	BaseCurrency string             `json:"base_currency" yaml:"base_currency" validate:"required"`
	InitialCash  map[string]float64 `json:"initial_cash" yaml:"initial_cash" validate:"dive,keys,required,endkeys,gte=0"`
}

// CurrencyConfig tweaks currency formatting
type CurrencyConfig struct {
	ExtraDigits int `json:"extra_digits,omitempty" yaml:"extra_digits,omitempty" validate:"gte=0"`
}

// RatesConfig is a fixed exchange rate table: one unit of Base buys
// Table[code] units of code.
type RatesConfig struct {
	Base  string             `json:"base" yaml:"base" validate:"required_with=Table"`
	Table map[string]float64 `json:"table,omitempty" yaml:"table,omitempty" validate:"dive,keys,required,endkeys,gt=0"`
}

// ExchangeConfig registers an extra exchange trading weekdays only
type ExchangeConfig struct {
	Code     string `json:"code" yaml:"code" validate:"required"`
	Zone     string `json:"zone" yaml:"zone" validate:"required,timezone"`
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty"`
	Open     string `json:"open" yaml:"open" validate:"required,datetime=15:04"`   // e.g. "09:30"
	Close    string `json:"close" yaml:"close" validate:"required,datetime=15:04"` // e.g. "16:00"
}

// RiskConfig is the position sizing policy. Fractions are of equity.
type RiskConfig struct {
	DefaultRiskPct   float64 `json:"default_risk_pct" yaml:"default_risk_pct" validate:"gte=0,lte=1"`
	MaxRiskPct       float64 `json:"max_risk_pct" yaml:"max_risk_pct" validate:"gte=0,lte=1"`
	MaxDailyLossPct  float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct" validate:"gte=0,lte=1"`
	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions" validate:"gte=0"`
	MinRR            float64 `json:"min_rr" yaml:"min_rr" validate:"gte=0"`
}

// JournalConfig selects where trades and equity snapshots go
type JournalConfig struct {
	Type string `json:"type" yaml:"type" validate:"omitempty,oneof=csv sqlite sqlite3"` // "" for none
	Path string `json:"path,omitempty" yaml:"path,omitempty" validate:"required_with=Type"`
}

// LogConfig configures zerolog
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=console json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their yaml names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadFromFile loads configuration from a YAML or JSON file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// fieldError renders a validation failure as "<yaml path> <problem>".
func fieldError(fe validator.FieldError) error {
	// drop the leading "Config."
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}

	var problem string
	switch fe.Tag() {
	case "required", "required_with":
		problem = "is required"
	case "gte":
		problem = "must be >= " + fe.Param()
	case "lte":
		problem = "must be <= " + fe.Param()
	case "gt":
		problem = "must be > " + fe.Param()
	case "oneof":
		problem = "must be one of [" + fe.Param() + "]"
	case "timezone":
		problem = fmt.Sprintf("%q is not a valid timezone", fe.Value())
	case "datetime":
		problem = "must be HH:MM"
	default:
		problem = "fails " + fe.Tag()
	}
	return fmt.Errorf("%s %s", path, problem)
}

func parseTimeOfDay(s string) (market.TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return market.TimeOfDay{}, err
	}
	return market.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return err
	}

	for i, e := range c.Exchanges {
		open, _ := parseTimeOfDay(e.Open)
		closing, _ := parseTimeOfDay(e.Close)
		if open.Hour*60+open.Minute >= closing.Hour*60+closing.Minute {
			return fmt.Errorf("exchanges[%d].open must be before close", i)
		}
	}
	if c.Risk.MaxRiskPct > 0 && c.Risk.DefaultRiskPct > c.Risk.MaxRiskPct {
		return fmt.Errorf("risk.default_risk_pct must not exceed risk.max_risk_pct")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			BaseCurrency: "USD",
			InitialCash:  map[string]float64{"USD": 1_000_000},
		},
		Rates: RatesConfig{
			Base: "USD",
		},
		Risk: riskConfig(risk.DefaultPolicy()),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func riskConfig(p risk.Policy) RiskConfig {
	return RiskConfig{
		DefaultRiskPct:   p.DefaultRiskPct,
		MaxRiskPct:       p.MaxRiskPct,
		MaxDailyLossPct:  p.MaxDailyLossPct,
		MaxOpenPositions: p.MaxOpenPositions,
		MinRR:            p.MinRR,
	}
}

// Policy returns the risk policy; an empty risk section means
// risk.DefaultPolicy.
func (c *Config) Policy() risk.Policy {
	if c.Risk == (RiskConfig{}) {
		return risk.DefaultPolicy()
	}
	return risk.Policy{
		DefaultRiskPct:   c.Risk.DefaultRiskPct,
		MaxRiskPct:       c.Risk.MaxRiskPct,
		MaxDailyLossPct:  c.Risk.MaxDailyLossPct,
		MaxOpenPositions: c.Risk.MaxOpenPositions,
		MinRR:            c.Risk.MinRR,
	}
}

// BaseCurrency returns the interned account base currency
func (c *Config) BaseCurrency() *money.Currency {
	return money.GetCurrency(c.Account.BaseCurrency)
}

// InitialCash returns the configured deposits as a wallet
func (c *Config) InitialCash() *money.Wallet {
	w := money.NewWallet()
	for code, v := range c.Account.InitialCash {
		w.Deposit(money.NewAmount(money.GetCurrency(code), v))
	}
	return w
}

// Converter builds the fixed rate table. It is empty when no rates are
// configured, so only same-currency conversions succeed.
func (c *Config) Converter() (*rates.FixedRates, error) {
	base := c.Rates.Base
	if base == "" {
		base = c.Account.BaseCurrency
	}
	fr := rates.NewFixedRates(money.GetCurrency(base))
	for code, r := range c.Rates.Table {
		if err := fr.Set(money.GetCurrency(code), r); err != nil {
			return nil, fmt.Errorf("rates.table %s: %w", code, err)
		}
	}
	return fr, nil
}

// Apply pushes the process wide settings: extra currency digits and the
// configured exchanges. It should be called once at startup.
func (c *Config) Apply() error {
	if c.Currency.ExtraDigits > 0 {
		money.IncreaseDigits(c.Currency.ExtraDigits)
	}
	for _, e := range c.Exchanges {
		open, err := parseTimeOfDay(e.Open)
		if err != nil {
			return fmt.Errorf("exchange %s open: %w", e.Code, err)
		}
		closing, err := parseTimeOfDay(e.Close)
		if err != nil {
			return fmt.Errorf("exchange %s close: %w", e.Code, err)
		}
		var cur *money.Currency
		if e.Currency != "" {
			cur = money.GetCurrency(e.Currency)
		}
		cal := market.WeekdayCalendar{Hours: market.Session{Open: open, Close: closing}}
		if _, err := market.RegisterExchange(e.Code, e.Zone, cur, cal); err != nil {
			return err
		}
	}
	return nil
}
