package market

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/money"
)

// Exchange is a market with a timezone, an optional currency and a trading
// calendar. Exchanges are interned by code and immutable.
type Exchange struct {
	code     string
	loc      *time.Location
	currency *money.Currency
	calendar TradingCalendar
}

var (
	exchangesMu sync.RWMutex
	exchanges   = map[string]*Exchange{}

	// DefaultExchange is returned for the empty code and for unknown codes.
	DefaultExchange = mustRegister("", "America/New_York", money.USD,
		WeekdayCalendar{Hours: Session{Open: TimeOfDay{9, 30}, Close: TimeOfDay{16, 0}}})
)

func init() {
	nyse := &HolidayCalendar{
		Hours:       Session{Open: TimeOfDay{9, 30}, Close: TimeOfDay{16, 0}},
		Fixed:       nyseFixed,
		Weekday:     nyseWeekday,
		Easter:      Gregorian,
		EasterDays:  []int{-2},
		EarlyCloses: nyseEarlyCloses,
	}
	mustRegister("US", "America/New_York", money.USD, nyse)
	mustRegister("XNYS", "America/New_York", money.USD, nyse)
	mustRegister("XNAS", "America/New_York", money.USD, nyse)

	mustRegister("XETR", "Europe/Berlin", money.EUR, &HolidayCalendar{
		Hours: Session{Open: TimeOfDay{9, 0}, Close: TimeOfDay{17, 30}},
		Fixed: []FixedHoliday{
			{Month: time.January, Day: 1},
			{Month: time.May, Day: 1},
			{Month: time.December, Day: 24},
			{Month: time.December, Day: 25},
			{Month: time.December, Day: 26},
			{Month: time.December, Day: 31},
		},
		EasterDays: []int{-2, 1},
	})
	mustRegister("XLON", "Europe/London", money.GBP, &HolidayCalendar{
		Hours: Session{Open: TimeOfDay{8, 0}, Close: TimeOfDay{16, 30}},
		Fixed: []FixedHoliday{
			{Month: time.January, Day: 1, Observe: NextWeekday},
			{Month: time.December, Day: 25},
			{Month: time.December, Day: 26},
		},
		Weekday: []WeekdayHoliday{
			{Month: time.May, Weekday: time.Monday, N: 1},
			{Month: time.May, Weekday: time.Monday, N: -1},
			{Month: time.August, Weekday: time.Monday, N: -1},
		},
		EasterDays: []int{-2, 1},
	})
	euronext := &HolidayCalendar{
		Hours: Session{Open: TimeOfDay{9, 0}, Close: TimeOfDay{17, 30}},
		Fixed: []FixedHoliday{
			{Month: time.January, Day: 1},
			{Month: time.May, Day: 1},
			{Month: time.December, Day: 25},
			{Month: time.December, Day: 26},
		},
		EasterDays: []int{-2, 1},
	}
	mustRegister("XPAR", "Europe/Paris", money.EUR, euronext)
	mustRegister("XAMS", "Europe/Amsterdam", money.EUR, euronext)

	mustRegister("XTKS", "Asia/Tokyo", money.JPY,
		WeekdayCalendar{Hours: Session{Open: TimeOfDay{9, 0}, Close: TimeOfDay{15, 0}}})
	mustRegister("XHKG", "Asia/Hong_Kong", money.HKD,
		WeekdayCalendar{Hours: Session{Open: TimeOfDay{9, 30}, Close: TimeOfDay{16, 0}}})
	mustRegister("CRYPTO", "UTC", nil, ContinuousCalendar{})
}

func mustRegister(code, zone string, currency *money.Currency, cal TradingCalendar) *Exchange {
	e, err := RegisterExchange(code, zone, currency, cal)
	if err != nil {
		panic(err)
	}
	return e
}

// RegisterExchange adds an exchange unless one with the same code exists,
// in which case the existing exchange is returned unchanged. A nil calendar
// trades weekdays 09:30-16:00.
func RegisterExchange(code, zone string, currency *money.Currency, cal TradingCalendar) (*Exchange, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	exchangesMu.Lock()
	defer exchangesMu.Unlock()

	if e, ok := exchanges[code]; ok {
		return e, nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("exchange %q: timezone %q: %w", code, zone, ErrInvalidArgument)
	}
	if cal == nil {
		cal = WeekdayCalendar{Hours: Session{Open: TimeOfDay{9, 30}, Close: TimeOfDay{16, 0}}}
	}

	e := &Exchange{code: code, loc: loc, currency: currency, calendar: cal}
	exchanges[code] = e
	return e, nil
}

// GetExchange returns the exchange registered under code. The empty code
// and unknown codes return DefaultExchange.
func GetExchange(code string) *Exchange {
	code = strings.ToUpper(strings.TrimSpace(code))

	exchangesMu.RLock()
	e, ok := exchanges[code]
	exchangesMu.RUnlock()

	if !ok {
		log.Debug().Str("exchange", code).Msg("unknown exchange, using default")
		return DefaultExchange
	}
	return e
}

// Exchanges returns all registered exchanges sorted by code.
func Exchanges() []*Exchange {
	exchangesMu.RLock()
	defer exchangesMu.RUnlock()

	out := make([]*Exchange, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].code < out[j].code })
	return out
}

func (e *Exchange) Code() string              { return e.code }
func (e *Exchange) Location() *time.Location  { return e.loc }
func (e *Exchange) Currency() *money.Currency { return e.currency }
func (e *Exchange) Calendar() TradingCalendar { return e.calendar }
func (e *Exchange) String() string            { return e.code }

// IsTradingDay reports whether the calendar date of date is a trading day.
// The date is read as given, it is not converted to the exchange timezone.
func (e *Exchange) IsTradingDay(date time.Time) bool {
	_, ok := e.calendar.Session(date)
	return ok
}

// OpeningTime returns the instant the exchange opens on date, or
// ErrNoTrading when date is not a trading day.
func (e *Exchange) OpeningTime(date time.Time) (time.Time, error) {
	s, ok := e.calendar.Session(date)
	if !ok {
		return time.Time{}, e.noTrading(date)
	}
	return s.Open.On(date, e.loc), nil
}

// ClosingTime returns the instant the exchange closes on date, or
// ErrNoTrading when date is not a trading day.
func (e *Exchange) ClosingTime(date time.Time) (time.Time, error) {
	s, ok := e.calendar.Session(date)
	if !ok {
		return time.Time{}, e.noTrading(date)
	}
	return s.Close.On(date, e.loc), nil
}

// Session returns the trading session on date as [open, close).
func (e *Exchange) Session(date time.Time) (Timeframe, error) {
	s, ok := e.calendar.Session(date)
	if !ok {
		return Timeframe{}, e.noTrading(date)
	}
	return NewTimeframe(s.Open.On(date, e.loc), s.Close.On(date, e.loc), false)
}

func (e *Exchange) noTrading(date time.Time) error {
	return fmt.Errorf("exchange %q on %s: %w", e.code, date.Format("2006-01-02"), ErrNoTrading)
}

// IsTrading reports whether the exchange is open at instant t.
func (e *Exchange) IsTrading(t time.Time) bool {
	local := t.In(e.loc)
	s, ok := e.calendar.Session(local)
	if !ok {
		return false
	}
	return !t.Before(s.Open.On(local, e.loc)) && t.Before(s.Close.On(local, e.loc))
}

// SameDay reports whether a and b fall on the same local date.
func (e *Exchange) SameDay(a, b time.Time) bool {
	return sameDate(a.In(e.loc), b.In(e.loc))
}

// maxClosedDays bounds the search for the next session.
const maxClosedDays = 370

// NextOpen returns the first opening instant at or after t.
func (e *Exchange) NextOpen(t time.Time) (time.Time, error) {
	local := t.In(e.loc)
	for i := 0; i < maxClosedDays; i++ {
		date := local.AddDate(0, 0, i)
		s, ok := e.calendar.Session(date)
		if !ok {
			continue
		}
		if open := s.Open.On(date, e.loc); !open.Before(t) {
			return open, nil
		}
	}
	return time.Time{}, e.noTrading(local)
}
