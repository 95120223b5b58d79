package market

import (
	"fmt"
	"sync"
	"time"
)

// TimeOfDay is a local wall-clock time. Hour 24 denotes the end of the day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On returns the instant of t on the given local date.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Session holds the local opening and closing time of a trading day.
type Session struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// TradingCalendar decides which local dates are trading days and what
// their session is. Only the year, month and day of date are used.
type TradingCalendar interface {
	Session(date time.Time) (Session, bool)
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdayCalendar trades Monday to Friday with fixed hours and no holidays.
type WeekdayCalendar struct {
	Hours Session
}

func (c WeekdayCalendar) Session(date time.Time) (Session, bool) {
	if isWeekend(date) {
		return Session{}, false
	}
	return c.Hours, true
}

// ContinuousCalendar trades around the clock every day.
type ContinuousCalendar struct{}

func (ContinuousCalendar) Session(time.Time) (Session, bool) {
	return Session{Open: TimeOfDay{}, Close: TimeOfDay{Hour: 24}}, true
}

// HolidayCalendar is a WeekdayCalendar that also closes on holidays and
// closes early on selected days. Holidays are computed once per year.
type HolidayCalendar struct {
	Hours       Session
	Fixed       []FixedHoliday
	Weekday     []WeekdayHoliday
	Easter      EasterRule
	EasterDays  []int // offsets from Easter Sunday, e.g. -2 for Good Friday
	EarlyCloses []EarlyClose

	mu    sync.Mutex
	years map[int]map[int]bool
}

func (c *HolidayCalendar) holidays(year int) map[int]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.years[year]; ok {
		return h
	}

	h := make(map[int]bool)
	for _, f := range c.Fixed {
		if year < f.FromYear {
			continue
		}
		// an observed day pushed into another year is dropped
		if d := f.Observe.apply(time.Date(year, f.Month, f.Day, 0, 0, 0, 0, time.UTC)); d.Year() == year {
			h[dateKey(d)] = true
		}
	}
	for _, w := range c.Weekday {
		h[dateKey(nthWeekday(year, w.Month, w.Weekday, w.N))] = true
	}
	if len(c.EasterDays) > 0 {
		easter := Easter(year, c.Easter)
		for _, off := range c.EasterDays {
			h[dateKey(easter.AddDate(0, 0, off))] = true
		}
	}

	if c.years == nil {
		c.years = make(map[int]map[int]bool)
	}
	c.years[year] = h
	return h
}

// IsHoliday reports whether date is a listed holiday.
func (c *HolidayCalendar) IsHoliday(date time.Time) bool {
	return c.holidays(date.Year())[dateKey(date)]
}

func (c *HolidayCalendar) Session(date time.Time) (Session, bool) {
	if isWeekend(date) || c.IsHoliday(date) {
		return Session{}, false
	}
	s := c.Hours
	for _, ec := range c.EarlyCloses {
		if ec.Match != nil && ec.Match(date) {
			s.Close = ec.Close
			break
		}
	}
	return s, true
}
