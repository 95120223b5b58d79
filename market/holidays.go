package market

import "time"

// EasterRule selects the computus used for Easter-based holidays.
type EasterRule int

const (
	Gregorian EasterRule = iota // Western
	Julian                      // Orthodox
)

// Easter returns Easter Sunday of year (Gregorian calendar date, UTC).
func Easter(year int, rule EasterRule) time.Time {
	if rule == Julian {
		return julianEaster(year)
	}
	return gregorianEaster(year)
}

// gregorianEaster uses the anonymous Gregorian (Meeus/Jones/Butcher) algorithm.
func gregorianEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// julianEaster computes Easter in the Julian calendar (Meeus) and shifts it
// to the Gregorian calendar.
func julianEaster(year int) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := ((d + e + 114) % 31) + 1

	// gap between the calendars, valid from March 1900 onwards
	shift := year/100 - year/400 - 2
	return time.Date(year, time.Month(month), day+shift, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the nth (1-based) weekday of a month; n = -1 selects
// the last one.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	if n < 0 {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		back := int(last.Weekday()-weekday+7) % 7
		return last.AddDate(0, 0, -back)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	ahead := int(weekday-first.Weekday()+7) % 7
	return first.AddDate(0, 0, ahead+(n-1)*7)
}

// Observance moves a fixed holiday that falls on a weekend.
type Observance int

const (
	NotObserved    Observance = iota // stays on its date
	NearestWeekday                   // Saturday to Friday, Sunday to Monday
	NextWeekday                      // Saturday and Sunday to Monday
)

func (o Observance) apply(date time.Time) time.Time {
	switch {
	case o == NotObserved:
		return date
	case date.Weekday() == time.Saturday && o == NearestWeekday:
		return date.AddDate(0, 0, -1)
	case date.Weekday() == time.Saturday:
		return date.AddDate(0, 0, 2)
	case date.Weekday() == time.Sunday:
		return date.AddDate(0, 0, 1)
	}
	return date
}

// FixedHoliday falls on the same month and day every year, from FromYear
// onwards when that is set.
type FixedHoliday struct {
	Month    time.Month
	Day      int
	Observe  Observance
	FromYear int
}

// WeekdayHoliday is the Nth weekday of a month (N = -1 for the last).
type WeekdayHoliday struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
}

// EarlyClose shortens the session on days matched by Match.
type EarlyClose struct {
	Close TimeOfDay
	Match func(date time.Time) bool
}

func dateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

func sameDate(a, b time.Time) bool {
	return dateKey(a) == dateKey(b)
}

// NYSE rules, shared by the US equity exchanges.
var (
	nyseFixed = []FixedHoliday{
		{Month: time.January, Day: 1, Observe: NearestWeekday},
		{Month: time.June, Day: 19, Observe: NearestWeekday, FromYear: 2022},
		{Month: time.July, Day: 4, Observe: NearestWeekday},
		{Month: time.December, Day: 25, Observe: NearestWeekday},
	}
	nyseWeekday = []WeekdayHoliday{
		{Month: time.January, Weekday: time.Monday, N: 3},    // MLK Day
		{Month: time.February, Weekday: time.Monday, N: 3},   // Presidents Day
		{Month: time.May, Weekday: time.Monday, N: -1},       // Memorial Day
		{Month: time.September, Weekday: time.Monday, N: 1},  // Labor Day
		{Month: time.November, Weekday: time.Thursday, N: 4}, // Thanksgiving
	}
	nyseEarlyCloses = []EarlyClose{
		{
			Close: TimeOfDay{Hour: 13},
			Match: func(d time.Time) bool { // day after Thanksgiving
				return sameDate(d, nthWeekday(d.Year(), time.November, time.Thursday, 4).AddDate(0, 0, 1))
			},
		},
		{
			Close: TimeOfDay{Hour: 13},
			Match: func(d time.Time) bool { return d.Month() == time.December && d.Day() == 24 },
		},
		{
			Close: TimeOfDay{Hour: 13},
			Match: func(d time.Time) bool { // July 3rd on a weekday
				return d.Month() == time.July && d.Day() == 3 && d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
			},
		},
	}
)
