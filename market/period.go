package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a calendar-aware span of time: years, months and days follow
// the calendar (time.AddDate), Duration is exact.
type Period struct {
	Years    int
	Months   int
	Days     int
	Duration time.Duration
}

func Years(n int) Period                    { return Period{Years: n} }
func Months(n int) Period                   { return Period{Months: n} }
func Days(n int) Period                     { return Period{Days: n} }
func Hours(n int) Period                    { return Period{Duration: time.Duration(n) * time.Hour} }
func Minutes(n int) Period                  { return Period{Duration: time.Duration(n) * time.Minute} }
func DurationPeriod(d time.Duration) Period { return Period{Duration: d} }

// AddTo returns t moved forward by p.
func (p Period) AddTo(t time.Time) time.Time {
	return t.AddDate(p.Years, p.Months, p.Days).Add(p.Duration)
}

// SubFrom returns t moved back by p.
func (p Period) SubFrom(t time.Time) time.Time {
	return t.AddDate(-p.Years, -p.Months, -p.Days).Add(-p.Duration)
}

func (p Period) IsZero() bool {
	return p == Period{}
}

func (p Period) String() string {
	var b strings.Builder
	b.WriteString("P")
	if p.Years != 0 {
		fmt.Fprintf(&b, "%dY", p.Years)
	}
	if p.Months != 0 {
		fmt.Fprintf(&b, "%dM", p.Months)
	}
	if p.Days != 0 {
		fmt.Fprintf(&b, "%dD", p.Days)
	}
	if p.Duration != 0 || b.Len() == 1 {
		b.WriteString(p.Duration.String())
	}
	return b.String()
}

// ParsePeriod parses a calendar period such as "1Y", "6M", "2W" or "30D",
// or else a Go duration such as "4h" or "15m". Month is upper case M only.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Period{}, fmt.Errorf("parse period: empty: %w", ErrInvalidArgument)
	}

	unit := s[len(s)-1]
	if strings.IndexByte("YyMWwDd", unit) >= 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return Period{}, fmt.Errorf("parse period %q: %w", s, ErrInvalidArgument)
		}
		switch unit {
		case 'Y', 'y':
			return Years(n), nil
		case 'M':
			return Months(n), nil
		case 'W', 'w':
			return Days(7 * n), nil
		default:
			return Days(n), nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, ErrInvalidArgument)
	}
	return DurationPeriod(d), nil
}
