package market

import (
	"fmt"
	"math"
	"time"
)

var (
	// MinTime and MaxTime bound every Timeframe.
	MinTime = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)

	// Infinite covers the full legal range, end included.
	Infinite = Timeframe{start: MinTime, end: MaxTime, inclusive: true}
)

// Timeframe is the interval [start, end) or, when inclusive, [start, end].
// end is never before start and both lie within [MinTime, MaxTime].
// The zero Timeframe is not valid; use NewTimeframe.
type Timeframe struct {
	start     time.Time
	end       time.Time
	inclusive bool
}

// NewTimeframe validates and returns a timeframe. Times are stored in UTC.
func NewTimeframe(start, end time.Time, inclusive bool) (Timeframe, error) {
	if start.Before(MinTime) || end.After(MaxTime) {
		return Timeframe{}, fmt.Errorf("timeframe %s - %s outside [%s, %s]: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339),
			MinTime.Format(time.RFC3339), MaxTime.Format(time.RFC3339), ErrInvalidInterval)
	}
	if end.Before(start) {
		return Timeframe{}, fmt.Errorf("timeframe end %s before start %s: %w",
			end.Format(time.RFC3339), start.Format(time.RFC3339), ErrInvalidInterval)
	}
	return Timeframe{start: start.UTC(), end: end.UTC(), inclusive: inclusive}, nil
}

// MustTimeframe is like NewTimeframe but panics on error.
func MustTimeframe(start, end time.Time, inclusive bool) Timeframe {
	tf, err := NewTimeframe(start, end, inclusive)
	if err != nil {
		panic(err)
	}
	return tf
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses a date ("2006-01-02") or date-time, in UTC unless an
// offset is given.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: %w", s, ErrInvalidArgument)
}

// ParseTimeframe parses two dates ("2006-01-02") or date-times (RFC3339,
// UTC when no offset is given).
func ParseTimeframe(first, last string, inclusive bool) (Timeframe, error) {
	start, err := ParseTime(first)
	if err != nil {
		return Timeframe{}, err
	}
	end, err := ParseTime(last)
	if err != nil {
		return Timeframe{}, err
	}
	return NewTimeframe(start, end, inclusive)
}

// FromYears returns the timeframe from January 1st of first up to, but not
// including, January 1st of the year after last.
func FromYears(first, last int) (Timeframe, error) {
	start := time.Date(first, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last+1, 1, 1, 0, 0, 0, 0, time.UTC)
	return NewTimeframe(start, end, false)
}

func (tf Timeframe) Start() time.Time { return tf.start }
func (tf Timeframe) End() time.Time   { return tf.end }
func (tf Timeframe) Inclusive() bool  { return tf.inclusive }

// Duration returns end - start, saturating for spans beyond ~292 years.
func (tf Timeframe) Duration() time.Duration {
	return tf.end.Sub(tf.start)
}

func (tf Timeframe) seconds() float64 {
	return float64(tf.end.Unix()-tf.start.Unix()) +
		float64(tf.end.Nanosecond()-tf.start.Nanosecond())/1e9
}

func (tf Timeframe) IsInfinite() bool {
	return tf.Equal(Infinite)
}

// IsEmpty reports whether no instant is contained.
func (tf Timeframe) IsEmpty() bool {
	return tf.start.Equal(tf.end) && !tf.inclusive
}

func (tf Timeframe) Equal(o Timeframe) bool {
	return tf.start.Equal(o.start) && tf.end.Equal(o.end) && tf.inclusive == o.inclusive
}

// Contains reports whether t lies within the timeframe.
func (tf Timeframe) Contains(t time.Time) bool {
	if t.Before(tf.start) {
		return false
	}
	return t.Before(tf.end) || (tf.inclusive && t.Equal(tf.end))
}

// overlap returns the bounds of the intersection without validating them.
func (tf Timeframe) overlap(o Timeframe) (start, end time.Time, inclusive bool) {
	start = tf.start
	if o.start.After(start) {
		start = o.start
	}
	switch {
	case tf.end.Before(o.end):
		end, inclusive = tf.end, tf.inclusive
	case o.end.Before(tf.end):
		end, inclusive = o.end, o.inclusive
	default:
		end, inclusive = tf.end, tf.inclusive && o.inclusive
	}
	return start, end, inclusive
}

// Overlaps reports whether at least one instant is in both timeframes.
func (tf Timeframe) Overlaps(o Timeframe) bool {
	start, end, inclusive := tf.overlap(o)
	return start.Before(end) || (inclusive && start.Equal(end))
}

// Intersect returns the instants common to both timeframes. Disjoint
// timeframes have no intersection and return ErrInvalidInterval.
func (tf Timeframe) Intersect(o Timeframe) (Timeframe, error) {
	if !tf.Overlaps(o) {
		return Timeframe{}, fmt.Errorf("intersect %s with %s: no overlap: %w", tf, o, ErrInvalidInterval)
	}
	start, end, inclusive := tf.overlap(o)
	return Timeframe{start: start, end: end, inclusive: inclusive}, nil
}

// Union returns the smallest timeframe covering both, including any gap
// between them.
func (tf Timeframe) Union(o Timeframe) Timeframe {
	start := tf.start
	if o.start.Before(start) {
		start = o.start
	}
	var end time.Time
	var inclusive bool
	switch {
	case tf.end.After(o.end):
		end, inclusive = tf.end, tf.inclusive
	case o.end.After(tf.end):
		end, inclusive = o.end, o.inclusive
	default:
		end, inclusive = tf.end, tf.inclusive || o.inclusive
	}
	return Timeframe{start: start, end: end, inclusive: inclusive}
}

func clamp(t time.Time) time.Time {
	if t.Before(MinTime) {
		return MinTime
	}
	if t.After(MaxTime) {
		return MaxTime
	}
	return t
}

// Extend moves start back by before and end forward by after, clamped to
// the legal range. Negative periods shrink the timeframe and fail if the
// result would be inverted.
func (tf Timeframe) Extend(before, after Period) (Timeframe, error) {
	return NewTimeframe(clamp(before.SubFrom(tf.start)), clamp(after.AddTo(tf.end)), tf.inclusive)
}

// Add shifts both bounds forward by p, clamped to the legal range.
func (tf Timeframe) Add(p Period) Timeframe {
	return tf.shift(p.AddTo)
}

// Sub shifts both bounds back by p, clamped to the legal range.
func (tf Timeframe) Sub(p Period) Timeframe {
	return tf.shift(p.SubFrom)
}

// shift moves both bounds with move. Month arithmetic normalises past the
// end of a month (Jan 31 + 1M is Mar 3, Feb 1 + 1M is Mar 1), so when the
// moved end falls before the moved start the end keeps the original
// length from the new start instead.
func (tf Timeframe) shift(move func(time.Time) time.Time) Timeframe {
	start, end := move(tf.start), move(tf.end)
	if end.Before(start) {
		end = start.Add(tf.end.Sub(tf.start))
	}
	return Timeframe{start: clamp(start), end: clamp(end), inclusive: tf.inclusive}
}

// Split cuts the timeframe into consecutive chunks of length period. Each
// chunk starts overlap before the end of the previous one. All chunks but
// the last exclude their end; the last one ends at tf's end with tf's
// inclusiveness. A last chunk shorter than period is kept only when
// includeRemaining is set.
func (tf Timeframe) Split(period, overlap Period, includeRemaining bool) ([]Timeframe, error) {
	if !period.AddTo(tf.start).After(tf.start) {
		return nil, fmt.Errorf("split period %s must be positive: %w", period, ErrInvalidArgument)
	}

	var out []Timeframe
	offset := tf.start
	for offset.Before(tf.end) {
		next := period.AddTo(offset)
		if !next.After(offset) {
			return nil, fmt.Errorf("split period %s must be positive at %s: %w",
				period, offset.Format(time.RFC3339), ErrInvalidArgument)
		}
		if !next.Before(tf.end) {
			if next.After(tf.end) && !includeRemaining {
				break
			}
			out = append(out, Timeframe{start: offset, end: tf.end, inclusive: tf.inclusive})
			break
		}
		out = append(out, Timeframe{start: offset, end: next})

		start := overlap.SubFrom(next)
		if !start.After(offset) {
			return nil, fmt.Errorf("split overlap %s not smaller than period %s: %w", overlap, period, ErrInvalidArgument)
		}
		offset = start
	}
	return out, nil
}

// at returns t moved by a (possibly fractional) number of seconds.
func at(t time.Time, seconds float64) time.Time {
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	return time.Unix(t.Unix()+int64(whole), int64(t.Nanosecond())+int64(nanos)).UTC()
}

// SplitTrainTest splits by elapsed time: the test timeframe holds the last
// testFraction of the duration, the train timeframe everything before it.
func (tf Timeframe) SplitTrainTest(testFraction float64) (train, test Timeframe, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return Timeframe{}, Timeframe{}, fmt.Errorf("test fraction %v not in (0, 1): %w", testFraction, ErrInvalidArgument)
	}
	border := at(tf.start, (1-testFraction)*tf.seconds())
	train = Timeframe{start: tf.start, end: border}
	test = Timeframe{start: border, end: tf.end, inclusive: tf.inclusive}
	return train, test, nil
}

const secondsPerYear = 365 * 24 * 60 * 60

// Annualize compounds a return earned over the timeframe to a 365-day
// year: (1+rate)^(365d/duration) - 1. It returns NaN for an empty span.
func (tf Timeframe) Annualize(rate float64) float64 {
	s := tf.seconds()
	if s <= 0 {
		return math.NaN()
	}
	return math.Pow(1+rate, secondsPerYear/s) - 1
}

func (tf Timeframe) layout() string {
	d := tf.Duration()
	switch {
	case d < time.Minute:
		return "2006-01-02T15:04:05.000"
	case d < time.Hour:
		return "2006-01-02T15:04:05"
	case d < 5*24*time.Hour:
		return "2006-01-02T15:04"
	}
	return "2006-01-02"
}

// String renders the bounds with a precision that fits the duration, e.g.
// "[2020-01-01 - 2021-01-01)".
func (tf Timeframe) String() string {
	layout := tf.layout()
	closing := ")"
	if tf.inclusive {
		closing = "]"
	}
	return "[" + tf.start.Format(layout) + " - " + tf.end.Format(layout) + closing
}
