package market

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// sizeDigits is the number of fractional digits a Size holds exactly.
const sizeDigits = 8

const sizeScale int64 = 100_000_000

// Size is a fixed-point quantity with 8 fractional digits, stored as an
// int64 scaled by 10^8. Addition and subtraction are exact.
type Size int64

const (
	ZeroSize Size = 0
	OneSize  Size = Size(sizeScale)
)

// NewSize returns the exact Size for an integer quantity. It panics when n
// does not fit, which is beyond ±92 billion units.
func NewSize(n int64) Size {
	if n > math.MaxInt64/sizeScale || n < math.MinInt64/sizeScale {
		panic(fmt.Errorf("size %d: %w", n, ErrSizeOverflow))
	}
	return Size(n * sizeScale)
}

// ParseSize parses a decimal string. It fails instead of rounding when the
// value has more than 8 fractional digits.
func ParseSize(s string) (Size, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, ErrInvalidArgument)
	}
	return SizeFromDecimal(d)
}

// MustParseSize is like ParseSize but panics on error.
func MustParseSize(s string) Size {
	sz, err := ParseSize(s)
	if err != nil {
		panic(err)
	}
	return sz
}

// SizeFromDecimal converts d without loss or returns ErrPrecisionLoss or
// ErrSizeOverflow.
func SizeFromDecimal(d decimal.Decimal) (Size, error) {
	scaled := d.Shift(sizeDigits)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("size %s: %w", d, ErrPrecisionLoss)
	}
	bi := scaled.BigInt()
	if !bi.IsInt64() {
		return 0, fmt.Errorf("size %s: %w", d, ErrSizeOverflow)
	}
	return Size(bi.Int64()), nil
}

// SizeFromFloat converts f, rounding to 8 fractional digits. The shortest
// decimal form of f is used so a literal like 0.1 maps to exactly 0.1.
// It panics for NaN, infinities and values out of range.
func SizeFromFloat(f float64) Size {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Errorf("size %v: %w", f, ErrInvalidArgument))
	}
	sz, err := SizeFromDecimal(decimal.NewFromFloat(f).Round(sizeDigits))
	if err != nil {
		panic(err)
	}
	return sz
}

// Add returns s + o. It panics with ErrSizeOverflow when the sum does not
// fit, like NewSize.
func (s Size) Add(o Size) Size {
	r := s + o
	if (o > 0 && r < s) || (o < 0 && r > s) {
		panic(fmt.Errorf("size %s + %s: %w", s, o, ErrSizeOverflow))
	}
	return r
}

// Sub returns s - o and panics on overflow like Add.
func (s Size) Sub(o Size) Size {
	r := s - o
	if (o > 0 && r > s) || (o < 0 && r < s) {
		panic(fmt.Errorf("size %s - %s: %w", s, o, ErrSizeOverflow))
	}
	return r
}

func (s Size) Neg() Size {
	if s == math.MinInt64 {
		panic(fmt.Errorf("size -(%s): %w", s, ErrSizeOverflow))
	}
	return -s
}

func (s Size) Abs() Size {
	if s < 0 {
		return s.Neg()
	}
	return s
}

// Mul multiplies by a float factor. The result is not exact.
func (s Size) Mul(x float64) Size { return SizeFromFloat(s.Float64() * x) }

// Div divides by a float factor. The result is not exact.
func (s Size) Div(x float64) Size { return SizeFromFloat(s.Float64() / x) }

// Cmp returns -1, 0 or +1.
func (s Size) Cmp(o Size) int {
	switch {
	case s < o:
		return -1
	case s > o:
		return 1
	}
	return 0
}

func (s Size) IsZero() bool     { return s == 0 }
func (s Size) IsPositive() bool { return s > 0 }
func (s Size) IsNegative() bool { return s < 0 }

func (s Size) Sign() int {
	return s.Cmp(0)
}

// IsFractional reports whether s is not a whole number.
func (s Size) IsFractional() bool {
	return int64(s)%sizeScale != 0
}

// Round truncates toward zero, keeping scale fractional digits (0..8).
func (s Size) Round(scale int) Size {
	if scale >= sizeDigits {
		return s
	}
	if scale < 0 {
		scale = 0
	}
	f := int64(math.Pow10(sizeDigits - scale))
	return Size(int64(s) / f * f)
}

// Float64 returns the nearest float64. This is the lossy escape hatch.
func (s Size) Float64() float64 {
	return float64(s) / float64(sizeScale)
}

// Decimal returns the exact decimal value.
func (s Size) Decimal() decimal.Decimal {
	return decimal.New(int64(s), -sizeDigits)
}

// String renders the exact value without trailing zeros.
func (s Size) String() string {
	return s.Decimal().String()
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
