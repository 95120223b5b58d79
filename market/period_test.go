package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Period
	}{
		{"1Y", Years(1)},
		{"2y", Years(2)},
		{"6M", Months(6)},
		{"2W", Days(14)},
		{"30D", Days(30)},
		{"1d", Days(1)},
		{"4h", Hours(4)},
		{"15m", Minutes(15)},
		{"1h30m", DurationPeriod(90 * time.Minute)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePeriod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "Y", "xD", "1q", "abc"} {
		_, err := ParsePeriod(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestPeriod_AddSub(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	p := Period{Months: 1, Duration: time.Hour}
	assert.Equal(t, time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC), p.AddTo(t0))
	assert.Equal(t, time.Date(2023, 12, 31, 11, 0, 0, 0, time.UTC), p.SubFrom(t0))
	assert.Equal(t, "P1M1h0m0s", p.String())
	assert.Equal(t, "P0s", Period{}.String())
	assert.True(t, Period{}.IsZero())
}
