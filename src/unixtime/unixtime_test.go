package unixtime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Run("round trip keeps milliseconds", func(t *testing.T) {
		ts := time.Date(2021, time.March, 4, 10, 11, 12, 345_678_901, time.UTC)

		decoded, err := Decode(Encode(ts))
		require.NoError(t, err)

		assert.True(t, ts.Truncate(time.Millisecond).Equal(decoded), "expected %v, got %v", ts, decoded)
	})

	t.Run("times before the epoch", func(t *testing.T) {
		ts := time.UnixMilli(-1500)

		decoded, err := Decode(Encode(ts))
		require.NoError(t, err)

		assert.Equal(t, int64(-1500), decoded.UnixMilli())
	})

	t.Run("integer columns", func(t *testing.T) {
		decoded, err := Decode(int64(1000))
		require.NoError(t, err)

		assert.Equal(t, int64(1000), decoded.Unix())
	})

	t.Run("numeric text", func(t *testing.T) {
		decoded, err := Decode([]byte("1500.25"))
		require.NoError(t, err)

		assert.Equal(t, int64(1500250), decoded.UnixMilli())
	})

	t.Run("rejects non finite and garbage values", func(t *testing.T) {
		for _, raw := range []any{math.NaN(), math.Inf(1), "abc", nil, true} {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, ErrInvalidFormat, "raw=%v", raw)
		}
	})
}

func TestParseISO(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)

	t.Run("start argument form", func(t *testing.T) {
		ts, err := ParseISO("2024-05-01 09:30:00", loc)
		require.NoError(t, err)

		assert.True(t, time.Date(2024, time.May, 1, 9, 30, 0, 0, loc).Equal(ts))
		assert.Equal(t, loc, ts.Location())
	})

	t.Run("naive iso form with fraction", func(t *testing.T) {
		ts, err := ParseISO("2024-05-01T09:30:00.250000", loc)
		require.NoError(t, err)

		assert.Equal(t, 250*time.Millisecond, time.Duration(ts.Nanosecond()))
		assert.Equal(t, loc, ts.Location())
	})

	t.Run("offset wins over location", func(t *testing.T) {
		ts, err := ParseISO("2024-05-01T09:30:00.000Z", loc)
		require.NoError(t, err)

		assert.True(t, time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC).Equal(ts))
	})

	t.Run("format and parse agree", func(t *testing.T) {
		ts := time.Date(2020, time.January, 2, 3, 4, 5, 6_000_000, loc)

		parsed, err := ParseISO(FormatISO(ts), time.UTC)
		require.NoError(t, err)

		assert.True(t, ts.Equal(parsed))
	})

	t.Run("malformed text", func(t *testing.T) {
		_, err := ParseISO("01/05/2024 9:30", loc)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestColumnScan(t *testing.T) {
	var ts time.Time
	col := Into(&ts, time.UTC)

	require.NoError(t, col.Scan(float64(2000.5)))
	assert.Equal(t, int64(2000500), ts.UnixMilli())
	assert.Equal(t, time.UTC, ts.Location())

	assert.ErrorIs(t, col.Scan("nope"), ErrInvalidFormat)
}
