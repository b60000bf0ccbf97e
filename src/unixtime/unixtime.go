// Package unixtime converts between the numeric timestamp representation used
// in the protocol tables (seconds since the Unix epoch, millisecond fraction)
// and time.Time.
package unixtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when a stored or textual timestamp cannot be parsed.
var ErrInvalidFormat = errors.New("invalid format")

// ISOLayout is the layout used when timestamps are written to documents.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// StartLayout is the layout of the --start argument, e.g. 2024-05-01 09:30:00.
const StartLayout = "2006-01-02 15:04:05"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	StartLayout,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Encode returns t as seconds since the epoch with millisecond precision.
func Encode(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

// FromSeconds converts fractional epoch seconds to a time, rounding to the millisecond.
func FromSeconds(secs float64) time.Time {
	whole := math.Floor(secs)
	millis := math.Round((secs - whole) * 1000)
	return time.UnixMilli(int64(whole)*1000 + int64(millis))
}

// Decode converts a raw column value into a time. Integer, floating point and
// numeric text values are accepted.
func Decode(raw any) (time.Time, error) {
	var secs float64
	switch v := raw.(type) {
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	case float64:
		secs = v
	case float32:
		secs = float64(v)
	case []byte:
		return parseSeconds(string(v))
	case string:
		return parseSeconds(v)
	case nil:
		return time.Time{}, fmt.Errorf("%w: null timestamp", ErrInvalidFormat)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported timestamp type %T", ErrInvalidFormat, raw)
	}

	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("%w: timestamp %v is not finite", ErrInvalidFormat, secs)
	}

	return FromSeconds(secs), nil
}

func parseSeconds(s string) (time.Time, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", ErrInvalidFormat, s, err)
	}

	return Decode(secs)
}

// ParseISO parses ISO-8601 like text. Text without a zone offset is read in loc.
func ParseISO(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	text = strings.TrimSpace(text)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: cannot parse %q as an ISO-8601 timestamp", ErrInvalidFormat, text)
}

// FormatISO formats t with millisecond precision and its zone offset.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}
