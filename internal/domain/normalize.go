package domain

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeCode canonicalizes a gauge-code join key from either feed. Codes
// arrive as strings, as JSON numbers, or as numeric-as-string artifacts like
// "1042.0" produced by round-tripping an integer through a float column.
// The result is trimmed with any trailing ".0" stripped, and normalization
// is idempotent: NormalizeCode(NormalizeCode(v)) == NormalizeCode(v).
func NormalizeCode(v any) string {
	s := strings.TrimSpace(stringify(v))
	s = strings.TrimSuffix(s, ".0")
	return strings.TrimSpace(s)
}

// stringify renders a feed value as its string form. JSON numbers format
// without a trailing ".0" so integer codes survive the float round-trip.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ParseMillimeters parses a depth value from the readings feed. Missing,
// empty, or unparseable values coerce to 0; negative values clamp to 0
// since accumulated rainfall cannot be negative.
func ParseMillimeters(v any) float64 {
	var mm float64
	switch t := v.(type) {
	case float64:
		mm = t
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		mm = parsed
	default:
		return 0
	}
	if mm < 0 {
		return 0
	}
	return mm
}

// observationLayouts are the timestamp formats seen across feed revisions.
var observationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseObservationTime parses the ISO-ish timestamp attached to a reading.
// Returns false when the value is absent or matches no known layout.
func ParseObservationTime(v any) (time.Time, bool) {
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range observationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
