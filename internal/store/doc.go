package store

import (
	"time"
)

// Field accessors. Documents are written by clients we do not control, so
// every accessor degrades to a zero value instead of failing: a missing or
// malformed field never aborts a batch pass or a dispatch.

// Str returns a string field, or "" when absent or not a string.
func Str(d Doc, key string) string {
	s, _ := d[key].(string)
	return s
}

// Int returns a numeric field as int, defaulting to 0. JSON decoding yields
// float64 for all numbers; ints and int64s are accepted for in-memory docs.
func Int(d Doc, key string) int {
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// Float returns a numeric field as float64, defaulting to 0.
func Float(d Doc, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Strings returns a string-sequence field. Non-string elements are skipped.
func Strings(d Doc, key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// TimeAt returns an instant field. Accepted encodings: RFC 3339 string,
// epoch milliseconds number, or time.Time for in-memory docs. The second
// return is false when the field is absent or unparseable.
func TimeAt(d Doc, key string) (time.Time, bool) {
	switch v := d[key].(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t, true
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	default:
		return time.Time{}, false
	}
}
