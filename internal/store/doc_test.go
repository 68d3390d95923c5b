package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStr(t *testing.T) {
	d := Doc{"name": "hub", "count": 3.0}
	assert.Equal(t, "hub", Str(d, "name"))
	assert.Equal(t, "", Str(d, "count"))
	assert.Equal(t, "", Str(d, "missing"))
}

func TestIntAndFloat(t *testing.T) {
	d := Doc{"json": 42.0, "native": 7, "wide": int64(9), "text": "12"}
	assert.Equal(t, 42, Int(d, "json"))
	assert.Equal(t, 7, Int(d, "native"))
	assert.Equal(t, 9, Int(d, "wide"))
	assert.Equal(t, 0, Int(d, "text")) // malformed degrades to zero
	assert.Equal(t, 0, Int(d, "missing"))

	assert.Equal(t, 42.0, Float(d, "json"))
	assert.Equal(t, 7.0, Float(d, "native"))
	assert.Equal(t, 0.0, Float(d, "missing"))
}

func TestStrings(t *testing.T) {
	d := Doc{
		"decoded": []any{"a", "b", 3.0, "c"},
		"native":  []string{"x", "y"},
		"scalar":  "nope",
	}
	assert.Equal(t, []string{"a", "b", "c"}, Strings(d, "decoded"))
	assert.Equal(t, []string{"x", "y"}, Strings(d, "native"))
	assert.Nil(t, Strings(d, "scalar"))
	assert.Nil(t, Strings(d, "missing"))
}

func TestTimeAt(t *testing.T) {
	ref := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	d := Doc{
		"rfc3339": ref.Format(time.RFC3339),
		"millis":  float64(ref.UnixMilli()),
		"native":  ref,
		"garbage": "yesterday-ish",
	}

	got, ok := TimeAt(d, "rfc3339")
	assert.True(t, ok)
	assert.True(t, got.Equal(ref))

	got, ok = TimeAt(d, "millis")
	assert.True(t, ok)
	assert.True(t, got.Equal(ref))

	got, ok = TimeAt(d, "native")
	assert.True(t, ok)
	assert.True(t, got.Equal(ref))

	_, ok = TimeAt(d, "garbage")
	assert.False(t, ok)

	_, ok = TimeAt(d, "missing")
	assert.False(t, ok)
}
