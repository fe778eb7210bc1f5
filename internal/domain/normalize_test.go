package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"clean string", "1042", "1042"},
		{"trailing .0", "1042.0", "1042"},
		{"surrounding whitespace", "  1042 ", "1042"},
		{"whitespace and suffix", " 1042.0  ", "1042"},
		{"json number", float64(1042), "1042"},
		{"json float artifact", 1042.0, "1042"},
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"alphanumeric code", "SJ-07", "SJ-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCode(tt.input))
		})
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	inputs := []any{"1042.0", " 7 ", float64(33), "SJ-07", ""}
	for _, in := range inputs {
		once := NormalizeCode(in)
		assert.Equal(t, once, NormalizeCode(once), "input %v", in)
	}
}

func TestParseMillimeters(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"number", float64(12.5), 12.5},
		{"numeric string", "12.5", 12.5},
		{"comma decimal", "12,5", 12.5},
		{"integer string", "30", 30},
		{"unparseable", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"negative clamps", float64(-3), 0},
		{"negative string clamps", "-3.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMillimeters(tt.input))
		})
	}
}

func TestParseObservationTime(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		got, ok := ParseObservationTime("2026-03-14T09:00:00Z")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), got)
	})

	t.Run("date only", func(t *testing.T) {
		got, ok := ParseObservationTime("2026-03-14")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("space separated", func(t *testing.T) {
		got, ok := ParseObservationTime("2026-03-14 09:30:00")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParseObservationTime("14/03/2026")
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		_, ok := ParseObservationTime(nil)
		assert.False(t, ok)
	})
}

func TestDateOf(t *testing.T) {
	in := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), DateOf(in))
	assert.True(t, DateOf(time.Time{}).IsZero())
}
