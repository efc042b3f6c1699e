// internal/matching/safenum/safenum_test.go
package safenum

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestFloat(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		def  float64
		want float64
	}{
		{"nil uses default", nil, 2.5, 2.5},
		{"value passes through", ptr(3), 2.5, 3},
		{"NaN uses default", ptr(math.NaN()), 1, 1},
		{"positive infinity uses default", ptr(math.Inf(1)), 1, 1},
		{"negative infinity uses default", ptr(math.Inf(-1)), 0, 0},
		{"negative value kept", ptr(-4), 0, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Float(tt.in, tt.def))
		})
	}
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, 0.0, NonNegative(ptr(-3), 1))
	assert.Equal(t, 1.0, NonNegative(nil, 1))
	assert.Equal(t, 7.0, NonNegative(ptr(7), 1))
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"float64", 4.5, 4.5},
		{"int", 3, 3},
		{"int64", int64(9), 9},
		{"json number", json.Number("12.25"), 12.25},
		{"bad json number", json.Number("abc"), -1},
		{"string with separators", " 1,250.5 ", 1250.5},
		{"garbage string", "n/a", -1},
		{"bool", true, -1},
		{"nil", nil, -1},
		{"map", map[string]interface{}{}, -1},
		{"NaN float", math.NaN(), -1},
		{"pointer", ptr(2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.raw, -1))
		})
	}
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(nil))
	assert.Nil(t, Optional("unknown"))
	if got := Optional("3"); assert.NotNil(t, got) {
		assert.Equal(t, 3.0, *got)
	}
}

func TestClampAndRatio(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))

	assert.Equal(t, 0.0, Ratio(5, 0), "zero denominator must not divide")
	assert.Equal(t, 0.0, Ratio(5, -2))
	assert.Equal(t, 0.0, Ratio(5, math.Inf(1)))
	assert.Equal(t, 1.0, Ratio(40, 30))
	assert.InDelta(t, 0.5, Ratio(15, 30), 1e-9)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 25.3, Round(25.25001, 1))
	assert.Equal(t, 10.0, Round(9.96, 1))
	assert.Equal(t, 0.0, Round(0.04, 1))
}
