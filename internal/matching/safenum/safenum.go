// internal/matching/safenum/safenum.go

// Package safenum is the single accessor the scorers use to read optional or
// loosely typed numbers. Absent, non-finite or mistyped values collapse to the
// caller's neutral default instead of surfacing an error.
package safenum

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float dereferences p, returning def when p is nil or not finite.
func Float(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return Finite(*p, def)
}

// Finite returns v, or def when v is NaN or infinite.
func Finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// NonNegative reads p like Float and floors the result at zero.
func NonNegative(p *float64, def float64) float64 {
	v := Float(p, def)
	if v < 0 {
		return 0
	}
	return v
}

// Value coerces a loosely typed value (as decoded from job variables) into a
// float64. Strings may carry thousands separators. Anything else yields def.
func Value(raw interface{}, def float64) float64 {
	switch v := raw.(type) {
	case nil:
		return def
	case float64:
		return Finite(v, def)
	case float32:
		return Finite(float64(v), def)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		return Finite(f, def)
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return def
		}
		return Finite(f, def)
	case *float64:
		return Float(v, def)
	default:
		return def
	}
}

// Optional converts a loosely typed value into an optional float. Values that
// cannot be read as a finite number come back nil.
func Optional(raw interface{}) *float64 {
	v := Value(raw, math.NaN())
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ratio returns num/den clamped to [0,1]; a non-positive denominator yields 0.
func Ratio(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return 0
	}
	return Clamp(num/den, 0, 1)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
