package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat converts an extracted value into a number. Numeric strings may use a comma
// as decimal separator. Nil, booleans, NaN and anything non-numeric report false.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// Deref returns *p or 0 when p is nil
func Deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
