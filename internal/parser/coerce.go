package parser

import (
	"math"
	"strconv"
	"strings"
)

// TryInt coerces a wire value to int: base-10 first, then a float truncated
// toward zero, then a 0x-prefixed hex literal. Out-of-range values are clamped.
func TryInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseInt(s, 10, 0); err == nil {
		return int(v), true
	} else if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		// ParseInt already saturated v at the bound.
		return int(v), true
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil || isRangeErr(err) {
		if math.IsNaN(f) {
			return 0, false
		}
		return clampFloat(math.Trunc(f)), true
	}

	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err == nil {
			if v > math.MaxInt {
				return math.MaxInt, true
			}
			return int(v), true
		}
		if isRangeErr(err) {
			return math.MaxInt, true
		}
	}

	return 0, false
}

// ToInt is the fail-soft form of TryInt: anything it cannot read becomes 0.
func ToInt(s string) int {
	v, _ := TryInt(s)
	return v
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func clampFloat(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(f)
	}
}

// fieldReader applies ToInt and counts values that were present but unreadable.
type fieldReader struct {
	malformed int
}

func (r *fieldReader) int(s string) int {
	v, ok := TryInt(s)
	if !ok && strings.TrimSpace(s) != "" {
		r.malformed++
	}
	return v
}

func (r *fieldReader) intAttr(s *string) int {
	if s == nil {
		return 0
	}
	return r.int(*s)
}
