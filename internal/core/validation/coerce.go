package validation

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errNotString  = errors.New("must be a string")
	errNotNumber  = errors.New("must be a number")
	errFractional = errors.New("must be a whole number")
	errOutOfRange = errors.New("is out of range")
)

func coerceString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errNotString
	}
	return strings.TrimSpace(s), nil
}

// coerceInt turns a decoded body value into an int. Checks run in a fixed
// order: accepted type, numeric parse, whole number, int32 range. The sign is
// left to the caller's rule check.
func coerceInt(v any) (int, error) {
	var f float64

	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intInRange(i)
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return intInRange(i)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errNotNumber
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return intInRange(int64(n))
	case int32:
		return int(n), nil
	case int64:
		return intInRange(n)
	default:
		return 0, errNotNumber
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotNumber
	}
	if f != math.Trunc(f) {
		return 0, errFractional
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errOutOfRange
	}
	return int(f), nil
}

func intInRange(i int64) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, errOutOfRange
	}
	return int(i), nil
}
