package number

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// ToFloat64 converts supported numeric values to float64.
// Named numeric types are accepted through their underlying kind.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int8:
		return float64(current), true
	case int16:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint:
		return float64(current), true
	case uint8:
		return float64(current), true
	case uint16:
		return float64(current), true
	case uint32:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case nil:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ToInt64 converts integer-typed values into int64. Floats are rejected even
// when integral, so callers can keep integer and float arithmetic apart.
func ToInt64(value any) (int64, bool) {
	switch current := value.(type) {
	case int:
		return int64(current), true
	case int64:
		return current, true
	case int32:
		return int64(current), true
	case json.Number:
		parsed, err := current.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case nil:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}

// Format renders a number the way path segments spell it: integers in base
// 10, integral floats with a trailing ".0", other floats in shortest form.
func Format(value any) (string, bool) {
	if i, ok := ToInt64(value); ok {
		return strconv.FormatInt(i, 10), true
	}
	f, ok := ToFloat64(value)
	if !ok {
		return "", false
	}
	if f == float64(int64(f)) && f < 1e16 && f > -1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64), true
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}
