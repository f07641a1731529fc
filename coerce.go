package petalskill

import (
	"fmt"
	"strconv"
	"strings"
)

// coerceValue converts a raw invocation value to the declared parameter
// type. Raw values arrive JSON-shaped (string, float64, bool, nil, []any,
// map[string]any); coercion is permissive for lossless conversions and
// fails with a descriptive error otherwise.
func coerceValue(raw any, typ ParamType) (any, error) {
	switch typ {
	case TypeAny:
		return raw, nil
	case TypeString:
		return coerceString(raw)
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		return coerceBool(raw)
	default:
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
}

func coerceString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", raw)
	}
}

func coerceNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", raw)
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%q is not a boolean", v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot convert %T to boolean", raw)
	}
}

// stringifyReturn renders a non-envelope, non-map handler return value for
// use as a success message.
func stringifyReturn(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
