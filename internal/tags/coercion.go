// internal/tags/coercion.go
package tags

import (
	"math"
	"strconv"
	"strings"

	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Value coercion by declared tag value kind.
 *
 * Two callers:
 *   - the parser, to type a bare (unquoted) DSL token
 *   - validators, to check a condition value against its tag
 *
 * Kinds:
 *   - string:  any token, unchanged
 *   - integer: base-10 int (32-bit range)
 *   - long:    base-10 int64
 *   - decimal: float64, finite only
 *   - boolean: exactly "true" or "false"; no 1/0 or yes/no
 *
 * Unknown kinds fall back to string: a catalog entry with a value type this
 * build does not know must not make its conditions unparseable.
 */

// Coerce converts a bare token to the Go value for kind.
// Returns types.ErrCoercionFailed when token is not a valid literal of kind.
func Coerce(token string, kind types.ValueKind) (any, error) {
	switch kind {
	case types.ValueKindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(token), 10, 32)
		if err != nil {
			return nil, types.ErrCoercionFailed
		}
		return int(n), nil
	case types.ValueKindLong:
		n, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
		if err != nil {
			return nil, types.ErrCoercionFailed
		}
		return n, nil
	case types.ValueKindDecimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, types.ErrCoercionFailed
		}
		return f, nil
	case types.ValueKindBoolean:
		switch token {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, types.ErrCoercionFailed
		}
	default:
		return token, nil
	}
}

// Conforms reports whether an already-typed value is acceptable for kind.
// Strings are accepted when they coerce; numbers must be integral for
// integer/long and within range.
func Conforms(value any, kind types.ValueKind) bool {
	if s, ok := value.(string); ok {
		_, err := Coerce(s, kind)
		return err == nil
	}
	switch kind {
	case types.ValueKindString:
		// Non-string scalars render as typed literals, not text.
		return false
	case types.ValueKindInteger:
		n, ok := asInt64(value)
		return ok && n >= math.MinInt32 && n <= math.MaxInt32
	case types.ValueKindLong:
		_, ok := asInt64(value)
		return ok
	case types.ValueKindDecimal:
		if _, ok := asInt64(value); ok {
			return true
		}
		switch v := value.(type) {
		case float32:
			return !math.IsInf(float64(v), 0) && !math.IsNaN(float64(v))
		case float64:
			return !math.IsInf(v, 0) && !math.IsNaN(v)
		}
		return false
	case types.ValueKindBoolean:
		_, ok := value.(bool)
		return ok
	default:
		return true
	}
}

// asInt64 widens Go integer types. Unsigned values above MaxInt64 are rejected.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
