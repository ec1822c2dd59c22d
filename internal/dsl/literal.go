// internal/dsl/literal.go
package dsl

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/solatis/tagkeeper/internal/types"
)

/*
 * Literal encoding for condition values.
 *
 * Render side (formatValue):
 *   - string:                              'text'
 *   - int, int8, int16, int32, uint8, uint16: (3i)
 *   - int64, uint, uint32, uint64:          (3L)
 *   - float32:                             (1.5f)
 *   - float64:                             (1.5d)
 *   - bool:                                (true) / (false)
 *   - pointer:                             dereferenced
 *   - slice, array, map, struct, nil, ...: UnsupportedValueShapeError
 *
 * Unsigned values above MaxInt64 have no long form and are rejected.
 *
 * Parse side (parseTyped) accepts exactly the parenthesised forms above plus
 * a bare parenthesised integer such as (-9), read as int. Booleans carry
 * their own type so they survive on tags of any kind; bare true/false is
 * still accepted on boolean tags.
 *
 * Strings are re-quoted on every render. A value still wrapped in one pair of
 * single quotes from an earlier representation loses that pair first, so
 * 'google' and google render identically. The pair is kept when the inner
 * text itself holds a single quote, otherwise ''x'' would collapse to 'x'. Text containing a single quote is
 * written with double quotes; text containing both quote characters cannot be
 * expressed in the grammar.
 */

// formatValue renders a condition value as a DSL literal.
func formatValue(tagKey string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return quote(tagKey, v)
	case int:
		return "(" + strconv.Itoa(v) + "i)", nil
	case int8:
		return "(" + strconv.FormatInt(int64(v), 10) + "i)", nil
	case int16:
		return "(" + strconv.FormatInt(int64(v), 10) + "i)", nil
	case int32:
		return "(" + strconv.FormatInt(int64(v), 10) + "i)", nil
	case uint8:
		return "(" + strconv.FormatUint(uint64(v), 10) + "i)", nil
	case uint16:
		return "(" + strconv.FormatUint(uint64(v), 10) + "i)", nil
	case int64:
		return "(" + strconv.FormatInt(v, 10) + "L)", nil
	case uint:
		return formatUnsigned(tagKey, uint64(v))
	case uint32:
		return "(" + strconv.FormatUint(uint64(v), 10) + "L)", nil
	case uint64:
		return formatUnsigned(tagKey, v)
	case float32:
		if !finite(float64(v)) {
			return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "non-finite number"}
		}
		return "(" + strconv.FormatFloat(float64(v), 'f', -1, 32) + "f)", nil
	case float64:
		if !finite(v) {
			return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "non-finite number"}
		}
		return "(" + strconv.FormatFloat(v, 'f', -1, 64) + "d)", nil
	case bool:
		return "(" + strconv.FormatBool(v) + ")", nil
	case nil:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "nil"}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "nil"}
		}
		return formatValue(tagKey, rv.Elem().Interface())
	case reflect.Slice:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "collection"}
	case reflect.Array:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "array"}
	case reflect.Map:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "map"}
	case reflect.Struct:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "struct"}
	case reflect.String:
		// Named string types, e.g. an enum of member tiers.
		return quote(tagKey, rv.String())
	default:
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "unsupported"}
	}
}

func formatUnsigned(tagKey string, v uint64) (string, error) {
	if v > math.MaxInt64 {
		return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "unsigned overflow"}
	}
	return "(" + strconv.FormatUint(v, 10) + "L)", nil
}

func quote(tagKey, s string) (string, error) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' && !strings.Contains(s[1:len(s)-1], "'") {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'", nil
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`, nil
	}
	return "", &types.UnsupportedValueShapeError{TagKey: tagKey, Shape: "quoted text"}
}

// parseTyped decodes the body of a parenthesised literal (parens stripped).
func parseTyped(body string) (any, bool) {
	body = strings.TrimSpace(body)
	switch body {
	case "":
		return nil, false
	case "true":
		return true, true
	case "false":
		return false, true
	}
	digits, suffix := body[:len(body)-1], body[len(body)-1]
	switch suffix {
	case 'i':
		n, err := strconv.Atoi(digits)
		if err != nil {
			return nil, false
		}
		return n, true
	case 'L':
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case 'f':
		f, err := strconv.ParseFloat(digits, 32)
		if err != nil || !finite(f) {
			return nil, false
		}
		return float32(f), true
	case 'd':
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil || !finite(f) {
			return nil, false
		}
		return f, true
	}
	n, err := strconv.Atoi(body)
	if err != nil {
		return nil, false
	}
	return n, true
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
