package typemap

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TemporalLayout is the only accepted format of temporal values: YYYY-MM-DDTHH:MM:SS,
// without fractional seconds or zone offset. Values are interpreted as UTC.
const TemporalLayout = "2006-01-02T15:04:05"

// castScalar casts a primitive value into a new value of d.Type. Sequences and mappings
// can not be cast into a scalar and yield false, same as values out of range.
func castScalar(d Scalar, value Value) (reflect.Value, bool) {
	if value.IsComposite() {
		return reflect.Value{}, false
	}

	target := reflect.New(d.Type).Elem()

	switch d.Kind {
	case ScalarString:
		target.SetString(castString(value))

	case ScalarBool:
		target.SetBool(castBool(value))

	case ScalarInt:
		intValue, err := castInt(value)
		if err != nil || target.OverflowInt(intValue) {
			return reflect.Value{}, false
		}

		target.SetInt(intValue)

	case ScalarUint:
		uintValue, err := castUint(value)
		if err != nil || target.OverflowUint(uintValue) {
			return reflect.Value{}, false
		}

		target.SetUint(uintValue)

	case ScalarFloat:
		floatValue, err := castFloat(value)
		if err != nil || target.OverflowFloat(floatValue) {
			return reflect.Value{}, false
		}

		target.SetFloat(floatValue)

	case ScalarText:
		m := target.Addr().Interface().(encoding.TextUnmarshaler)
		if err := m.UnmarshalText([]byte(castString(value))); err != nil {
			return reflect.Value{}, false
		}

	default:
		return reflect.Value{}, false
	}

	return target, true
}

// castString renders a primitive as text. Null is the empty string.
func castString(value Value) string {
	switch value.Kind() {
	case KindBool:
		return strconv.FormatBool(value.flag)
	case KindNumber, KindString:
		return value.text
	default:
		return ""
	}
}

// castBool interprets numbers by comparing against zero and strings using
// strconv.ParseBool, falling back to "non empty and not 0".
func castBool(value Value) bool {
	switch value.Kind() {
	case KindBool:
		return value.flag

	case KindNumber:
		floatValue, _ := strconv.ParseFloat(value.text, 64)
		return floatValue != 0

	case KindString:
		text := strings.TrimSpace(value.text)
		if parsed, err := strconv.ParseBool(text); err == nil {
			return parsed
		}

		return text != "" && text != "0"

	default:
		return false
	}
}

// castInt truncates fractional numbers towards zero. Text that is not a number casts
// to zero. Returns strconv.ErrRange if the value does not fit an int64.
func castInt(value Value) (int64, error) {
	switch value.Kind() {
	case KindBool:
		if value.flag {
			return 1, nil
		}

		return 0, nil

	case KindNumber, KindString:
		text := strings.TrimSpace(value.text)

		parsed, parseErr := parseInt(text)

		intValue, err := handleSyntaxErr(text, parsed, parseErr)
		if errors.Is(err, ErrNotSupported) {
			return 0, nil
		}

		return intValue, err

	default:
		return 0, nil
	}
}

func castUint(value Value) (uint64, error) {
	intValue, err := castInt(value)
	switch {
	case err == nil && intValue < 0:
		return 0, fmt.Errorf("negative value %d: %w", intValue, strconv.ErrRange)

	case err == nil:
		return uint64(intValue), nil

	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(value.text), "-"):
		// too large for an int64, might still fit an uint64
		text := strings.TrimSpace(value.text)
		if uintValue, err := strconv.ParseUint(text, 10, 64); err == nil {
			return uintValue, nil
		}

		floatValue, err := strconv.ParseFloat(text, 64)
		if err != nil || floatValue >= math.MaxUint64 {
			return 0, strconv.ErrRange
		}

		return uint64(floatValue), nil

	default:
		return 0, err
	}
}

// castFloat parses numbers and numeric text. Other text casts to zero.
// Returns strconv.ErrRange if the value does not fit a float64.
func castFloat(value Value) (float64, error) {
	switch value.Kind() {
	case KindBool:
		if value.flag {
			return 1, nil
		}

		return 0, nil

	case KindNumber, KindString:
		text := strings.TrimSpace(value.text)

		parsed, parseErr := strconv.ParseFloat(text, 64)

		floatValue, err := handleSyntaxErr(text, parsed, parseErr)
		if errors.Is(err, ErrNotSupported) {
			return 0, nil
		}

		if err == nil && (math.IsNaN(floatValue) || math.IsInf(floatValue, 0)) {
			// "NaN" and "Inf" are accepted by ParseFloat but are no numbers
			return 0, nil
		}

		return floatValue, err

	default:
		return 0, nil
	}
}

// parseInt parses text as an integer, accepting floating point literals which are
// truncated towards zero.
func parseInt(text string) (int64, error) {
	intValue, err := strconv.ParseInt(text, 10, 64)
	if !errors.Is(err, strconv.ErrSyntax) {
		return intValue, err
	}

	floatValue, floatErr := strconv.ParseFloat(text, 64)
	switch {
	case floatErr != nil:
		return 0, err

	case math.IsNaN(floatValue) || math.IsInf(floatValue, 0):
		return 0, err

	case floatValue >= math.MaxInt64 || floatValue < math.MinInt64:
		return 0, strconv.ErrRange

	default:
		return int64(floatValue), nil
	}
}

// parseTemporal parses a string in TemporalLayout. Any other value yields false.
func parseTemporal(value Value) (reflect.Value, bool) {
	text, ok := value.AsString()
	if !ok || len(text) != len(TemporalLayout) {
		// time.Parse silently accepts fractional seconds, the length check rejects them
		return reflect.Value{}, false
	}

	parsed, err := time.Parse(TemporalLayout, text)
	if err != nil {
		return reflect.Value{}, false
	}

	return reflect.ValueOf(parsed), true
}

func handleSyntaxErr[T any](inputValue string, value T, err error) (T, error) {
	var zeroValue T
	if errors.Is(err, strconv.ErrSyntax) {
		err := fmt.Errorf("parse number %q: %w", inputValue, err)
		return zeroValue, errors.Join(err, ErrNotSupported)
	}

	if err != nil {
		return zeroValue, err
	}

	return value, nil
}
