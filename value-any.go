package typemap

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"

	"golang.org/x/exp/constraints"
)

// FromAny converts the output of a generic decoder into a [Value].
//
// Supported are nil, bool, all integer and float types, string, []byte,
// json.Number, time.Time, Value itself, as well as slices, arrays and maps
// of those. Map keys must be strings or implement fmt.Stringer or be numbers.
// Members of go maps are sorted by key, as go maps have no order.
//
// Input that contains itself fails with [ErrCyclicInput], input nested deeper
// than [MaxInputDepth] fails with [ErrTooDeep].
func FromAny(input any) (Value, error) {
	c := converter{visiting: map[visit]struct{}{}}
	return c.convert(input)
}

// visit identifies a map, slice or pointer on the current conversion path.
// Slices sharing a backing array differ in length.
type visit struct {
	ptr uintptr
	len int
	ty  reflect.Type
}

type converter struct {
	depth    int
	visiting map[visit]struct{}
}

func (c *converter) convert(input any) (Value, error) {
	switch value := input.(type) {
	case nil:
		return Null(), nil
	case Value:
		return value, nil
	case bool:
		return Bool(value), nil
	case string:
		return String(value), nil
	case []byte:
		return String(string(value)), nil
	case json.Number:
		return Number(value.String()), nil
	case time.Time:
		return fromTime(value), nil

	case int:
		return signed(value), nil
	case int8:
		return signed(value), nil
	case int16:
		return signed(value), nil
	case int32:
		return signed(value), nil
	case int64:
		return signed(value), nil
	case uint:
		return unsigned(value), nil
	case uint8:
		return unsigned(value), nil
	case uint16:
		return unsigned(value), nil
	case uint32:
		return unsigned(value), nil
	case uint64:
		return unsigned(value), nil
	case float32:
		return float(value), nil
	case float64:
		return float(value), nil
	}

	reflectValue := reflect.ValueOf(input)

	v, err := c.enter(reflectValue)
	if err != nil {
		return Value{}, err
	}

	defer c.leave(v)

	switch value := input.(type) {
	case []any:
		items := make([]Value, 0, len(value))
		for idx, item := range value {
			converted, err := c.convert(item)
			if err != nil {
				return Value{}, fmt.Errorf("item idx=%d: %w", idx, err)
			}

			items = append(items, converted)
		}

		return Value{kind: KindSequence, items: items}, nil

	case map[string]any:
		keys := slices.Sorted(maps.Keys(value))

		members := make([]Member, 0, len(keys))
		for _, key := range keys {
			converted, err := c.convert(value[key])
			if err != nil {
				return Value{}, fmt.Errorf("member %q: %w", key, err)
			}

			members = append(members, Pair(key, converted))
		}

		return Mapping(members...), nil
	}

	return c.fromReflect(reflectValue)
}

// enter records value on the conversion path. It fails if the path is too long
// or value is already on it.
func (c *converter) enter(value reflect.Value) (visit, error) {
	c.depth++
	if c.depth > MaxInputDepth {
		return visit{}, fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxInputDepth)
	}

	switch value.Kind() {
	case reflect.Slice, reflect.Map:
		if value.Len() == 0 {
			return visit{}, nil
		}

	case reflect.Pointer:
		if value.IsNil() {
			return visit{}, nil
		}

	default:
		return visit{}, nil
	}

	v := visit{ptr: value.Pointer(), ty: value.Type()}
	if value.Kind() == reflect.Slice {
		v.len = value.Len()
	}

	if _, ok := c.visiting[v]; ok {
		return visit{}, fmt.Errorf("%w: %s contains itself", ErrCyclicInput, v.ty)
	}

	c.visiting[v] = struct{}{}

	return v, nil
}

func (c *converter) leave(v visit) {
	c.depth--

	if v.ptr != 0 {
		delete(c.visiting, v)
	}
}

// fromReflect handles the container types not covered by the type switch in convert,
// e.g. []string, map[string]int or map[any]any.
func (c *converter) fromReflect(value reflect.Value) (Value, error) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return Null(), nil
		}

		return c.convert(value.Elem().Interface())

	// named types based on a primitive, e.g. `type Status string`
	case reflect.Bool:
		return Bool(value.Bool()), nil
	case reflect.String:
		return String(value.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(value.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(value.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return float(value.Float()), nil

	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, value.Len())
		for idx := range value.Len() {
			converted, err := c.convert(value.Index(idx).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("item idx=%d: %w", idx, err)
			}

			items = append(items, converted)
		}

		return Value{kind: KindSequence, items: items}, nil

	case reflect.Map:
		type keyed struct {
			key   string
			value reflect.Value
		}

		var entries []keyed

		iter := value.MapRange()
		for iter.Next() {
			key, err := mapKeyOf(iter.Key())
			if err != nil {
				return Value{}, err
			}

			entries = append(entries, keyed{key: key, value: iter.Value()})
		}

		slices.SortFunc(entries, func(a, b keyed) int {
			return cmp.Compare(a.key, b.key)
		})

		members := make([]Member, 0, len(entries))
		for _, entry := range entries {
			converted, err := c.convert(entry.value.Interface())
			if err != nil {
				return Value{}, fmt.Errorf("member %q: %w", entry.key, err)
			}

			members = append(members, Pair(entry.key, converted))
		}

		return Mapping(members...), nil

	case reflect.Invalid:
		return Null(), nil

	default:
		return Value{}, NotSupportedError{Type: value.Type()}
	}
}

func mapKeyOf(key reflect.Value) (string, error) {
	if key.Kind() == reflect.Interface {
		if key.IsNil() {
			return "", NotSupportedError{Type: key.Type()}
		}

		key = key.Elem()
	}

	switch key.Kind() {
	case reflect.String:
		return key.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(key.Uint(), 10), nil
	}

	if stringer, ok := key.Interface().(fmt.Stringer); ok {
		return stringer.String(), nil
	}

	return "", NotSupportedError{Type: key.Type()}
}

func signed[T constraints.Signed](i T) Value {
	return Int(int64(i))
}

func unsigned[T constraints.Unsigned](u T) Value {
	return Uint(uint64(u))
}

func float[T constraints.Float](f T) Value {
	f64 := float64(f)
	if math.IsNaN(f64) || math.IsInf(f64, 0) {
		return Null()
	}

	if _, ok := any(f).(float32); ok {
		// keep the shortest representation of the float32, not of its float64 widening
		return Number(strconv.FormatFloat(f64, 'f', -1, 32))
	}

	return Float(f64)
}

// fromTime renders t in UTC, in the layout the mapper parses temporal fields from
// if that does not lose the sub second part.
func fromTime(t time.Time) Value {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return String(t.Format(TemporalLayout))
	}

	return String(t.Format(time.RFC3339Nano))
}
