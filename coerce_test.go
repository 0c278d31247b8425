package typemap

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCastIntegers(t *testing.T) {
	castTest(t, castTestValues[int8]{
		MinIn:      Number("-128"),
		MinOut:     -128,
		MaxIn:      Number("127"),
		MaxOut:     127,
		OutOfRange: []Value{Number("-129"), Number("128"), String("1e4")},
		Zero:       []Value{String("foobar"), String(""), Bool(false), String("NaN")},
		Valid: map[string]castExpect[int8]{
			"truncates fraction": {Number("3.9"), 3},
			"truncates negative": {Number("-3.9"), -3},
			"numeric string":     {String(" 17 "), 17},
			"exponent":           {Number("1e2"), 100},
			"true":               {Bool(true), 1},
		},
	})

	castTest(t, castTestValues[int64]{
		MinIn:      Number("-9223372036854775808"),
		MinOut:     math.MinInt64,
		MaxIn:      Number("9223372036854775807"),
		MaxOut:     math.MaxInt64,
		OutOfRange: []Value{Number("-9223372036854775809"), Number("9223372036854775808"), Number("1e19")},
		Zero:       []Value{String("foobar"), String("Inf")},
	})

	castTest(t, castTestValues[int32]{
		MinIn:      Number("-2147483648"),
		MinOut:     math.MinInt32,
		MaxIn:      Number("2147483647"),
		MaxOut:     math.MaxInt32,
		OutOfRange: []Value{Number("-2147483649"), Number("2147483648")},
		Zero:       []Value{String("12abc")},
	})
}

func TestCastUnsignedIntegers(t *testing.T) {
	castTest(t, castTestValues[uint8]{
		MinIn:      Number("0"),
		MinOut:     0,
		MaxIn:      Number("255"),
		MaxOut:     255,
		OutOfRange: []Value{Number("256"), Number("-1"), String("-0.5e1")},
		Zero:       []Value{String("foobar"), Bool(false)},
		Valid: map[string]castExpect[uint8]{
			"negative fraction truncates to zero": {Number("-0.5"), 0},
			"true":                                {Bool(true), 1},
		},
	})

	castTest(t, castTestValues[uint64]{
		MinIn:      Number("0"),
		MinOut:     0,
		MaxIn:      Number(strconv.FormatUint(math.MaxUint64, 10)),
		MaxOut:     math.MaxUint64,
		OutOfRange: []Value{Number("18446744073709551616"), Number("-9223372036854775809"), Number("1e20")},
		Valid: map[string]castExpect[uint64]{
			"above int64": {Number("9223372036854775808"), 1 << 63},
			"float above": {Number("1e19"), 1e19},
		},
	})
}

func TestCastFloats(t *testing.T) {
	castTest(t, castTestValues[float64]{
		MinIn:      Number("-1234.5"),
		MinOut:     -1234.5,
		MaxIn:      Number("1235.5"),
		MaxOut:     1235.5,
		OutOfRange: []Value{Number("1e400")},
		Zero:       []Value{String("foobar"), String(""), String("NaN"), String("-Inf")},
		Valid: map[string]castExpect[float64]{
			"exponent":       {Number("1e4"), 10000},
			"small":          {String("0.0024"), 0.0024},
			"true":           {Bool(true), 1},
			"integer string": {String("-1"), -1},
		},
	})

	castTest(t, castTestValues[float32]{
		MinIn:      Number("-1.5"),
		MinOut:     -1.5,
		MaxIn:      Number("1.5"),
		MaxOut:     1.5,
		OutOfRange: []Value{Number("1e300")},
	})
}

func TestCastBool(t *testing.T) {
	castTest(t, castTestValues[bool]{
		MinIn:  String("false"),
		MinOut: false,
		MaxIn:  String("true"),
		MaxOut: true,
		Zero:   []Value{String(""), String("0"), Number("0"), Number("0.0")},
		Valid: map[string]castExpect[bool]{
			"non empty string": {String("foobar"), true},
			"non zero number":  {Number("-1"), true},
			"fraction":         {Number("0.5"), true},
			"one":              {String("1"), true},
		},
	})
}

func TestCastString(t *testing.T) {
	castTest(t, castTestValues[string]{
		MinIn:      String(""),
		MinOut:     "",
		MaxIn:      String("Zürich"),
		MaxOut:     "Zürich",
		OutOfRange: []Value{Sequence(String("a")), Mapping(Pair("a", String("a")))},
		Valid: map[string]castExpect[string]{
			"integer": {Int(42), "42"},
			"float":   {Number("1.25"), "1.25"},
			"true":    {Bool(true), "true"},
			"false":   {Bool(false), "false"},
		},
	})
}

func TestCastNamedPrimitive(t *testing.T) {
	type Status string
	type Level int16

	castTest(t, castTestValues[Status]{
		MinIn:  String("open"),
		MinOut: "open",
		MaxIn:  Int(3),
		MaxOut: "3",
	})

	castTest(t, castTestValues[Level]{
		MinIn:      String("-2"),
		MinOut:     -2,
		MaxIn:      Number("7"),
		MaxOut:     7,
		OutOfRange: []Value{Int(math.MaxInt32)},
	})
}

func TestParseTemporal(t *testing.T) {
	value, ok := parseTemporal(String("2023-05-01T10:30:00"))
	require.True(t, ok)
	require.Equal(t, value.Interface(), time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC))

	invalid := []Value{
		String("not-a-date"),
		String("2023-05-01"),
		String("2023-05-01 10:30:00"),
		String("2023-05-01T10:30:00Z"),
		String("2023-05-01T10:30:00.000"),
		String("2023-13-01T10:30:00"),
		Int(1682937000),
		Null(),
	}

	for _, input := range invalid {
		_, ok := parseTemporal(input)
		require.False(t, ok, "input %#v", input)
	}
}

func TestHandleSyntaxErr(t *testing.T) {
	_, err := strconv.ParseInt("foo", 10, 64)

	value, err := handleSyntaxErr("foo", int64(12), err)
	require.Zero(t, value)
	require.ErrorIs(t, err, ErrNotSupported)
	require.ErrorIs(t, err, strconv.ErrSyntax)

	value, err = handleSyntaxErr("12", int64(12), nil)
	require.NoError(t, err)
	require.Equal(t, value, int64(12))
}

type castExpect[T any] struct {
	In  Value
	Out T
}

type castTestValues[T any] struct {
	MinIn  Value
	MinOut T

	MaxIn  Value
	MaxOut T

	// inputs that leave the field absent
	OutOfRange []Value

	// inputs that cast to the zero value
	Zero []Value

	Valid map[string]castExpect[T]
}

// castHolder wraps the target in a pointer, so that absent values can be
// told apart from zero values.
type castHolder[T any] struct {
	V *T
}

func castTest[T any](t *testing.T, v castTestValues[T]) {
	var tZero T

	cast := func(t *testing.T, input Value) *T {
		t.Helper()

		holder, err := Map[castHolder[T]](Mapping(Pair("V", input)))
		require.NoError(t, err)

		return holder.V
	}

	t.Run(fmt.Sprintf("cast to %T", tZero), func(t *testing.T) {
		actual := cast(t, v.MinIn)
		require.NotNil(t, actual)
		require.Equal(t, *actual, v.MinOut)

		actual = cast(t, v.MaxIn)
		require.NotNil(t, actual)
		require.Equal(t, *actual, v.MaxOut)

		for _, value := range v.OutOfRange {
			actual = cast(t, value)
			require.Nil(t, actual, "input %#v", value)
		}

		for _, value := range v.Zero {
			actual = cast(t, value)
			require.NotNil(t, actual, "input %#v", value)
			require.Equal(t, *actual, tZero)
		}

		for name, expect := range v.Valid {
			actual = cast(t, expect.In)
			require.NotNil(t, actual, name)
			require.Equal(t, *actual, expect.Out, name)
		}

		// null never allocates
		require.Nil(t, cast(t, Null()))
	})
}
