package msgpack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-gum/typemap"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "application/msgpack", New().ContentType())
}

func TestDecode(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{
		"name":   "typemap",
		"small":  int8(-3),
		"big":    uint64(1 << 63),
		"ratio":  0.25,
		"flag":   true,
		"none":   nil,
		"blob":   []byte("raw"),
		"list":   []any{1, "two"},
		"nested": map[string]any{"b": 1, "a": 2},
	})
	require.NoError(t, err)

	value, err := New().Decode(data)
	require.NoError(t, err)

	require.Equal(t, typemap.Mapping(
		typemap.Pair("big", typemap.Number("9223372036854775808")),
		typemap.Pair("blob", typemap.String("raw")),
		typemap.Pair("flag", typemap.Bool(true)),
		typemap.Pair("list", typemap.Sequence(typemap.Int(1), typemap.String("two"))),
		typemap.Pair("name", typemap.String("typemap")),
		typemap.Pair("nested", typemap.Mapping(
			typemap.Pair("a", typemap.Int(2)),
			typemap.Pair("b", typemap.Int(1)),
		)),
		typemap.Pair("none", typemap.Null()),
		typemap.Pair("ratio", typemap.Number("0.25")),
		typemap.Pair("small", typemap.Int(-3)),
	), value)
}

func TestDecodeStruct(t *testing.T) {
	type Sample struct {
		Sensor   string    `json:"sensor"`
		Reading  float32   `json:"reading"`
		Measured time.Time `json:"measured"`
		Tags     []string  `json:"tags"`
	}

	data, err := msgpack.Marshal(map[string]any{
		"sensor":   "t-100",
		"reading":  21.5,
		"measured": time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC),
		"tags":     []string{"indoor"},
	})
	require.NoError(t, err)

	sample, err := typemap.Decode[Sample](New(), data)
	require.NoError(t, err)
	require.Equal(t, sample, Sample{
		Sensor:   "t-100",
		Reading:  21.5,
		Measured: time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC),
		Tags:     []string{"indoor"},
	})
}

func TestDecodeInvalid(t *testing.T) {
	_, err := New().Decode(nil)
	require.Error(t, err)

	data, err := msgpack.Marshal("foo")
	require.NoError(t, err)

	_, err = New().Decode(append(data, 0x01))
	require.ErrorContains(t, err, "trailing data")
}
