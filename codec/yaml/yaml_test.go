package yaml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-gum/typemap"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "application/yaml", New().ContentType())
}

func TestDecode(t *testing.T) {
	value, err := New().Decode([]byte(`
name: typemap
count: 12
ratio: 0.5
enabled: yes
quoted: "12"
missing: ~
nan: .nan
tags: [a, b]
nested:
  b: 1
  a: 2
`))
	require.NoError(t, err)

	require.Equal(t, typemap.Mapping(
		typemap.Pair("name", typemap.String("typemap")),
		typemap.Pair("count", typemap.Int(12)),
		typemap.Pair("ratio", typemap.Number("0.5")),
		typemap.Pair("enabled", typemap.String("yes")),
		typemap.Pair("quoted", typemap.String("12")),
		typemap.Pair("missing", typemap.Null()),
		typemap.Pair("nan", typemap.Null()),
		typemap.Pair("tags", typemap.Sequence(typemap.String("a"), typemap.String("b"))),
		typemap.Pair("nested", typemap.Mapping(
			typemap.Pair("b", typemap.Int(1)),
			typemap.Pair("a", typemap.Int(2)),
		)),
	), value)
}

func TestDecodeEmpty(t *testing.T) {
	value, err := New().Decode(nil)
	require.NoError(t, err)
	require.True(t, value.IsNull())
}

func TestDecodeAliasAndMerge(t *testing.T) {
	value, err := New().Decode([]byte(`
base: &base
  host: localhost
  port: 5432
primary:
  <<: *base
  port: 5433
replica: *base
`))
	require.NoError(t, err)

	primary, ok := value.Get("primary")
	require.True(t, ok)
	require.Equal(t, typemap.Mapping(
		typemap.Pair("host", typemap.String("localhost")),
		typemap.Pair("port", typemap.Int(5433)),
	), primary)

	replica, ok := value.Get("replica")
	require.True(t, ok)
	require.Equal(t, typemap.Mapping(
		typemap.Pair("host", typemap.String("localhost")),
		typemap.Pair("port", typemap.Int(5432)),
	), replica)
}

func TestDecodeTimestamp(t *testing.T) {
	type Release struct {
		Version string    `yaml:"version"`
		Date    time.Time `yaml:"date"`
	}

	m := typemap.NewMapper().WithTag("yaml")

	release, err := typemap.DecodeWith[Release](t.Context(), m, New(), []byte(`
version: 1.2.0
date: 2023-05-01T10:30:00Z
`))
	require.NoError(t, err)
	require.Equal(t, release, Release{
		Version: "1.2.0",
		Date:    time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC),
	})
}

func TestDecodeInvalid(t *testing.T) {
	_, err := New().Decode([]byte("a: [1, 2"))
	require.Error(t, err)

	_, err = New().Decode([]byte("{[a]: 1}"))
	require.Error(t, err)
}
