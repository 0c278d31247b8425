package cbor

import (
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/go-gum/typemap"
)

func TestContentType(t *testing.T) {
	require.Equal(t, "application/cbor", New().ContentType())
}

func TestDecode(t *testing.T) {
	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	data, err := cbor.Marshal(map[string]any{
		"name":     "typemap",
		"negative": -7,
		"ratio":    1.5,
		"bytes":    []byte("raw"),
		"huge":     huge,
		"tagged":   cbor.Tag{Number: 40000, Content: "inner"},
		"list":     []any{true, nil},
	})
	require.NoError(t, err)

	value, err := New().Decode(data)
	require.NoError(t, err)

	require.Equal(t, typemap.Mapping(
		typemap.Pair("bytes", typemap.String("raw")),
		typemap.Pair("huge", typemap.Number("123456789012345678901234567890")),
		typemap.Pair("list", typemap.Sequence(typemap.Bool(true), typemap.Null())),
		typemap.Pair("name", typemap.String("typemap")),
		typemap.Pair("negative", typemap.Int(-7)),
		typemap.Pair("ratio", typemap.Number("1.5")),
		typemap.Pair("tagged", typemap.String("inner")),
	), value)
}

func TestDecodeStruct(t *testing.T) {
	type Grant struct {
		Actions []string `json:"actions"`
		Targets []string `json:"targets"`
	}

	type Token struct {
		Subject string  `json:"sub"`
		Expires int64   `json:"exp"`
		Grants  []Grant `json:"grants"`
	}

	data, err := cbor.Marshal(map[string]any{
		"sub": "agent/alice",
		"exp": uint64(1700000000),
		"grants": []any{
			map[string]any{"actions": []string{"read"}, "targets": []string{"room/*"}},
		},
	})
	require.NoError(t, err)

	token, err := typemap.Decode[Token](New(), data)
	require.NoError(t, err)
	require.Equal(t, token, Token{
		Subject: "agent/alice",
		Expires: 1700000000,
		Grants: []Grant{
			{Actions: []string{"read"}, Targets: []string{"room/*"}},
		},
	})
}

func TestDecodeInvalid(t *testing.T) {
	_, err := New().Decode([]byte{0xff})
	require.Error(t, err)

	// maps with integer keys can not be decoded into map[string]any
	data, err := cbor.Marshal(map[int]string{1: "one"})
	require.NoError(t, err)

	_, err = New().Decode(data)
	require.Error(t, err)
}
