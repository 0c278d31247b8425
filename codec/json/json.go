// Package json provides a JSON codec. Objects keep the order of their keys and
// numbers keep their literal text, so large integers are not rounded.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-gum/typemap"
)

// ErrTrailingData is returned for input with more than one JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// jsonCodec implements typemap.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() typemap.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Decode parses a single JSON value.
func (c *jsonCodec) Decode(data []byte) (typemap.Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeValue(decoder, 0)
	if err != nil {
		return typemap.Value{}, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return typemap.Value{}, ErrTrailingData
	}

	return value, nil
}

// decodeValue reads the next value. depth is the number of enclosing arrays and
// objects, limited to typemap.MaxInputDepth.
func decodeValue(decoder *json.Decoder, depth int) (typemap.Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return typemap.Value{}, err
	}

	switch token := token.(type) {
	case nil:
		return typemap.Null(), nil

	case bool:
		return typemap.Bool(token), nil

	case json.Number:
		return typemap.Number(token.String()), nil

	case string:
		return typemap.String(token), nil

	case json.Delim:
		if depth >= typemap.MaxInputDepth && (token == '[' || token == '{') {
			return typemap.Value{}, fmt.Errorf("%w at offset %d", typemap.ErrTooDeep, decoder.InputOffset())
		}

		switch token {
		case '[':
			return decodeArray(decoder, depth+1)
		case '{':
			return decodeObject(decoder, depth+1)
		}
	}

	return typemap.Value{}, fmt.Errorf("unexpected token %v at offset %d", token, decoder.InputOffset())
}

func decodeArray(decoder *json.Decoder, depth int) (typemap.Value, error) {
	var items []typemap.Value

	for decoder.More() {
		item, err := decodeValue(decoder, depth)
		if err != nil {
			return typemap.Value{}, err
		}

		items = append(items, item)
	}

	// closing bracket
	if _, err := decoder.Token(); err != nil {
		return typemap.Value{}, err
	}

	return typemap.Sequence(items...), nil
}

func decodeObject(decoder *json.Decoder, depth int) (typemap.Value, error) {
	var members []typemap.Member

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return typemap.Value{}, err
		}

		// the decoder only yields strings in key position
		key, _ := token.(string)

		value, err := decodeValue(decoder, depth)
		if err != nil {
			return typemap.Value{}, fmt.Errorf("key %q: %w", key, err)
		}

		members = append(members, typemap.Pair(key, value))
	}

	// closing brace
	if _, err := decoder.Token(); err != nil {
		return typemap.Value{}, err
	}

	return typemap.Mapping(members...), nil
}
