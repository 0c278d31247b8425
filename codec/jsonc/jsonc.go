// Package jsonc provides a codec for JSON with comments and trailing commas,
// as found in hand written configuration files.
package jsonc

import (
	"github.com/tidwall/jsonc"

	"github.com/go-gum/typemap"
	"github.com/go-gum/typemap/codec/json"
)

// jsoncCodec implements typemap.Codec for JSONC.
type jsoncCodec struct {
	json typemap.Codec
}

// New returns a JSONC codec.
func New() typemap.Codec {
	return &jsoncCodec{json: json.New()}
}

// ContentType returns the MIME type for JSONC.
func (c *jsoncCodec) ContentType() string {
	return "application/jsonc"
}

// Decode strips comments and trailing commas from data and parses the
// remaining JSON.
func (c *jsoncCodec) Decode(data []byte) (typemap.Value, error) {
	return c.json.Decode(jsonc.ToJSON(data))
}
