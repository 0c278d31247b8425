// Package msgpack provides a MessagePack codec.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-gum/typemap"
)

// msgpackCodec implements typemap.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() typemap.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Decode parses a single MessagePack value. Maps must have string keys,
// binary data is converted to a string.
func (c *msgpackCodec) Decode(data []byte) (typemap.Value, error) {
	reader := bytes.NewReader(data)

	decoder := msgpack.NewDecoder(reader)
	decoder.UseLooseInterfaceDecoding(true)

	decoded, err := decoder.DecodeInterface()
	if err != nil {
		return typemap.Value{}, err
	}

	if reader.Len() > 0 {
		return typemap.Value{}, fmt.Errorf("%d bytes of trailing data", reader.Len())
	}

	return typemap.FromAny(decoded)
}
