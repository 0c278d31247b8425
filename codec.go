package typemap

import "context"

// Codec decodes a serialized document into a [Value].
// Implementations for common formats live in the codec sub packages.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Decode parses data into a Value.
	Decode(data []byte) (Value, error)
}

// Decode parses data using codec and maps the result onto a new T using the
// default Mapper. Codec failures are returned as a *DecodeError.
func Decode[T any](codec Codec, data []byte) (T, error) {
	return DecodeWith[T](context.Background(), mapper, codec, data)
}

func DecodeWith[T any](ctx context.Context, m *Mapper, codec Codec, data []byte) (T, error) {
	value, err := codec.Decode(data)
	if err != nil {
		var zero T
		return zero, &DecodeError{ContentType: codec.ContentType(), Cause: err}
	}

	return MapWith[T](ctx, m, value)
}
