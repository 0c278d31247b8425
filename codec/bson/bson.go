// Package bson provides a BSON codec. Documents keep the order of their keys.
package bson

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/go-gum/typemap"
)

// bsonCodec implements typemap.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() typemap.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Decode parses a single BSON document.
func (c *bsonCodec) Decode(data []byte) (typemap.Value, error) {
	var document bson.D
	if err := bson.Unmarshal(data, &document); err != nil {
		return typemap.Value{}, err
	}

	return valueOf(document)
}

// valueOf converts the values produced by the bson package. Object ids become
// their hex string, date times are rendered like time.Time values, decimals and
// timestamps become numbers. Binary data and regular expressions keep their
// content as a string.
func valueOf(decoded any) (typemap.Value, error) {
	switch decoded := decoded.(type) {
	case primitive.D:
		members := make([]typemap.Member, 0, len(decoded))
		for _, element := range decoded {
			value, err := valueOf(element.Value)
			if err != nil {
				return typemap.Value{}, fmt.Errorf("member %q: %w", element.Key, err)
			}

			members = append(members, typemap.Pair(element.Key, value))
		}

		return typemap.Mapping(members...), nil

	case primitive.M:
		members := make([]typemap.Member, 0, len(decoded))
		for _, key := range slices.Sorted(maps.Keys(decoded)) {
			value, err := valueOf(decoded[key])
			if err != nil {
				return typemap.Value{}, fmt.Errorf("member %q: %w", key, err)
			}

			members = append(members, typemap.Pair(key, value))
		}

		return typemap.Mapping(members...), nil

	case primitive.A:
		items := make([]typemap.Value, 0, len(decoded))
		for idx, item := range decoded {
			value, err := valueOf(item)
			if err != nil {
				return typemap.Value{}, fmt.Errorf("item idx=%d: %w", idx, err)
			}

			items = append(items, value)
		}

		return typemap.Sequence(items...), nil

	case primitive.DateTime:
		return typemap.FromAny(decoded.Time().UTC())

	case primitive.Timestamp:
		return typemap.Uint(uint64(decoded.T)), nil

	case primitive.ObjectID:
		return typemap.String(decoded.Hex()), nil

	case primitive.Decimal128:
		if decoded.IsNaN() || decoded.IsInf() != 0 {
			return typemap.Null(), nil
		}

		return typemap.Number(decoded.String()), nil

	case primitive.Binary:
		return typemap.String(string(decoded.Data)), nil

	case primitive.Regex:
		return typemap.String(decoded.Pattern), nil

	case primitive.JavaScript:
		return typemap.String(string(decoded)), nil

	case primitive.Symbol:
		return typemap.String(string(decoded)), nil

	case primitive.Null, primitive.Undefined, primitive.MinKey, primitive.MaxKey:
		return typemap.Null(), nil

	case time.Time:
		return typemap.FromAny(decoded.UTC())

	default:
		return typemap.FromAny(decoded)
	}
}
