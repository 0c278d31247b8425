// Package cbor provides a CBOR codec. Maps must have text keys.
package cbor

import (
	"fmt"
	"maps"
	"math/big"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-gum/typemap"
)

// decMode decodes maps into map[string]any, as the mapper only knows
// string keys.
var decMode cbor.DecMode

func init() {
	var err error

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// cborCodec implements typemap.Codec for CBOR.
type cborCodec struct{}

// New returns a CBOR codec.
func New() typemap.Codec {
	return &cborCodec{}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Decode parses a single CBOR data item. Tags other than date times are
// replaced by their content and bignums become numbers.
func (c *cborCodec) Decode(data []byte) (typemap.Value, error) {
	var decoded any
	if err := decMode.Unmarshal(data, &decoded); err != nil {
		return typemap.Value{}, err
	}

	return valueOf(decoded)
}

func valueOf(decoded any) (typemap.Value, error) {
	switch decoded := decoded.(type) {
	case cbor.Tag:
		return valueOf(decoded.Content)

	case big.Int:
		return typemap.Number(decoded.String()), nil

	case *big.Int:
		return typemap.Number(decoded.String()), nil

	case cbor.SimpleValue:
		return typemap.Null(), nil

	case []any:
		items := make([]typemap.Value, 0, len(decoded))
		for idx, item := range decoded {
			value, err := valueOf(item)
			if err != nil {
				return typemap.Value{}, fmt.Errorf("item idx=%d: %w", idx, err)
			}

			items = append(items, value)
		}

		return typemap.Sequence(items...), nil

	case map[string]any:
		members := make([]typemap.Member, 0, len(decoded))
		for _, key := range slices.Sorted(maps.Keys(decoded)) {
			value, err := valueOf(decoded[key])
			if err != nil {
				return typemap.Value{}, fmt.Errorf("member %q: %w", key, err)
			}

			members = append(members, typemap.Pair(key, value))
		}

		return typemap.Mapping(members...), nil

	default:
		return typemap.FromAny(decoded)
	}
}
