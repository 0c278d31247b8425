// Package typemap maps loosely typed, decoded data onto Go types at runtime.
//
// The input is a [Value]: null, bool, number, string, sequence or mapping, the shape
// every self-describing format (JSON, YAML, MessagePack, CBOR, BSON) decodes into.
// [Map] builds an [Index] of the target struct once per type, then walks the keys of
// the input mapping and coerces every value the index knows about: scalars are cast,
// `time.Time` fields are parsed from the `2006-01-02T15:04:05` layout, nested structs
// and slices of structs are mapped recursively.
//
// Mapping is best effort. A value that cannot be coerced leaves its field at the zero
// value, unknown keys are ignored and missing keys are never an error. The only
// failure reported to the caller is a target type that is not a struct.
//
// Fields declared as `any` have no static type. For those, the mapper reads the
// `doc` struct tag and looks for a `@var` annotation naming a type registered with
// [Register]:
//
//	type Order struct {
//	    ID    int
//	    Lines any `doc:"@var OrderLine[] the ordered items"`
//	}
//
// Without an annotation such a field receives the value cast to a string.
package typemap
