package typemap

import (
	"encoding"
	"reflect"
	"time"
)

// Descriptor describes how a field value is coerced. It is one of [Scalar], [Temporal],
// [ArrayOfUnknown], [NamedType], [ArrayOf], [MapOf] or [Dynamic].
type Descriptor interface {
	// GoType returns the type of the values produced for this descriptor.
	// Pointers are added by the mapper when assigning to a pointer field.
	GoType() reflect.Type

	// String returns the declared type name, e.g. "int", "DateTime" or "Address[]".
	String() string

	isDescriptor()
}

type ScalarKind uint8

const (
	ScalarString ScalarKind = iota + 1
	ScalarInt
	ScalarUint
	ScalarFloat
	ScalarBool

	// ScalarText casts to a string and passes it to encoding.TextUnmarshaler
	ScalarText
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarInt:
		return "int"
	case ScalarUint:
		return "uint"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarText:
		return "text"
	default:
		return "invalid"
	}
}

// Scalar casts primitive values into Type, which is a type of the given Kind.
type Scalar struct {
	Kind ScalarKind
	Type reflect.Type
}

// Temporal parses a string in [TemporalLayout] into a time.Time.
type Temporal struct{}

// ArrayOfUnknown copies a sequence into a slice or array of `any`. Nested
// sequences and mappings become []any and map[string]any.
type ArrayOfUnknown struct {
	Type reflect.Type
}

// NamedType recursively maps a mapping into a new instance of the struct Type.
// Type is nil if the name could not be resolved, in which case values are cast
// to a string.
type NamedType struct {
	Name string
	Type reflect.Type
}

// ArrayOf maps every element of a sequence using Elem.
type ArrayOf struct {
	Name string
	Elem Descriptor
	Type reflect.Type
}

// MapOf maps every member of a mapping into a string keyed go map using Elem.
type MapOf struct {
	Elem Descriptor
	Type reflect.Type
}

// Dynamic passes values through in their plain go shape, see [Value.Interface].
// It describes `any` typed elements of slices and maps.
type Dynamic struct{}

var (
	tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
	tyTime            = reflect.TypeFor[time.Time]()
	tyString          = reflect.TypeFor[string]()
	tyInt             = reflect.TypeFor[int]()
	tyFloat           = reflect.TypeFor[float64]()
	tyBool            = reflect.TypeFor[bool]()
	tyAny             = reflect.TypeFor[any]()
	tyAnySlice        = reflect.TypeFor[[]any]()
)

func (d Scalar) GoType() reflect.Type         { return d.Type }
func (d Temporal) GoType() reflect.Type       { return tyTime }
func (d ArrayOfUnknown) GoType() reflect.Type { return d.Type }
func (d ArrayOf) GoType() reflect.Type        { return d.Type }
func (d MapOf) GoType() reflect.Type          { return d.Type }
func (d Dynamic) GoType() reflect.Type        { return tyAny }

func (d NamedType) GoType() reflect.Type {
	if d.Type == nil {
		return tyString
	}

	return d.Type
}

func (d Scalar) String() string         { return d.Kind.String() }
func (d Temporal) String() string       { return "DateTime" }
func (d ArrayOfUnknown) String() string { return "array" }
func (d NamedType) String() string      { return d.Name }
func (d ArrayOf) String() string        { return d.Name + "[]" }
func (d MapOf) String() string          { return "map[string]" + d.Elem.String() }
func (d Dynamic) String() string        { return "mixed" }

func (Scalar) isDescriptor()         {}
func (Temporal) isDescriptor()       {}
func (ArrayOfUnknown) isDescriptor() {}
func (NamedType) isDescriptor()      {}
func (ArrayOf) isDescriptor()        {}
func (MapOf) isDescriptor()          {}
func (Dynamic) isDescriptor()        {}

// describe derives the Descriptor for a statically declared go type.
// Returns false for types that can not be mapped to, like channels or functions.
func describe(ty reflect.Type) (Descriptor, bool) {
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	// time.Time implements TextUnmarshaler too, but only accepts RFC 3339
	if ty == tyTime {
		return Temporal{}, true
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return Scalar{Kind: ScalarText, Type: ty}, true
	}

	switch ty.Kind() {
	case reflect.String:
		return Scalar{Kind: ScalarString, Type: ty}, true

	case reflect.Bool:
		return Scalar{Kind: ScalarBool, Type: ty}, true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar{Kind: ScalarInt, Type: ty}, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Scalar{Kind: ScalarUint, Type: ty}, true

	case reflect.Float32, reflect.Float64:
		return Scalar{Kind: ScalarFloat, Type: ty}, true

	case reflect.Struct:
		return NamedType{Name: typeName(ty), Type: ty}, true

	case reflect.Slice, reflect.Array:
		if isAny(ty.Elem()) {
			return ArrayOfUnknown{Type: ty}, true
		}

		elem, ok := describe(ty.Elem())
		if !ok {
			return nil, false
		}

		return ArrayOf{Name: elem.String(), Elem: elem, Type: ty}, true

	case reflect.Map:
		if ty.Key().Kind() != reflect.String {
			return nil, false
		}

		if isAny(ty.Elem()) {
			return MapOf{Elem: Dynamic{}, Type: ty}, true
		}

		elem, ok := describe(ty.Elem())
		if !ok {
			return nil, false
		}

		return MapOf{Elem: elem, Type: ty}, true

	case reflect.Interface:
		if isAny(ty) {
			return Dynamic{}, true
		}

		return nil, false

	default:
		return nil, false
	}
}

// describePrimitive maps the primitive type names accepted in annotations.
func describePrimitive(name string) (Descriptor, bool) {
	switch name {
	case "string":
		return Scalar{Kind: ScalarString, Type: tyString}, true
	case "int", "integer":
		return Scalar{Kind: ScalarInt, Type: tyInt}, true
	case "float", "double":
		return Scalar{Kind: ScalarFloat, Type: tyFloat}, true
	case "bool", "boolean":
		return Scalar{Kind: ScalarBool, Type: tyBool}, true
	case "array":
		return ArrayOfUnknown{Type: tyAnySlice}, true
	case "DateTime", "time.Time":
		return Temporal{}, true
	case "mixed", "any":
		return Dynamic{}, true
	default:
		return nil, false
	}
}

func isAny(ty reflect.Type) bool {
	return ty.Kind() == reflect.Interface && ty.NumMethod() == 0
}

func typeName(ty reflect.Type) string {
	if ty.Name() != "" {
		return ty.Name()
	}

	return ty.String()
}
