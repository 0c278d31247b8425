package typemap

import (
	"context"
	"reflect"
	"sync"
)

// DefaultMaxDepth is the default limit for nested objects, see [Mapper.WithMaxDepth].
const DefaultMaxDepth = 512

// The default Mapper instance.
var mapper = NewMapper()

// Mapper maps [Value] instances onto go structs. It caches the field [Index] of every
// type it has seen. A Mapper is safe for concurrent use.
type Mapper struct {
	introspector Introspector
	annotations  AnnotationParser
	registry     *Registry

	// maximum number of nested objects, deeper objects are not mapped
	maxDepth int

	// Cache for field indices, indexed by indexKey
	indexCache sync.Map
}

func NewMapper() *Mapper {
	return &Mapper{
		introspector: StructTagIntrospector{NameTag: "json", DocTag: "doc"},
		annotations:  DocParser{},
		registry:     NewRegistry(),
		maxDepth:     DefaultMaxDepth,
	}
}

// derive returns a copy of m with an empty index cache. The registry is shared.
func (m *Mapper) derive(configure func(*Mapper)) *Mapper {
	derived := &Mapper{
		introspector: m.introspector,
		annotations:  m.annotations,
		registry:     m.registry,
		maxDepth:     m.maxDepth,
	}

	configure(derived)

	return derived
}

// WithTag returns a Mapper that takes field names from the given struct tag
// instead of "json". It replaces a custom Introspector.
func (m *Mapper) WithTag(nameTag string) *Mapper {
	introspector, ok := m.introspector.(StructTagIntrospector)
	if ok && introspector.NameTag == nameTag {
		return m
	}

	if !ok {
		introspector = StructTagIntrospector{DocTag: "doc"}
	}

	introspector.NameTag = nameTag

	return m.derive(func(d *Mapper) { d.introspector = introspector })
}

// WithDocTag returns a Mapper that reads field documentation from the given struct
// tag instead of "doc". It replaces a custom Introspector.
func (m *Mapper) WithDocTag(docTag string) *Mapper {
	introspector, ok := m.introspector.(StructTagIntrospector)
	if ok && introspector.DocTag == docTag {
		return m
	}

	if !ok {
		introspector = StructTagIntrospector{NameTag: "json"}
	}

	introspector.DocTag = docTag

	return m.derive(func(d *Mapper) { d.introspector = introspector })
}

func (m *Mapper) WithIntrospector(introspector Introspector) *Mapper {
	return m.derive(func(d *Mapper) { d.introspector = introspector })
}

func (m *Mapper) WithAnnotationParser(parser AnnotationParser) *Mapper {
	return m.derive(func(d *Mapper) { d.annotations = parser })
}

// WithRegistry returns a Mapper resolving annotation type names using registry.
// A nil registry is replaced by an empty one.
func (m *Mapper) WithRegistry(registry *Registry) *Mapper {
	if registry == nil {
		registry = NewRegistry()
	}

	if m.registry == registry {
		return m
	}

	return m.derive(func(d *Mapper) { d.registry = registry })
}

// WithMaxDepth returns a Mapper that stops at the given number of nested objects.
// Deeper objects are left at their zero value. Values below one are ignored.
func (m *Mapper) WithMaxDepth(maxDepth int) *Mapper {
	if maxDepth < 1 || maxDepth == m.maxDepth {
		return m
	}

	return m.derive(func(d *Mapper) { d.maxDepth = maxDepth })
}

// Registry returns the registry used to resolve annotation type names.
func (m *Mapper) Registry() *Registry {
	return m.registry
}

// Map creates a new T from input using the default Mapper. T must be a struct
// or a pointer to a struct.
func Map[T any](input Value) (T, error) {
	return MapWith[T](context.Background(), mapper, input)
}

// MapAny converts input using [FromAny] and maps the result onto a new T.
func MapAny[T any](input any) (T, error) {
	value, err := FromAny(input)
	if err != nil {
		var zero T
		return zero, err
	}

	return Map[T](value)
}

// MapWith creates a new T from input using the given Mapper. Signals emitted
// during mapping carry ctx.
func MapWith[T any](ctx context.Context, m *Mapper, input Value) (T, error) {
	var target T
	err := m.MapInto(ctx, input, &target)
	return target, err
}

// MapInto maps input onto a new instance and stores it in target, which must be a
// non-nil pointer to a struct or to a pointer to a struct. Existing field values
// of target are not kept.
func MapInto(input Value, target any) error {
	return mapper.MapInto(context.Background(), input, target)
}

func (m *Mapper) MapInto(ctx context.Context, input Value, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() {
		return ErrInvalidTarget
	}

	targetValue = targetValue.Elem()

	ty := targetValue.Type()
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	instance, err := m.MapObjectToType(ctx, ty, input)
	if err != nil {
		return err
	}

	assign(targetValue, instance)

	return nil
}

// MapObjectToType creates a new instance of the struct type ty and fills every field
// that has a key in input. If input is not a mapping, the zero instance is returned.
// Returns a NotSupportedError if ty is not a struct.
func (m *Mapper) MapObjectToType(ctx context.Context, ty reflect.Type, input Value) (reflect.Value, error) {
	if ty == nil || ty.Kind() != reflect.Struct {
		return reflect.Value{}, NotSupportedError{Type: ty}
	}

	instance, ok := m.mapObject(state{ctx: ctx}, ty, input)
	if !ok {
		return reflect.New(ty).Elem(), nil
	}

	return instance, nil
}

// state is passed down the recursion of a single Map call.
type state struct {
	ctx   context.Context
	depth int
}

func (m *Mapper) mapObject(st state, ty reflect.Type, input Value) (reflect.Value, bool) {
	if input.Kind() != KindMapping {
		return reflect.Value{}, false
	}

	if st.depth >= m.maxDepth {
		emitDepthExceeded(st.ctx, ty.String(), st.depth)
		return reflect.Value{}, false
	}

	st.depth++

	index := m.indexOf(st.ctx, ty)
	instance := reflect.New(ty).Elem()

	for key, value := range input.Members() {
		field, ok := index.Lookup(key)
		if !ok {
			continue
		}

		target := instance.FieldByIndex(field.Index)
		if value.IsNull() && isNillable(target.Type()) {
			continue
		}

		coerced, ok := m.mapValue(st, field.Descriptor, value)
		if ok {
			ok = assign(target, coerced)
		}

		if !ok && !value.IsNull() {
			emitValueDegraded(st.ctx, ty.String(), key, field.Descriptor.String(), value.Kind())
		}
	}

	return instance, true
}

// mapValue coerces value as described by d. Returns false if the value
// can not be coerced, in which case the destination keeps its zero value.
func (m *Mapper) mapValue(st state, d Descriptor, value Value) (reflect.Value, bool) {
	switch d := d.(type) {
	case ArrayOfUnknown:
		return mapUnknownSequence(d, value)

	case Scalar:
		return castScalar(d, value)

	case Temporal:
		return parseTemporal(value)

	case NamedType:
		if d.Type == nil {
			return castScalar(Scalar{Kind: ScalarString, Type: tyString}, value)
		}

		return m.mapObject(st, d.Type, value)

	case ArrayOf:
		return m.mapSequence(st, d, value)

	case MapOf:
		return m.mapMembers(st, d, value)

	case Dynamic:
		if value.IsNull() {
			return reflect.Value{}, false
		}

		return reflect.ValueOf(value.Interface()), true

	default:
		return reflect.Value{}, false
	}
}

// mapSequence maps every item of a sequence. Items that can not be coerced keep
// their position as the zero value of the element type.
func (m *Mapper) mapSequence(st state, d ArrayOf, value Value) (reflect.Value, bool) {
	if value.Kind() != KindSequence {
		return reflect.Value{}, false
	}

	elementType := d.Type.Elem()

	elements := make([]reflect.Value, 0, value.Len())
	for item := range value.Items() {
		element := reflect.New(elementType).Elem()
		if item.IsNull() && isNillable(elementType) {
			elements = append(elements, element)
			continue
		}

		if coerced, ok := m.mapValue(st, d.Elem, item); ok {
			assign(element, coerced)
		}

		elements = append(elements, element)
	}

	return collect(d.Type, elements), true
}

func (m *Mapper) mapMembers(st state, d MapOf, value Value) (reflect.Value, bool) {
	if value.Kind() != KindMapping {
		return reflect.Value{}, false
	}

	target := reflect.MakeMapWithSize(d.Type, value.Len())

	for key, member := range value.Members() {
		element := reflect.New(d.Type.Elem()).Elem()
		if !member.IsNull() || !isNillable(element.Type()) {
			if coerced, ok := m.mapValue(st, d.Elem, member); ok {
				assign(element, coerced)
			}
		}

		keyValue := reflect.New(d.Type.Key()).Elem()
		keyValue.SetString(key)

		target.SetMapIndex(keyValue, element)
	}

	return target, true
}

// mapUnknownSequence copies a sequence into a slice of `any`, using the plain go
// representation of every item.
func mapUnknownSequence(d ArrayOfUnknown, value Value) (reflect.Value, bool) {
	if value.Kind() != KindSequence {
		return reflect.Value{}, false
	}

	elementType := d.Type.Elem()

	elements := make([]reflect.Value, 0, value.Len())
	for item := range value.Items() {
		element := reflect.New(elementType).Elem()
		if plain := item.Interface(); plain != nil {
			element.Set(reflect.ValueOf(plain))
		}

		elements = append(elements, element)
	}

	return collect(d.Type, elements), true
}

// collect builds a value of the slice or array type ty. Arrays take as many
// elements as they can hold.
func collect(ty reflect.Type, elements []reflect.Value) reflect.Value {
	if ty.Kind() == reflect.Array {
		target := reflect.New(ty).Elem()
		for idx := 0; idx < ty.Len() && idx < len(elements); idx++ {
			target.Index(idx).Set(elements[idx])
		}

		return target
	}

	target := reflect.MakeSlice(ty, 0, len(elements))
	return reflect.Append(target, elements...)
}

// isNillable reports whether null input leaves a destination of type ty at nil
// instead of casting the null.
func isNillable(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	default:
		return false
	}
}

// assign stores value in target, allocating pointers on the way if target is
// a (possibly nested) pointer to the type of value.
func assign(target reflect.Value, value reflect.Value) bool {
	if value.Type().AssignableTo(target.Type()) {
		target.Set(value)
		return true
	}

	if target.Kind() == reflect.Pointer {
		pointee := reflect.New(target.Type().Elem())
		if !assign(pointee.Elem(), value) {
			return false
		}

		target.Set(pointee)
		return true
	}

	return false
}
