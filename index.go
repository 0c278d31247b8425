package typemap

import (
	"context"
	"reflect"
	"strings"
)

// Index maps the field names of a struct type to their [Descriptor].
// An Index is immutable and only depends on the declaration of its type.
type Index struct {
	Type reflect.Type

	fields []IndexedField
	byName map[string]int
}

type IndexedField struct {
	Name       string
	Index      []int
	Descriptor Descriptor
}

// Lookup returns the indexed field with the given name.
func (i *Index) Lookup(name string) (IndexedField, bool) {
	pos, ok := i.byName[name]
	if !ok {
		return IndexedField{}, false
	}

	return i.fields[pos], true
}

// Fields returns the indexed fields in declaration order.
func (i *Index) Fields() []IndexedField {
	return append([]IndexedField(nil), i.fields...)
}

func (i *Index) Len() int {
	return len(i.fields)
}

// Index returns the field index of the struct type ty.
func (m *Mapper) Index(ty reflect.Type) (*Index, error) {
	if ty == nil || ty.Kind() != reflect.Struct {
		return nil, NotSupportedError{Type: ty}
	}

	return m.indexOf(context.Background(), ty), nil
}

// indexKey identifies a cached index. Annotation types resolve through the
// registry, so an index is only valid for the registry generation it was built with.
type indexKey struct {
	ty         reflect.Type
	generation uint64
}

// indexOf returns the cached index of ty, building it on first use. Concurrent
// builds for the same type are harmless, the first one stored wins.
func (m *Mapper) indexOf(ctx context.Context, ty reflect.Type) *Index {
	key := indexKey{ty: ty, generation: m.registry.Generation()}
	if cached, ok := m.indexCache.Load(key); ok {
		return cached.(*Index)
	}

	index := m.buildIndex(ctx, ty)

	actual, loaded := m.indexCache.LoadOrStore(key, index)
	if !loaded {
		emitIndexBuilt(ctx, ty.String(), index.Len())
	}

	return actual.(*Index)
}

func (m *Mapper) buildIndex(ctx context.Context, ty reflect.Type) *Index {
	index := &Index{
		Type:   ty,
		byName: map[string]int{},
	}

	for _, field := range m.introspector.Fields(ty) {
		descriptor, declared, ok := m.describeField(field)
		if !ok {
			emitFieldSkipped(ctx, ty.String(), field.Name, declared)
			continue
		}

		index.byName[field.Name] = len(index.fields)
		index.fields = append(index.fields, IndexedField{
			Name:       field.Name,
			Index:      field.Index,
			Descriptor: descriptor,
		})
	}

	return index
}

// describeField derives the descriptor of a field from its static type, falling
// back to the "var" annotation of its documentation and finally to a string.
// If the field can not be indexed, declared names the offending type.
func (m *Mapper) describeField(field FieldInfo) (_ Descriptor, declared string, _ bool) {
	if field.Declared != nil {
		descriptor, ok := describe(field.Declared)
		return descriptor, field.Declared.String(), ok
	}

	annotation, ok := m.annotations.ParseAnnotations(field.Doc)["var"]
	if !ok {
		return Scalar{Kind: ScalarString, Type: tyString}, "", true
	}

	descriptor, ok := m.describeName(annotation.Type)
	return descriptor, annotation.Type, ok
}

// describeName resolves a type name from an annotation, e.g. "int", "Address"
// or "Address[]".
func (m *Mapper) describeName(name string) (Descriptor, bool) {
	if elemName, ok := strings.CutSuffix(name, "[]"); ok {
		elem, ok := m.describeName(elemName)
		if !ok {
			return nil, false
		}

		return ArrayOf{
			Name: absoluteName(elemName),
			Elem: elem,
			Type: reflect.SliceOf(elem.GoType()),
		}, true
	}

	if descriptor, ok := describePrimitive(name); ok {
		return descriptor, true
	}

	ty, ok := m.registry.Resolve(name)
	if !ok {
		return nil, false
	}

	return describe(ty)
}
