package typemap

import (
	"reflect"
	"slices"
	"strings"
)

// FieldInfo describes a single field of a struct as seen by an [Introspector].
type FieldInfo struct {
	// Name is the key the field is looked up by in the input mapping
	Name string

	// Index is the path to the field for reflect.Value.FieldByIndex
	Index []int

	// Type is the type of the field
	Type reflect.Type

	// Declared is the statically declared type of the field, or nil if
	// the field has none (interface typed fields)
	Declared reflect.Type

	// Doc is the documentation text attached to the field, may be empty
	Doc string
}

// Introspector enumerates the fields of a struct type.
// Implementations must be safe for concurrent use.
type Introspector interface {
	Fields(ty reflect.Type) []FieldInfo
}

// StructTagIntrospector is the default [Introspector]. It names fields after the
// NameTag struct tag (or the go field name), promotes fields of embedded structs
// using the same visibility rules as encoding/json and reads documentation from
// the DocTag struct tag.
type StructTagIntrospector struct {
	NameTag string
	DocTag  string
}

func (s StructTagIntrospector) Fields(ty reflect.Type) []FieldInfo {
	nameTag := s.NameTag
	if nameTag == "" {
		nameTag = "json"
	}

	docTag := s.DocTag
	if docTag == "" {
		docTag = "doc"
	}

	var fields []FieldInfo
	for _, name := range collectCandidates(ty, nameTag) {
		field, ok := name.winner()
		if !ok {
			// ambiguous name, none of the candidates is used
			continue
		}

		structField := ty.FieldByIndex(field.Index)
		field.Doc = structField.Tag.Get(docTag)

		if field.Type.Kind() != reflect.Interface {
			field.Declared = field.Type
		}

		fields = append(fields, field)
	}

	return fields
}

type candidate struct {
	Explicit bool
	Field    FieldInfo
}

// candidates holds every field competing for the same name, sorted by nesting depth.
type candidates []candidate

// collectCandidates walks ty and its embedded structs breadth first and groups
// all fields by their name, in order of their first appearance.
func collectCandidates(ty reflect.Type, nameTag string) []candidates {
	type queued struct {
		Type        reflect.Type
		ParentIndex []int
	}

	queue := []queued{{Type: ty}}

	byName := map[string]int{}

	var grouped []candidates

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := range item.Type.NumField() {
			fi := item.Type.Field(idx)
			if !fi.IsExported() {
				continue
			}

			name, explicit := nameOf(fi, nameTag)
			if name == "" {
				continue
			}

			// allocate a new slice for every index, parents are shared
			parent := item.ParentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !explicit {
				// only embedded structs are promoted, embedded pointers are skipped
				// as FieldByIndex can not walk through a nil pointer
				if fi.Type.Kind() == reflect.Struct {
					queue = append(queue, queued{fi.Type, index})
				}

				continue
			}

			pos, seen := byName[name]
			if !seen {
				pos = len(grouped)
				byName[name] = pos
				grouped = append(grouped, nil)
			}

			grouped[pos] = append(grouped[pos], candidate{
				Explicit: explicit,
				Field: FieldInfo{
					Name:  name,
					Index: index,
					Type:  fi.Type,
				},
			})
		}
	}

	return grouped
}

// winner picks the field that is visible under this name: the single shallowest
// candidate, or the single explicitly tagged one among the shallowest.
func (c candidates) winner() (FieldInfo, bool) {
	// INVARIANT: the breadth first walk appends candidates ordered by depth
	depth := func(a, b candidate) int { return len(a.Field.Index) - len(b.Field.Index) }
	if !slices.IsSortedFunc(c, depth) {
		panic("candidates are not sorted")
	}

	shallowest := len(c[0].Field.Index)

	visible := c
	for idx, cand := range c {
		if len(cand.Field.Index) != shallowest {
			visible = c[:idx]
			break
		}
	}

	if len(visible) == 1 {
		return visible[0].Field, true
	}

	var explicit []candidate
	for _, cand := range visible {
		if cand.Explicit {
			explicit = append(explicit, cand)
		}
	}

	if len(explicit) == 1 {
		return explicit[0].Field, true
	}

	return FieldInfo{}, false
}

// nameOf returns the key of a field. An empty name means the field is skipped.
func nameOf(fi reflect.StructField, nameTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(nameTag)

	switch {
	case tag == "":
		return fi.Name, false

	case tag == "-":
		return "", true
	}

	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		// only options like `json:",omitempty"`, keep the go name
		return fi.Name, false
	}

	return name, true
}
