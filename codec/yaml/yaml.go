// Package yaml provides a YAML codec. Mappings keep the order of their keys,
// aliases are expanded and merge keys (`<<`) are applied.
package yaml

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-gum/typemap"
)

// ErrRecursiveAlias is returned for an alias that refers to one of its parents.
var ErrRecursiveAlias = errors.New("recursive alias")

// yamlCodec implements typemap.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() typemap.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Decode parses the first document in data. An empty document is null.
func (c *yamlCodec) Decode(data []byte) (typemap.Value, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return typemap.Value{}, err
	}

	return valueOf(&document, map[*yaml.Node]bool{})
}

// valueOf converts node. visiting holds the alias targets currently being expanded.
func valueOf(node *yaml.Node, visiting map[*yaml.Node]bool) (typemap.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return typemap.Null(), nil
		}

		return valueOf(node.Content[0], visiting)

	case yaml.AliasNode:
		if visiting[node.Alias] {
			return typemap.Value{}, fmt.Errorf("line %d: %w", node.Line, ErrRecursiveAlias)
		}

		visiting[node.Alias] = true
		defer delete(visiting, node.Alias)

		return valueOf(node.Alias, visiting)

	case yaml.SequenceNode:
		items := make([]typemap.Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := valueOf(child, visiting)
			if err != nil {
				return typemap.Value{}, err
			}

			items = append(items, item)
		}

		return typemap.Sequence(items...), nil

	case yaml.MappingNode:
		members, err := membersOf(node, visiting)
		if err != nil {
			return typemap.Value{}, err
		}

		return typemap.Mapping(members...), nil

	case yaml.ScalarNode:
		return scalarOf(node)

	default:
		return typemap.Null(), nil
	}
}

// membersOf returns the key value pairs of a mapping node. Merged members come
// first, so that keys of the mapping itself override them.
func membersOf(node *yaml.Node, visiting map[*yaml.Node]bool) ([]typemap.Member, error) {
	var merged, members []typemap.Member

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]

		value, err := valueOf(valueNode, visiting)
		if err != nil {
			return nil, err
		}

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			merged = append(merged, mergeMembers(value)...)
			continue
		}

		key, err := keyOf(keyNode)
		if err != nil {
			return nil, err
		}

		members = append(members, typemap.Pair(key, value))
	}

	return append(merged, members...), nil
}

// mergeMembers returns the members to merge for the value of a merge key,
// either a single mapping or a sequence of mappings. Earlier mappings take
// precedence over later ones.
func mergeMembers(value typemap.Value) []typemap.Member {
	var sources []typemap.Value
	switch value.Kind() {
	case typemap.KindMapping:
		sources = append(sources, value)
	case typemap.KindSequence:
		for item := range value.Items() {
			sources = append(sources, item)
		}
	}

	var members []typemap.Member
	for idx := len(sources) - 1; idx >= 0; idx-- {
		for key, member := range sources[idx].Members() {
			members = append(members, typemap.Pair(key, member))
		}
	}

	return members
}

func keyOf(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping key must be a scalar", node.Line)
	}

	return node.Value, nil
}

func scalarOf(node *yaml.Node) (typemap.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return typemap.Null(), nil

	case "!!str":
		return typemap.String(node.Value), nil

	case "!!float":
		var floatValue float64
		if err := node.Decode(&floatValue); err != nil {
			return typemap.Value{}, err
		}

		// .nan and .inf have no number literal and become null
		return typemap.Float(floatValue), nil
	}

	var decoded any
	if err := node.Decode(&decoded); err != nil {
		// custom tags keep their text
		return typemap.String(node.Value), nil
	}

	return typemap.FromAny(decoded)
}
