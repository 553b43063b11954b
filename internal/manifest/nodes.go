package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitagg/internal/aggregate"
)

const (
	nullTagConstant                 = "!!null"
	booleanTagConstant              = "!!bool"
	integerTagConstant              = "!!int"
	floatTagConstant                = "!!float"
	mergeTagConstant                = "!!merge"
	nonScalarKeyTemplateConstant    = "line %d: mapping keys must be scalars"
	invalidMergeTemplateConstant    = "line %d: merge key must reference a mapping"
	unsupportedNodeTemplateConstant = "line %d: unsupported YAML node"
	invalidBooleanTemplateConstant  = "line %d: %v"
)

// convertNode turns a yaml.Node tree into Mapping, []any and scalar values.
// Integers and floats keep their source text as aggregate.Number.
func convertNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertNode(node.Content[0])
	case yaml.MappingNode:
		return convertMapping(node)
	case yaml.SequenceNode:
		sequence := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			converted, conversionError := convertNode(item)
			if conversionError != nil {
				return nil, conversionError
			}
			sequence = append(sequence, converted)
		}
		return sequence, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	case yaml.AliasNode:
		return convertNode(node.Alias)
	default:
		return nil, fmt.Errorf(unsupportedNodeTemplateConstant, node.Line)
	}
}

func convertMapping(node *yaml.Node) (*aggregate.Mapping, error) {
	mapping := aggregate.NewMapping()
	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode := node.Content[index]
		valueNode := node.Content[index+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTagConstant {
			if mergeError := mergeInto(mapping, valueNode); mergeError != nil {
				return nil, mergeError
			}
			continue
		}

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf(nonScalarKeyTemplateConstant, keyNode.Line)
		}

		value, conversionError := convertNode(valueNode)
		if conversionError != nil {
			return nil, conversionError
		}
		mapping.Set(keyNode.Value, value)
	}
	return mapping, nil
}

// mergeInto applies a "<<" merge. Keys already present are kept.
func mergeInto(mapping *aggregate.Mapping, valueNode *yaml.Node) error {
	sources := []*yaml.Node{valueNode}
	if valueNode.Kind == yaml.SequenceNode {
		sources = valueNode.Content
	}

	for _, source := range sources {
		converted, conversionError := convertNode(source)
		if conversionError != nil {
			return conversionError
		}
		merged, isMapping := converted.(*aggregate.Mapping)
		if !isMapping {
			return fmt.Errorf(invalidMergeTemplateConstant, source.Line)
		}
		for _, key := range merged.Keys() {
			if mapping.Has(key) {
				continue
			}
			value, _ := merged.Get(key)
			mapping.Set(key, value)
		}
	}
	return nil
}

func convertScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case nullTagConstant:
		return nil, nil
	case booleanTagConstant:
		var value bool
		if decodeError := node.Decode(&value); decodeError != nil {
			return nil, fmt.Errorf(invalidBooleanTemplateConstant, node.Line, decodeError)
		}
		return value, nil
	case integerTagConstant, floatTagConstant:
		return aggregate.Number(node.Value), nil
	default:
		return node.Value, nil
	}
}
