package catalogfs

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"localesync/internal/domain/catalog"
)

type yamlCodec struct{}

func (yamlCodec) Ext() string { return ".yaml" }

// Decode reads a YAML mapping through yaml.v3 nodes, which keep key order.
// Plain scalars (numbers, booleans) are kept as their literal text; nulls are
// rejected.
func (yamlCodec) Decode(data []byte) (*catalog.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(nil, "%v", err)
	}
	if len(doc.Content) == 0 {
		return catalog.NewTree(), nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, malformed(nil, "root is not a mapping")
	}
	return decodeYAMLMapping(root, nil)
}

func decodeYAMLMapping(node *yaml.Node, path catalog.KeyPath) (*catalog.Tree, error) {
	tree := catalog.NewTree()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveAlias(node.Content[i])
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, malformed(path, "invalid key at line %d", key.Line)
		}
		child := path.Child(key.Value)
		v, err := decodeYAMLValue(resolveAlias(node.Content[i+1]), child)
		if err != nil {
			return nil, err
		}
		tree.Set(key.Value, v)
	}
	return tree, nil
}

func decodeYAMLValue(node *yaml.Node, path catalog.KeyPath) (catalog.Value, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return decodeYAMLMapping(node, path)
	case yaml.SequenceNode:
		list := make(catalog.List, 0, len(node.Content))
		for i, item := range node.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
				return nil, malformed(path, "list item %d is not text", i)
			}
			list = append(list, item.Value)
		}
		return list, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, malformed(path, "null value at line %d", node.Line)
		}
		return catalog.Scalar(node.Value), nil
	}
	return nil, malformed(path, "unsupported node at line %d", node.Line)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// Encode writes tree as block-style YAML with 2-space indentation.
func (yamlCodec) Encode(tree *catalog.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(tree)); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v catalog.Value) *yaml.Node {
	switch v := v.(type) {
	case *catalog.Tree:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			n.Content = append(n.Content, yamlString(k), yamlNode(child))
		}
		return n
	case catalog.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, s := range v {
			n.Content = append(n.Content, yamlString(s))
		}
		return n
	case catalog.Scalar:
		return yamlString(string(v))
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
