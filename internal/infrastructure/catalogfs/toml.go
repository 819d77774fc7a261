package catalogfs

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"localesync/internal/domain/catalog"
)

// tomlCodec stores catalogs as TOML tables. TOML decoding goes through plain
// maps, so keys come back sorted rather than in file order.
type tomlCodec struct{}

func (tomlCodec) Ext() string { return ".toml" }

func (tomlCodec) Decode(data []byte) (*catalog.Tree, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, malformed(nil, "%v", err)
	}
	return treeFromMap(raw, nil)
}

func treeFromMap(m map[string]any, path catalog.KeyPath) (*catalog.Tree, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := catalog.NewTree()
	for _, k := range keys {
		if k == "" {
			return nil, malformed(path, "empty key")
		}
		child := path.Child(k)
		switch v := m[k].(type) {
		case string:
			tree.Set(k, catalog.Scalar(v))
		case map[string]any:
			sub, err := treeFromMap(v, child)
			if err != nil {
				return nil, err
			}
			tree.Set(k, sub)
		case []any:
			list := make(catalog.List, 0, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, malformed(child, "list item %d is not a string", i)
				}
				list = append(list, s)
			}
			tree.Set(k, list)
		default:
			return nil, malformed(child, "unsupported value %T", v)
		}
	}
	return tree, nil
}

func (tomlCodec) Encode(tree *catalog.Tree) ([]byte, error) {
	out, err := toml.Marshal(mapFromTree(tree))
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return out, nil
}

func mapFromTree(tree *catalog.Tree) map[string]any {
	out := make(map[string]any, tree.Len())
	for _, k := range tree.Keys() {
		v, _ := tree.Get(k)
		switch v := v.(type) {
		case *catalog.Tree:
			out[k] = mapFromTree(v)
		case catalog.List:
			out[k] = []string(v)
		case catalog.Scalar:
			out[k] = string(v)
		}
	}
	return out
}
