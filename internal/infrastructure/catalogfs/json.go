package catalogfs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"localesync/internal/domain"
	"localesync/internal/domain/catalog"
)

type jsonCodec struct{}

func (jsonCodec) Ext() string { return ".json" }

// Decode reads a JSON object keeping the order of its keys.
func (jsonCodec) Decode(data []byte) (*catalog.Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(nil, "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed(nil, "root is not an object")
	}
	tree, err := decodeJSONObject(dec, nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed(nil, "trailing data after root object")
	}
	return tree, nil
}

func decodeJSONObject(dec *json.Decoder, path catalog.KeyPath) (*catalog.Tree, error) {
	tree := catalog.NewTree()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed(path, "expected a key, got %v", tok)
		}
		if key == "" {
			return nil, malformed(path, "empty key")
		}
		child := path.Child(key)
		v, err := decodeJSONValue(dec, child)
		if err != nil {
			return nil, err
		}
		tree.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(path, "%v", err)
	}
	return tree, nil
}

func decodeJSONValue(dec *json.Decoder, path catalog.KeyPath) (catalog.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(path, "%v", err)
	}
	switch t := tok.(type) {
	case string:
		return catalog.Scalar(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec, path)
		case '[':
			return decodeJSONList(dec, path)
		}
	}
	return nil, malformed(path, "unsupported value %v (%T)", tok, tok)
}

func decodeJSONList(dec *json.Decoder, path catalog.KeyPath) (catalog.Value, error) {
	list := catalog.List{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(path, "%v", err)
		}
		s, ok := tok.(string)
		if !ok {
			return nil, malformed(path, "list item %d is not a string", len(list))
		}
		list = append(list, s)
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(path, "%v", err)
	}
	return list, nil
}

// Encode writes tree as 2-space indented JSON. Non-ASCII text and HTML
// characters are written as is.
func (jsonCodec) Encode(tree *catalog.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONTree(&buf, tree, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSONTree(buf *bytes.Buffer, tree *catalog.Tree, depth int) error {
	keys := tree.Keys()
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteString("{\n")
	for i, k := range keys {
		indent(buf, depth+1)
		if err := writeJSONString(buf, k); err != nil {
			return err
		}
		buf.WriteString(": ")
		v, _ := tree.Get(k)
		if err := writeJSONValue(buf, v, depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	indent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v catalog.Value, depth int) error {
	switch v := v.(type) {
	case *catalog.Tree:
		return writeJSONTree(buf, v, depth)
	case catalog.Scalar:
		return writeJSONString(buf, string(v))
	case catalog.List:
		if len(v) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, s := range v {
			indent(buf, depth+1)
			if err := writeJSONString(buf, s); err != nil {
				return err
			}
			if i < len(v)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
		return nil
	}
	return fmt.Errorf("encode json: unsupported value %T", v)
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}

func malformed(path catalog.KeyPath, format string, args ...any) error {
	where := "root"
	if len(path) > 0 {
		where = path.String()
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrMalformedCatalog, where, fmt.Sprintf(format, args...))
}
