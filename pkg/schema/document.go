package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a schema node while capturing property declaration
// order, which plain map decoding would lose.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	type plain Schema
	var tmp plain
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*s = Schema(tmp)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "properties" {
			continue
		}
		props := node.Content[i+1]
		for j := 0; j+1 < len(props.Content); j += 2 {
			s.PropertyOrder = append(s.PropertyOrder, props.Content[j].Value)
		}
	}
	return nil
}

// Document is a parsed schema file: a top-level mapping of type name to
// schema definition. YAML and JSON payloads are both accepted since YAML is a
// superset.
type Document struct {
	source  Source
	schemas map[string]*Schema
	order   []string
}

// Ensure Document satisfies Provider.
var _ Provider = (*Document)(nil)

// ParseDocument parses a schema document from raw bytes. The source is
// optional metadata recording where the bytes came from.
func ParseDocument(src Source, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("schema: empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: document must map type names to schemas")
	}

	doc := &Document{
		source:  src,
		schemas: make(map[string]*Schema, len(top.Content)/2),
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		var s Schema
		if err := top.Content[i+1].Decode(&s); err != nil {
			return nil, fmt.Errorf("schema: decode %q: %w", name, err)
		}
		doc.schemas[name] = &s
		doc.order = append(doc.order, name)
	}
	return doc, nil
}

// Lookup implements Provider.
func (d *Document) Lookup(name string) (*Schema, error) {
	s, ok := d.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return s, nil
}

// Types returns registered type names in declaration order.
func (d *Document) Types() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Source returns origin metadata for the document, or nil when parsed from
// raw bytes.
func (d *Document) Source() Source {
	return d.source
}
