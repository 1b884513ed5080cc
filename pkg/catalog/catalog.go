package catalog

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Field pairs a property name with its schema node, in render order.
type Field struct {
	Name   string
	Schema *schema.Schema
}

// Metadata is the derived view of an object schema the renderer and
// validators consume. Instances are cached; treat them as read-only.
type Metadata struct {
	Type     string
	Schema   *schema.Schema
	Fields   []Field
	Required map[string]bool
	Defs     map[string]*schema.Schema

	// LayoutFields are nodes flagged as layout constructs; DataFields is
	// everything else, both preserving the sorted field order.
	LayoutFields []Field
	DataFields   []Field
}

// IsRequired reports whether the named field is required.
func (m *Metadata) IsRequired(name string) bool {
	return m != nil && m.Required[name]
}

// Field returns the named field, or false when the schema does not declare it.
func (m *Metadata) Field(name string) (Field, bool) {
	if m == nil {
		return Field{}, false
	}
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Catalog resolves schema type names into cached Metadata. Safe for
// concurrent use; racing first resolutions of the same type are idempotent.
type Catalog struct {
	mu       sync.RWMutex
	provider schema.Provider
	entries  map[string]*Metadata
}

// New constructs a Catalog backed by the given provider.
func New(provider schema.Provider) *Catalog {
	return &Catalog{
		provider: provider,
		entries:  make(map[string]*Metadata),
	}
}

// Resolve returns metadata for the named schema type, building and caching it
// on first use. Unknown types are an error; the caller decides how loudly to
// fail.
func (c *Catalog) Resolve(schemaType string) (*Metadata, error) {
	c.mu.RLock()
	meta, ok := c.entries[schemaType]
	c.mu.RUnlock()
	if ok {
		return meta, nil
	}

	if c.provider == nil {
		return nil, fmt.Errorf("catalog: no schema provider configured")
	}
	root, err := c.provider.Lookup(schemaType)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolve %q: %w", schemaType, err)
	}

	built := Build(schemaType, root)

	c.mu.Lock()
	if existing, ok := c.entries[schemaType]; ok {
		// Another goroutine won the race; both builds are equivalent.
		built = existing
	} else {
		c.entries[schemaType] = built
	}
	c.mu.Unlock()

	return built, nil
}

// Invalidate drops all cached metadata so the next Resolve rebuilds from the
// provider.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]*Metadata)
	c.mu.Unlock()
}

// Build derives metadata from a schema without caching. Resolve uses it
// internally; callers with a one-off schema can use it directly.
func Build(schemaType string, root *schema.Schema) *Metadata {
	if root == nil {
		return &Metadata{Type: schemaType, Required: make(map[string]bool)}
	}
	meta := &Metadata{
		Type:     schemaType,
		Schema:   root,
		Required: make(map[string]bool),
		Defs:     root.Defs,
	}
	for _, name := range root.Required {
		meta.Required[name] = true
	}

	names := root.OrderedProperties()
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Schema: root.Properties[name]})
	}
	sortFields(fields)

	meta.Fields = fields
	meta.LayoutFields = lo.Filter(fields, func(f Field, _ int) bool {
		return f.Schema.IsLayout()
	})
	meta.DataFields = lo.Filter(fields, func(f Field, _ int) bool {
		return !f.Schema.IsLayout()
	})
	return meta
}

// sortFields orders by the ui order hint; fields without one sort after every
// ordered field, ties keep declaration order.
func sortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return orderKey(fields[i]) < orderKey(fields[j])
	})
}

func orderKey(f Field) int {
	hints := f.Schema.Hints()
	if hints.Order == nil {
		return math.MaxInt
	}
	return *hints.Order
}
