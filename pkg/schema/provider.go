package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a provider has no schema registered under
// the requested name.
var ErrUnknownType = errors.New("schema: unknown type")

// Provider resolves schema type names to schema definitions. Implementations
// must be safe for concurrent use.
type Provider interface {
	Lookup(name string) (*Schema, error)
}

// MapProvider serves schemas from an in-memory map. The zero value is usable
// and resolves nothing.
type MapProvider map[string]*Schema

// Lookup implements Provider.
func (p MapProvider) Lookup(name string) (*Schema, error) {
	s, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return s, nil
}

// Multi chains providers; the first one that resolves wins.
type Multi []Provider

// Lookup implements Provider.
func (m Multi) Lookup(name string) (*Schema, error) {
	for _, p := range m {
		if p == nil {
			continue
		}
		s, err := p.Lookup(name)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrUnknownType) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
