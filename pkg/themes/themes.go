package themes

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/render"
)

// Registry stores themes by name with a configurable default fallback.
// Lookups never fail: unknown names return the default theme.
type Registry struct {
	mu          sync.RWMutex
	themes      map[string]render.Theme
	defaultName string
}

// NewRegistry creates a registry seeded with the built-in themes, defaulting
// to bootstrap.
func NewRegistry() *Registry {
	r := &Registry{
		themes: make(map[string]render.Theme),
	}
	r.MustRegister(Bootstrap())
	r.MustRegister(Material())
	r.MustRegister(render.PlainTheme())
	r.defaultName = "bootstrap"
	return r
}

// Register adds a theme by its Name(). Duplicate names return an error.
func (r *Registry) Register(theme render.Theme) error {
	if theme == nil {
		return fmt.Errorf("themes: theme is required")
	}
	name := strings.TrimSpace(theme.Name())
	if name == "" {
		return fmt.Errorf("themes: theme name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.themes[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	r.themes[name] = theme
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(theme render.Theme) {
	if err := r.Register(theme); err != nil {
		panic(err)
	}
}

// SetDefault changes the fallback theme. The name must be registered.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[name]; !ok {
		return fmt.Errorf("themes: theme %q not found", name)
	}
	r.defaultName = name
	return nil
}

// Get returns the named theme, falling back to the default for unknown
// names so a misspelled theme never breaks rendering.
func (r *Registry) Get(name string) render.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if theme, ok := r.themes[strings.TrimSpace(name)]; ok {
		return theme
	}
	if theme, ok := r.themes[r.defaultName]; ok {
		return theme
	}
	return render.PlainTheme()
}

// List returns the sorted names of every registered theme.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a theme is registered under the exact name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.themes[name]
	return ok
}
