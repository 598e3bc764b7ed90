package shortcode

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Registry is the thread-safe in-memory implementation of
// interfaces.ShortcodeRegistry. Names are case-insensitive: `{{< YouTube >}}`
// in a post resolves the same definition as `{{< youtube >}}`.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ShortcodeDefinition
	validator   DefinitionValidator
}

// DefinitionValidator abstracts definition validation so callers can customise behaviour in tests.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ShortcodeDefinition) error
}

// NewRegistry constructs an empty registry using the supplied validator.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.ShortcodeDefinition),
		validator:   validator,
	}
}

// NewBuiltInRegistry constructs a registry pre-seeded with the stock
// shortcodes (youtube, alert, gallery, figure, code) plus any extra
// definitions, typically the widget-backed ones. Seeding failures surface
// instead of leaving a partially populated registry behind.
func NewBuiltInRegistry(validator DefinitionValidator, extras ...interfaces.ShortcodeDefinition) (*Registry, error) {
	registry := NewRegistry(validator)
	for _, def := range BuiltInDefinitions() {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("shortcode registry: seed builtin %s: %w", def.Name, err)
		}
	}
	for _, def := range extras {
		if err := registry.Register(def); err != nil {
			return nil, fmt.Errorf("shortcode registry: seed %s: %w", def.Name, err)
		}
	}
	return registry, nil
}

// Register stores a definition if it passes validation and the name is not taken.
func (r *Registry) Register(def interfaces.ShortcodeDefinition) error {
	name := strings.TrimSpace(strings.ToLower(def.Name))
	if name == "" {
		return ErrInvalidDefinition
	}

	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return ErrDuplicateDefinition
	}

	r.definitions[name] = def
	return nil
}

// Get returns the stored definition.
func (r *Registry) Get(name string) (interfaces.ShortcodeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[strings.ToLower(name)]
	return def, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.ShortcodeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.ShortcodeDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, strings.ToLower(name))
}

// Ensure Registry implements interfaces.ShortcodeRegistry.
var _ interfaces.ShortcodeRegistry = (*Registry)(nil)
