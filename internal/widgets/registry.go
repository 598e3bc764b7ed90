package widgets

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
)

// DefinitionFactory returns the registration input for a widget definition.
type DefinitionFactory func() RegisterDefinitionInput

// Renderer produces an HTML fragment for instances of one widget definition.
type Renderer interface {
	Render(ctx context.Context, definition *Definition, instance *Instance) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, definition *Definition, instance *Instance) (string, error)

func (f RendererFunc) Render(ctx context.Context, definition *Definition, instance *Instance) (string, error) {
	return f(ctx, definition, instance)
}

// Registration bundles a definition factory with an optional renderer.
type Registration struct {
	Definition DefinitionFactory
	Renderer   Renderer
}

// Registry stores built-in and host-defined widget registrations.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]Registration
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make(map[string]Registration),
	}
}

// Register adds a static definition input to the registry.
func (r *Registry) Register(input RegisterDefinitionInput) {
	r.RegisterFactory(input.Name, Registration{
		Definition: func() RegisterDefinitionInput { return input },
	})
}

// RegisterFactory adds a definition factory (and optional renderer) to the
// registry. Re-registering a name replaces the definition but keeps the
// previous renderer when the new registration has none, so host config can
// tune a built-in widget's schema or defaults without unbinding its renderer.
func (r *Registry) RegisterFactory(key string, registration Registration) {
	if registration.Definition == nil {
		return
	}
	name := canonicalKey(key)
	if name == "" {
		next := registration.Definition()
		name = canonicalKey(next.Name)
	}
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registrations == nil {
		r.registrations = make(map[string]Registration)
	}
	if registration.Renderer == nil {
		if existing, ok := r.registrations[name]; ok && existing.Renderer != nil {
			registration.Renderer = existing.Renderer
		}
	}
	r.registrations[name] = registration
}

// List returns all registered widget definition inputs.
func (r *Registry) List() []RegisterDefinitionInput {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RegisterDefinitionInput, 0, len(r.registrations))
	for _, registration := range r.registrations {
		if registration.Definition == nil {
			continue
		}
		out = append(out, registration.Definition())
	}
	return out
}

// Renderer resolves a registered renderer by widget name.
func (r *Registry) Renderer(name string) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.registrations == nil {
		return nil
	}
	entry, ok := r.registrations[canonicalKey(name)]
	if !ok {
		return nil
	}
	return entry.Renderer
}

func canonicalKey(input string) string {
	candidate := strings.TrimSpace(input)
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return strings.ToLower(candidate)
	}
	return normalized
}
