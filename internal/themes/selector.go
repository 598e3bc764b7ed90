package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ErrThemeNameRequired indicates a selection or registration without a
// theme name.
var ErrThemeNameRequired = errors.New("themes: name required")

// ManifestLoader loads a go-theme manifest from a theme directory.
type ManifestLoader interface {
	Load(fsys fs.FS, dir string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(fsys fs.FS, dir string) (*gotheme.Manifest, error) {
	if fsys == nil {
		return nil, fmt.Errorf("themes: filesystem required")
	}
	return gotheme.LoadDir(fsys, cleanThemeDir(dir))
}

// Selector resolves theme variants through a go-theme registry. Themes
// register once; selections answer which token set and assets apply for a
// theme/variant pair.
type Selector struct {
	registry       *gotheme.MemoryRegistry
	loader         ManifestLoader
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

// SelectorOption configures the selector.
type SelectorOption func(*Selector)

// WithManifestLoader overrides how go-theme manifests load, primarily for
// tests.
func WithManifestLoader(loader ManifestLoader) SelectorOption {
	return func(s *Selector) {
		if loader != nil {
			s.loader = loader
		}
	}
}

// NewSelector builds a selector with the given fallbacks.
func NewSelector(defaultTheme, defaultVariant string, opts ...SelectorOption) *Selector {
	selector := &Selector{
		registry:       gotheme.NewRegistry(),
		loader:         fsManifestLoader{},
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(selector)
		}
	}
	return selector
}

// Register loads the theme's go-theme manifest and registers it, once per
// theme name. The manifest's name and version normalize to the theme record
// so registry lookups match regardless of what the manifest carries.
func (s *Selector) Register(theme *Theme) error {
	if theme == nil {
		return fmt.Errorf("themes: theme required")
	}
	name := strings.TrimSpace(theme.Name)
	if name == "" {
		return ErrThemeNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.manifests[strings.ToLower(name)]; ok {
		return nil
	}

	manifest, err := s.loader.Load(theme.FS, theme.Dir)
	if err != nil {
		return fmt.Errorf("themes: load theme manifest from %s: %w", theme.Dir, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, name) {
		normalized.Name = name
	}
	if strings.TrimSpace(normalized.Version) == "" {
		normalized.Version = strings.TrimSpace(theme.Version)
	}

	if err := s.registry.Register(&normalized); err != nil {
		return fmt.Errorf("themes: register theme manifest: %w", err)
	}
	s.manifests[strings.ToLower(name)] = &normalized
	return nil
}

// Selection resolves a theme/variant pair against the registered manifests.
func (s *Selector) Selection(name, variant string) (*gotheme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	if name == "" {
		return nil, ErrThemeNameRequired
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolved := strings.TrimSpace(variant)
	if resolved == "" {
		resolved = s.defaultVariant
	}

	selection, err := selector.Select(name, resolved)
	if err != nil {
		return nil, fmt.Errorf("themes: select theme %s: %w", name, err)
	}
	return selection, nil
}
