package themes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ManifestFileName is the manifest every theme directory must carry.
const ManifestFileName = "theme.json"

// ErrManifestInvalid wraps every manifest validation failure.
var ErrManifestInvalid = errors.New("themes: manifest invalid")

// requiredTemplates are the page template slots every theme must fill.
var requiredTemplates = []string{"post", "index", "tag", "archive", "standalone"}

// Manifest mirrors the theme.json structure: identification, the layout and
// template table the engine parses, token sets per variant, and the asset
// files the generator copies into the output.
type Manifest struct {
	Name           string                 `json:"name"`
	Version        string                 `json:"version"`
	Description    *string                `json:"description,omitempty"`
	Author         *string                `json:"author,omitempty"`
	Layout         string                 `json:"layout"`
	Templates      map[string]string      `json:"templates"`
	Partials       map[string]string      `json:"partials,omitempty"`
	DefaultVariant string                 `json:"default_variant,omitempty"`
	Variants       map[string]VariantSpec `json:"variants,omitempty"`
	Assets         AssetsSpec             `json:"assets,omitempty"`
	WidgetAreas    []WidgetArea           `json:"widget_areas,omitempty"`
	Metadata       map[string]any         `json:"metadata,omitempty"`
}

// VariantSpec carries the token set and asset overrides for one variant.
type VariantSpec struct {
	Tokens map[string]string `json:"tokens,omitempty"`
	Assets AssetsSpec        `json:"assets,omitempty"`
}

// AssetsSpec maps asset keys to theme-relative file paths.
type AssetsSpec struct {
	Files map[string]string `json:"files,omitempty"`
}

// WidgetArea declares a region templates render widget fragments into.
type WidgetArea struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ParseManifest decodes manifest JSON from a reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	return &manifest, nil
}

// LoadManifest reads and parses dir/theme.json from fsys.
func LoadManifest(fsys fs.FS, dir string) (*Manifest, error) {
	if fsys == nil {
		return nil, fmt.Errorf("themes: filesystem required")
	}
	file, err := fsys.Open(path.Join(cleanThemeDir(dir), ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("themes: open manifest: %w", err)
	}
	defer file.Close()
	return ParseManifest(file)
}

// Validate checks the manifest names a theme, a layout and every required
// page template.
func (m *Manifest) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: manifest required", ErrManifestInvalid)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name required", ErrManifestInvalid)
	}
	if strings.TrimSpace(m.Version) == "" {
		return fmt.Errorf("%w: version required", ErrManifestInvalid)
	}
	if strings.TrimSpace(m.Layout) == "" {
		return fmt.Errorf("%w: layout required", ErrManifestInvalid)
	}
	for _, kind := range requiredTemplates {
		if strings.TrimSpace(m.Templates[kind]) == "" {
			return fmt.Errorf("%w: template %q required", ErrManifestInvalid, kind)
		}
	}
	for _, area := range m.WidgetAreas {
		if strings.TrimSpace(area.Code) == "" || strings.TrimSpace(area.Name) == "" {
			return fmt.Errorf("%w: widget area code and name required", ErrManifestInvalid)
		}
	}
	return nil
}

// VariantTokens returns the token set for a variant. An unknown or blank
// variant falls back to the manifest default, then to the first variant in
// name order so token resolution stays deterministic.
func (m *Manifest) VariantTokens(variant string) map[string]string {
	if m == nil || len(m.Variants) == 0 {
		return nil
	}
	variant = strings.TrimSpace(variant)
	if spec, ok := m.Variants[variant]; ok && variant != "" {
		return cloneTokens(spec.Tokens)
	}
	if spec, ok := m.Variants[strings.TrimSpace(m.DefaultVariant)]; ok && strings.TrimSpace(m.DefaultVariant) != "" {
		return cloneTokens(spec.Tokens)
	}
	names := make([]string, 0, len(m.Variants))
	for name := range m.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return cloneTokens(m.Variants[names[0]].Tokens)
}

// AssetFiles returns the theme-relative asset paths for a variant, variant
// entries overriding base entries with the same key, deduplicated and
// sorted.
func (m *Manifest) AssetFiles(variant string) []string {
	if m == nil {
		return nil
	}
	merged := make(map[string]string, len(m.Assets.Files))
	for key, file := range m.Assets.Files {
		merged[key] = file
	}
	if spec, ok := m.Variants[strings.TrimSpace(variant)]; ok {
		for key, file := range spec.Assets.Files {
			merged[key] = file
		}
	}

	seen := make(map[string]struct{}, len(merged))
	out := make([]string, 0, len(merged))
	for _, file := range merged {
		file = strings.TrimPrefix(strings.TrimSpace(file), "/")
		if file == "" {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		out = append(out, path.Clean(file))
	}
	sort.Strings(out)
	return out
}

func cloneTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out[key] = value
	}
	return out
}

func cleanThemeDir(dir string) string {
	dir = path.Clean(strings.TrimSpace(dir))
	if dir == "" {
		return "."
	}
	return dir
}
