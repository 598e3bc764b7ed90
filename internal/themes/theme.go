package themes

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultThemeName selects the theme embedded in the binary.
const DefaultThemeName = "default"

// Theme is a loaded theme: its parsed manifest plus the filesystem holding
// its layout, templates, partials and assets.
type Theme struct {
	Name     string
	Version  string
	Dir      string
	FS       fs.FS
	Manifest *Manifest
}

// LoadTheme reads and validates dir/theme.json from fsys.
func LoadTheme(fsys fs.FS, dir string) (*Theme, error) {
	manifest, err := LoadManifest(fsys, dir)
	if err != nil {
		return nil, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return &Theme{
		Name:     strings.TrimSpace(manifest.Name),
		Version:  strings.TrimSpace(manifest.Version),
		Dir:      cleanThemeDir(dir),
		FS:       fsys,
		Manifest: manifest,
	}, nil
}

// ResolveTheme loads the named theme from the base directory, falling back
// to the embedded default when the name is blank or "default".
func ResolveTheme(basePath, name string) (*Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DefaultThemeName) {
		return DefaultTheme()
	}
	base := filepath.Clean(strings.TrimSpace(basePath))
	if base == "" {
		base = "."
	}
	theme, err := LoadTheme(os.DirFS(base), name)
	if err != nil {
		return nil, fmt.Errorf("themes: resolve theme %q under %s: %w", name, base, err)
	}
	return theme, nil
}
