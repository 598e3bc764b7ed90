package themes

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	gotheme "github.com/goliatone/go-theme"
)

type stubManifestLoader struct {
	manifest *gotheme.Manifest
	err      error
	calls    int
}

func (s *stubManifestLoader) Load(fsys fs.FS, dir string) (*gotheme.Manifest, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	manifest := *s.manifest
	return &manifest, nil
}

func stubTheme(name string) *Theme {
	return &Theme{Name: name, Version: "1.0.0", Dir: name, FS: fstest.MapFS{}}
}

func TestSelectorRegisterNormalizesManifestIdentity(t *testing.T) {
	loader := &stubManifestLoader{manifest: &gotheme.Manifest{}}
	selector := NewSelector("plain", "light", WithManifestLoader(loader))

	if err := selector.Register(stubTheme("plain")); err != nil {
		t.Fatalf("expected registration, got %v", err)
	}

	registered := selector.manifests["plain"]
	if registered == nil {
		t.Fatal("expected the manifest to be recorded")
	}
	if registered.Name != "plain" {
		t.Fatalf("expected the theme name on the manifest, got %q", registered.Name)
	}
	if registered.Version != "1.0.0" {
		t.Fatalf("expected the theme version on the manifest, got %q", registered.Version)
	}
}

func TestSelectorRegisterIsIdempotentPerTheme(t *testing.T) {
	loader := &stubManifestLoader{manifest: &gotheme.Manifest{Name: "plain", Version: "2.0.0"}}
	selector := NewSelector("plain", "light", WithManifestLoader(loader))

	if err := selector.Register(stubTheme("plain")); err != nil {
		t.Fatalf("expected registration, got %v", err)
	}
	if err := selector.Register(stubTheme("Plain")); err != nil {
		t.Fatalf("expected repeat registration to no-op, got %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one manifest load, got %d", loader.calls)
	}
}

func TestSelectorRegisterWrapsLoaderErrors(t *testing.T) {
	loadErr := errors.New("bad manifest")
	loader := &stubManifestLoader{err: loadErr}
	selector := NewSelector("plain", "light", WithManifestLoader(loader))

	err := selector.Register(stubTheme("plain"))
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected the loader error, got %v", err)
	}
	if !strings.Contains(err.Error(), "load theme manifest") {
		t.Fatalf("expected load context in the error, got %v", err)
	}
}

func TestSelectorRegisterRequiresName(t *testing.T) {
	selector := NewSelector("plain", "light", WithManifestLoader(&stubManifestLoader{}))

	if err := selector.Register(&Theme{Name: "  "}); !errors.Is(err, ErrThemeNameRequired) {
		t.Fatalf("expected ErrThemeNameRequired, got %v", err)
	}
}

func TestSelectorSelectionRequiresSomeThemeName(t *testing.T) {
	selector := NewSelector("", "", WithManifestLoader(&stubManifestLoader{}))

	if _, err := selector.Selection("", ""); !errors.Is(err, ErrThemeNameRequired) {
		t.Fatalf("expected ErrThemeNameRequired, got %v", err)
	}
}
