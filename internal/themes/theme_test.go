package themes

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestLoadThemeReadsManifestFromDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"mono/theme.json": {Data: []byte(manifestFixture)},
	}

	theme, err := LoadTheme(fsys, "mono")
	if err != nil {
		t.Fatalf("expected theme, got error %v", err)
	}
	if theme.Name != "plain" {
		t.Fatalf("expected manifest name, got %q", theme.Name)
	}
	if theme.Dir != "mono" {
		t.Fatalf("expected theme dir, got %q", theme.Dir)
	}
	if theme.Manifest == nil || theme.Manifest.Layout != "layouts/base.html" {
		t.Fatalf("expected parsed manifest, got %+v", theme.Manifest)
	}
}

func TestLoadThemeRejectsInvalidManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"mono/theme.json": {Data: []byte(`{"name": "mono"}`)},
	}

	if _, err := LoadTheme(fsys, "mono"); !errors.Is(err, ErrManifestInvalid) {
		t.Fatalf("expected ErrManifestInvalid, got %v", err)
	}
}

func TestLoadThemeReportsMissingManifest(t *testing.T) {
	if _, err := LoadTheme(fstest.MapFS{}, "mono"); err == nil {
		t.Fatal("expected an error for a theme without theme.json")
	}
}

func TestDefaultThemeShipsACompleteManifest(t *testing.T) {
	theme, err := DefaultTheme()
	if err != nil {
		t.Fatalf("expected embedded theme to load, got %v", err)
	}
	if theme.Name != DefaultThemeName {
		t.Fatalf("expected %q, got %q", DefaultThemeName, theme.Name)
	}
	for _, kind := range requiredTemplates {
		if theme.Manifest.Templates[kind] == "" {
			t.Fatalf("expected a template for %q", kind)
		}
	}
	files := theme.Manifest.AssetFiles("light")
	if len(files) == 0 {
		t.Fatal("expected the embedded theme to ship assets")
	}
	for _, file := range files {
		if _, err := theme.FS.Open(theme.Dir + "/" + file); err != nil {
			t.Fatalf("expected asset %q in the theme tree: %v", file, err)
		}
	}
	if tokens := theme.Manifest.VariantTokens("dark"); tokens["color-bg"] == "" {
		t.Fatal("expected the dark variant to carry tokens")
	}
}

func TestResolveThemeFallsBackToEmbeddedDefault(t *testing.T) {
	for _, name := range []string{"", "default", "Default"} {
		theme, err := ResolveTheme("themes", name)
		if err != nil {
			t.Fatalf("expected default theme for %q, got %v", name, err)
		}
		if theme.Name != DefaultThemeName {
			t.Fatalf("expected %q for %q, got %q", DefaultThemeName, name, theme.Name)
		}
	}
}

func TestResolveThemeReportsUnknownThemes(t *testing.T) {
	if _, err := ResolveTheme(t.TempDir(), "missing"); err == nil {
		t.Fatal("expected an error for a theme that is not on disk")
	}
}
