package themes

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const manifestFixture = `{
  "name": "plain",
  "version": "1.2.0",
  "layout": "layouts/base.html",
  "templates": {
    "post": "templates/post.html",
    "index": "templates/index.html",
    "tag": "templates/tag.html",
    "archive": "templates/archive.html",
    "standalone": "templates/standalone.html"
  },
  "partials": {"header": "partials/header.html"},
  "default_variant": "light",
  "variants": {
    "light": {"tokens": {"color-bg": "#fff"}},
    "dark": {
      "tokens": {"color-bg": "#000"},
      "assets": {"files": {"stylesheet": "assets/dark.css"}}
    }
  },
  "assets": {"files": {"stylesheet": "assets/style.css", "script": "assets/app.js"}}
}`

func TestParseManifestReadsThemeJSON(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(manifestFixture))
	if err != nil {
		t.Fatalf("expected manifest, got error %v", err)
	}
	if manifest.Name != "plain" || manifest.Version != "1.2.0" {
		t.Fatalf("unexpected identity: %s %s", manifest.Name, manifest.Version)
	}
	if manifest.Templates["post"] != "templates/post.html" {
		t.Fatalf("unexpected post template: %q", manifest.Templates["post"])
	}
	if manifest.Variants["dark"].Tokens["color-bg"] != "#000" {
		t.Fatalf("unexpected dark token: %q", manifest.Variants["dark"].Tokens["color-bg"])
	}
	if err := manifest.Validate(); err != nil {
		t.Fatalf("expected fixture to validate, got %v", err)
	}
}

func TestManifestValidateRejectsMissingPieces(t *testing.T) {
	base := func() *Manifest {
		manifest, err := ParseManifest(strings.NewReader(manifestFixture))
		if err != nil {
			t.Fatalf("expected fixture to parse, got %v", err)
		}
		return manifest
	}

	cases := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"missing name", func(m *Manifest) { m.Name = " " }},
		{"missing version", func(m *Manifest) { m.Version = "" }},
		{"missing layout", func(m *Manifest) { m.Layout = "" }},
		{"missing template slot", func(m *Manifest) { delete(m.Templates, "archive") }},
		{"widget area without code", func(m *Manifest) {
			m.WidgetAreas = []WidgetArea{{Name: "Footer"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			manifest := base()
			tc.mutate(manifest)
			if err := manifest.Validate(); !errors.Is(err, ErrManifestInvalid) {
				t.Fatalf("expected ErrManifestInvalid, got %v", err)
			}
		})
	}
}

func TestManifestVariantTokens(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(manifestFixture))
	if err != nil {
		t.Fatalf("expected fixture to parse, got %v", err)
	}

	if got := manifest.VariantTokens("dark")["color-bg"]; got != "#000" {
		t.Fatalf("expected the dark token set, got %q", got)
	}
	if got := manifest.VariantTokens("")["color-bg"]; got != "#fff" {
		t.Fatalf("expected the default variant for a blank request, got %q", got)
	}
	if got := manifest.VariantTokens("sepia")["color-bg"]; got != "#fff" {
		t.Fatalf("expected the default variant for an unknown request, got %q", got)
	}

	manifest.DefaultVariant = ""
	if got := manifest.VariantTokens("sepia")["color-bg"]; got != "#000" {
		t.Fatalf("expected the first variant in name order, got %q", got)
	}
}

func TestManifestAssetFilesMergeVariantOverrides(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(manifestFixture))
	if err != nil {
		t.Fatalf("expected fixture to parse, got %v", err)
	}

	base := manifest.AssetFiles("light")
	if !reflect.DeepEqual(base, []string{"assets/app.js", "assets/style.css"}) {
		t.Fatalf("unexpected base assets: %v", base)
	}

	dark := manifest.AssetFiles("dark")
	if !reflect.DeepEqual(dark, []string{"assets/app.js", "assets/dark.css"}) {
		t.Fatalf("expected the dark stylesheet to win, got %v", dark)
	}
}
