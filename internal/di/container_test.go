package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = t.TempDir()
	cfg.Generator.OutputDir = filepath.Join(t.TempDir(), "dist")
	return cfg
}

func TestNewContainerWiresCoreServices(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.ContentService() == nil {
		t.Fatal("expected content service")
	}
	if container.MarkdownService() == nil {
		t.Fatal("expected markdown service")
	}
	if container.PageService() == nil {
		t.Fatal("expected page service")
	}
	if container.Theme() == nil || container.TemplateRenderer() == nil || container.ThemeSelector() == nil {
		t.Fatal("expected theme, renderer, and selector")
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected logger provider")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Site.Title = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrSiteTitleRequired) {
		t.Fatalf("expected site title error, got %v", err)
	}
}

func TestNewContainerRequiresContentDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Dir = filepath.Join(cfg.Content.Dir, "missing")

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for missing content directory")
	}
}

func TestNewContainerDisabledFeatures(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{}); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected disabled generator, got %v", err)
	}
	if _, err := container.ExportService().Export(context.Background(), export.Request{}); !errors.Is(err, export.ErrServiceDisabled) {
		t.Fatalf("expected disabled exporter, got %v", err)
	}
	if cache := container.BuildCache(); cache != nil {
		t.Fatalf("expected no build cache, got %v", cache)
	}
	if placements := container.WidgetPlacements(); len(placements) != 0 {
		t.Fatalf("expected no widget placements, got %d", len(placements))
	}
}

func TestNewContainerBindsWidgetPlacements(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Widgets = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	placements := container.WidgetPlacements()
	if len(placements) != 1 {
		t.Fatalf("expected one placement, got %d", len(placements))
	}
	if placements[0].Area != "footer" {
		t.Fatalf("expected footer area, got %q", placements[0].Area)
	}

	html, err := container.WidgetService().Render(context.Background(), placements[0].InstanceID)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "counter") {
		t.Fatalf("expected counter markup, got %q", html)
	}
}

func TestNewContainerPlacementsAreDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Widgets = true

	first, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	second, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	a := first.WidgetPlacements()
	b := second.WidgetPlacements()
	if len(a) != 1 {
		t.Fatalf("expected one placement, got %d", len(a))
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("keyed placements should be stable across containers (-first +second):\n%s", diff)
	}
}

func TestNewContainerEnablesGeneratorAndExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Enabled = true
	cfg.Features.Export = true
	cfg.Export.OutputDir = filepath.Join(t.TempDir(), "exports")

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{DryRun: true}); err != nil {
		t.Fatalf("dry-run build: %v", err)
	}
	if _, err := container.ExportService().Export(context.Background(), export.Request{Format: export.FormatJSON}); err != nil {
		t.Fatalf("export: %v", err)
	}
}

func TestNewContainerBuildCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.BuildCache() == nil {
		t.Fatal("expected build cache")
	}
}

func TestContainerImportsMarkdownIntoContent(t *testing.T) {
	cfg := testConfig(t)
	doc := `---
title: Hello World
slug: hello-world
date: 2024-03-01T00:00:00Z
---

First post body.
`
	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "hello.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write markdown: %v", err)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	result, err := container.MarkdownService().ImportDirectory(context.Background(), "", interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.CreatedPostIDs) != 1 {
		t.Fatalf("expected one created post, got %+v", result)
	}

	post, err := container.ContentService().GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if post.Title != "Hello World" {
		t.Fatalf("unexpected title %q", post.Title)
	}
	if !strings.Contains(post.HTML, "First post body.") {
		t.Fatalf("expected rendered body, got %q", post.HTML)
	}
}

func TestContainerOptionOverridesContentService(t *testing.T) {
	cfg := testConfig(t)
	custom := content.NewService(content.NewMemoryPostRepository())

	container, err := NewContainer(cfg, WithContentService(custom))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.ContentService() != custom {
		t.Fatal("expected custom content service binding")
	}
}
