package blog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	blog "github.com/goliatone/go-blog"
)

func moduleConfig(t *testing.T) blog.Config {
	t.Helper()
	cfg := blog.DefaultConfig()
	cfg.Content.Dir = t.TempDir()
	cfg.Generator.OutputDir = filepath.Join(t.TempDir(), "dist")
	return cfg
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := moduleConfig(t)
	cfg.Site.Title = ""

	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrSiteTitleRequired) {
		t.Fatalf("expected site title error, got %v", err)
	}
}

func TestModuleExposesServices(t *testing.T) {
	module, err := blog.New(moduleConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if module.Content() == nil || module.Markdown() == nil || module.Pages() == nil {
		t.Fatal("expected core services")
	}
	if module.Widgets() == nil || module.Shortcodes() == nil {
		t.Fatal("expected gated services in their no-op form")
	}
	if module.Generator() == nil || module.Export() == nil {
		t.Fatal("expected disabled generator and exporter")
	}
	if module.Theme() == nil {
		t.Fatal("expected resolved theme")
	}
	if module.Container() == nil {
		t.Fatal("expected container access")
	}
}

func TestModuleImportAndListFlow(t *testing.T) {
	cfg := moduleConfig(t)
	doc := `---
title: Release Notes
slug: release-notes
date: 2024-06-10T00:00:00Z
tags: [meta]
---

We shipped the thing.
`
	if err := os.WriteFile(filepath.Join(cfg.Content.Dir, "release-notes.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write markdown: %v", err)
	}

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := module.Markdown().ImportDirectory(context.Background(), "", blog.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.CreatedPostIDs) != 1 {
		t.Fatalf("expected one created post, got %+v", result)
	}

	post, err := module.Content().GetBySlug(context.Background(), "release-notes")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if !strings.Contains(post.HTML, "We shipped the thing.") {
		t.Fatalf("expected rendered body, got %q", post.HTML)
	}
}

func TestModuleBuildsSite(t *testing.T) {
	cfg := moduleConfig(t)
	cfg.Generator.Enabled = true
	cfg.Features.Widgets = true
	cfg.Features.Shortcodes = true

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

	module, err := blog.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := module.Markdown().ImportDirectory(context.Background(), "", blog.ImportOptions{}); err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}

	result, err := module.Generator().Build(context.Background(), blog.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt == 0 {
		t.Fatalf("expected pages built, got %+v", result)
	}

	index := filepath.Join(cfg.Generator.OutputDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		t.Fatalf("expected home index at %s: %v", index, err)
	}
	postPage := filepath.Join(cfg.Generator.OutputDir, "posts", "hello-world", "index.html")
	if _, err := os.Stat(postPage); err != nil {
		t.Fatalf("expected post page at %s: %v", postPage, err)
	}
}
