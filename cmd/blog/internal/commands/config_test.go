package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Site.Title != "My Blog" {
		t.Fatalf("expected default title, got %q", cfg.Site.Title)
	}
	if cfg.Content.Dir != "content" {
		t.Fatalf("expected default content dir, got %q", cfg.Content.Dir)
	}
	if cfg.Generator.OutputDir != "dist" {
		t.Fatalf("expected default output dir, got %q", cfg.Generator.OutputDir)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "blog.yaml")
	body := `site:
  title: Field Notes
content:
  dir: posts
features:
  export: true
`
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configPath = file
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Site.Title != "Field Notes" {
		t.Fatalf("expected configured title, got %q", cfg.Site.Title)
	}
	if cfg.Content.Dir != "posts" {
		t.Fatalf("expected configured content dir, got %q", cfg.Content.Dir)
	}
	if !cfg.Features.Export {
		t.Fatal("expected export feature enabled")
	}
	if cfg.Content.Pattern != "*.md" {
		t.Fatalf("expected default pattern to survive, got %q", cfg.Content.Pattern)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.yaml")
	t.Cleanup(func() { configPath = "" })

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := New()

	expected := []string{"init", "build", "preview", "import", "list", "export", "clean", "version"}
	for _, name := range expected {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
