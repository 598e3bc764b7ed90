package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const configTemplate = `site:
  title: %q
  description: ""
  author: ""
  language: en

content:
  dir: content
  pattern: "*.md"
  recursive: true
  page_size: 10

generator:
  enabled: true
  output_dir: dist
  clean_build: true
  copy_assets: true
  generate_sitemap: true

features:
  widgets: true
  shortcodes: true
  logger: true
`

const firstPostTemplate = `---
title: Hello World
slug: hello-world
date: %s
tags: [meta]
---

Welcome to your new blog. Edit this file, add more posts next to it,
then run ` + "`blog build`" + ` to publish or ` + "`blog preview`" + ` to browse
from the terminal.
`

func addInit(topLevel *cobra.Command) {
	title := "My Blog"
	force := false

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a content directory, a starter post, and blog.yaml.",
		Example: `
blog init
blog init ~/blog --title "Field Notes"
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			contentDir := filepath.Join(root, "content")
			if err := os.MkdirAll(contentDir, 0o755); err != nil {
				return fmt.Errorf("create content directory: %w", err)
			}

			configFile := filepath.Join(root, "blog.yaml")
			if err := writeFileOnce(configFile, fmt.Sprintf(configTemplate, title), force); err != nil {
				return err
			}

			postFile := filepath.Join(contentDir, "hello-world.md")
			post := fmt.Sprintf(firstPostTemplate, time.Now().UTC().Format(time.RFC3339))
			if err := writeFileOnce(postFile, post, force); err != nil {
				return err
			}

			color.Green("initialized blog in %s", root)
			fmt.Printf("  %s\n  %s\n", configFile, postFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", title, "Site title written to blog.yaml.")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files.")

	topLevel.AddCommand(cmd)
}

func writeFileOnce(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			color.Yellow("skipping %s: already exists", path)
			return nil
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
