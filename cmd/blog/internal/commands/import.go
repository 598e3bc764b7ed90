package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/goliatone/go-slug"
	"github.com/spf13/cobra"

	contentcmd "github.com/goliatone/go-blog/internal/commands/content"
	"github.com/goliatone/go-blog/internal/markdown"
)

func addImport(topLevel *cobra.Command) {
	drafts := false
	dryRun := false
	update := true
	htmlFile := ""

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import markdown from the content directory, or convert a saved HTML page into a post.",
		Long: `Import walks the content directory (or the given subdirectory), parses
frontmatter, renders markdown, and creates or updates posts by checksum.

With --html the given local HTML file is converted to markdown first: the
main content region is extracted, navigation chrome is stripped, and a
frontmattered .md lands in the content directory ready for import.`,
		Example: `
blog import
blog import drafts/ --drafts
blog import --html ~/saved/article.html
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if htmlFile != "" {
				return importHTMLFile(htmlFile, cfg.Content.Dir)
			}

			module, err := newModule(cfg)
			if err != nil {
				return err
			}
			handlers, err := contentHandlers(module)
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			msg := contentcmd.ImportDirectoryCommand{
				Directory:      dir,
				UpdateExisting: update,
				IncludeDrafts:  drafts || cfg.Content.IncludeDrafts,
				DryRun:         dryRun,
			}
			if err := handlers.Import.Execute(context.Background(), msg); err != nil {
				return err
			}

			if dryRun {
				color.Yellow("dry run: no posts written")
				return nil
			}
			color.Green("imported %s", filepath.Join(cfg.Content.Dir, dir))
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Import draft posts too.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be imported without writing.")
	cmd.Flags().BoolVar(&update, "update", true, "Update existing posts when the source file changed.")
	cmd.Flags().StringVar(&htmlFile, "html", "", "Convert a local HTML file into a markdown post.")

	topLevel.AddCommand(cmd)
}

// importHTMLFile converts a saved HTML page into a frontmattered markdown
// file inside the content directory. The next import run picks it up.
func importHTMLFile(htmlPath, contentDir string) error {
	source, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("read html file: %w", err)
	}

	conversion, err := markdown.ConvertHTML(source)
	if err != nil {
		return err
	}

	title := conversion.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	}
	postSlug, err := slug.Normalize(title)
	if err != nil || postSlug == "" {
		return fmt.Errorf("derive slug from %q: %w", title, err)
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "---\ntitle: %q\nslug: %s\ndate: %s\n---\n\n", title, postSlug, time.Now().UTC().Format(time.RFC3339))
	doc.Write(conversion.Markdown)

	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return fmt.Errorf("create content directory: %w", err)
	}
	target := filepath.Join(contentDir, postSlug+".md")
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("refusing to overwrite %s", target)
	}
	if err := os.WriteFile(target, []byte(doc.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	color.Green("converted %s", target)
	fmt.Println("run `blog import` to load it into the post store")
	return nil
}
