package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	contentcmd "github.com/goliatone/go-blog/internal/commands/content"
	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
)

func addBuild(topLevel *cobra.Command) {
	drafts := false
	force := false
	dryRun := false
	skipImport := false

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Import the content directory and render the static site.",
		Example: `
blog build
blog build --drafts --force
blog build --dry-run
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Generator.Enabled = true

			module, err := newModule(cfg)
			if err != nil {
				return err
			}

			ctx := context.Background()

			if !skipImport {
				handlers, err := contentHandlers(module)
				if err != nil {
					return err
				}
				msg := contentcmd.ImportDirectoryCommand{
					Directory:      ".",
					UpdateExisting: true,
					IncludeDrafts:  drafts || cfg.Content.IncludeDrafts,
				}
				if err := handlers.Import.Execute(ctx, msg); err != nil {
					return err
				}
			}

			handlers, err := siteHandlers(module)
			if err != nil {
				return err
			}
			msg := sitecmd.BuildSiteCommand{
				DryRun:        dryRun,
				Force:         force,
				IncludeDrafts: drafts || cfg.Content.IncludeDrafts,
			}
			if err := handlers.Build.Execute(ctx, msg); err != nil {
				return err
			}

			if dryRun {
				color.Yellow("dry run: no files written")
				return nil
			}
			color.Green("site built into %s", cfg.Generator.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include draft posts.")
	cmd.Flags().BoolVar(&force, "force", false, "Rebuild every page, ignoring the incremental manifest.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the build without writing artifacts.")
	cmd.Flags().BoolVar(&skipImport, "skip-import", false, "Build from already imported posts only.")

	topLevel.AddCommand(cmd)
}
