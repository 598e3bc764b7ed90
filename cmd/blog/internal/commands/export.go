package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	contentcmd "github.com/goliatone/go-blog/internal/commands/content"
)

func addExport(topLevel *cobra.Command) {
	format := ""
	outputDir := ""
	drafts := false

	cmd := &cobra.Command{
		Use:   "export [slug...]",
		Short: "Export posts as PDF, markdown, or JSON.",
		Example: `
blog export
blog export hello-world --format pdf
blog export --format json --output backups/
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.Features.Export = true

			module, err := newModule(cfg)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if _, err := module.Markdown().ImportDirectory(ctx, ".", importOptions(drafts || cfg.Content.IncludeDrafts)); err != nil {
				return err
			}

			handlers, err := contentHandlers(module)
			if err != nil {
				return err
			}

			msg := contentcmd.ExportPostCommand{
				Slugs:         args,
				Format:        format,
				OutputDir:     outputDir,
				IncludeDrafts: drafts,
			}
			if err := handlers.Export.Execute(ctx, msg); err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Export.OutputDir
			}
			color.Green("exported into %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: pdf, markdown, or json (default from config, pdf).")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Destination directory (default from config).")
	cmd.Flags().BoolVar(&drafts, "drafts", false, "Export drafts too when exporting everything.")

	topLevel.AddCommand(cmd)
}
