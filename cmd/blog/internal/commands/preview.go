package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/preview"
)

func addPreview(topLevel *cobra.Command) {
	drafts := false

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse posts in the terminal, with a live counter widget pane.",
		Example: `
blog preview
blog preview --drafts
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			module, err := newModule(cfg)
			if err != nil {
				return err
			}

			includeDrafts := drafts || cfg.Content.IncludeDrafts
			if _, err := module.Markdown().ImportDirectory(context.Background(), ".", importOptions(includeDrafts)); err != nil {
				return err
			}

			return preview.Run(preview.Config{
				SiteTitle:     cfg.Site.Title,
				Content:       module.Content(),
				IncludeDrafts: includeDrafts,
			})
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Show draft posts in the preview.")

	topLevel.AddCommand(cmd)
}
