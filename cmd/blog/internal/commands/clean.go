package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	sitecmd "github.com/goliatone/go-blog/internal/commands/site"
)

func addClean(topLevel *cobra.Command) {
	resetCache := false

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated site artifacts and prune the build cache.",
		Example: `
blog clean
blog clean --reset-cache
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

			handlers, err := siteHandlers(module)
			if err != nil {
				return err
			}

			msg := sitecmd.CleanSiteCommand{
				PruneCache: !resetCache,
				ResetCache: resetCache,
			}
			if err := handlers.Clean.Execute(context.Background(), msg); err != nil {
				return err
			}

			color.Green("cleaned %s", cfg.Generator.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resetCache, "reset-cache", false, "Drop every cache entry instead of pruning expired ones.")

	topLevel.AddCommand(cmd)
}
