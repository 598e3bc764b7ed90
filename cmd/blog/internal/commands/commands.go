package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

// New builds the root blog command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "A single-author blog engine: import markdown, preview in the terminal, build a static site.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to blog.yaml (defaults to ./blog.yaml, then $HOME/blog.yaml)")

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches every subcommand to the root.
func AddCommands(topLevel *cobra.Command) {
	addInit(topLevel)
	addImport(topLevel)
	addList(topLevel)
	addPreview(topLevel)
	addBuild(topLevel)
	addClean(topLevel)
	addExport(topLevel)
	addVersion(topLevel)
}
