package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-blog/internal/content"
)

func addList(topLevel *cobra.Command) {
	drafts := false
	tag := ""
	year := 0

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts from the content directory.",
		Example: `
blog list
blog list --drafts
blog list --tag go --year 2024
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

			ctx := context.Background()
			if _, err := module.Markdown().ImportDirectory(ctx, ".", importOptions(drafts || cfg.Content.IncludeDrafts)); err != nil {
				return err
			}

			posts, err := module.Content().List(ctx, content.ListPostsRequest{
				IncludeDrafts: drafts || cfg.Content.IncludeDrafts,
				Tag:           tag,
				Year:          year,
			})
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				color.Yellow("no posts found in %s", cfg.Content.Dir)
				return nil
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("DATE", "SLUG", "TITLE", "TAGS", "")
			for _, post := range posts {
				status := ""
				if post.Draft {
					status = color.YellowString("draft")
				}
				tbl.AddRow(
					post.PublishedAt.Format("2006-01-02"),
					post.Slug,
					post.Title,
					strings.Join(post.Tags, ","),
					status,
				)
			}
			_, _ = fmt.Fprintln(color.Output, tbl)
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include draft posts.")
	cmd.Flags().StringVar(&tag, "tag", "", "Only posts carrying this tag.")
	cmd.Flags().IntVar(&year, "year", 0, "Only posts published in this year.")

	topLevel.AddCommand(cmd)
}
