package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/shared"
	"github.com/quillstonelabs/fernwiki/internal/wiki"
)

func newSearchCommand() *cobra.Command {
	var (
		limit   int
		offset  int
		section string
		drafts  bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search pages by full text and keywords",
		Long: `Search the index. Keyword matches outrank full-text matches, and exact
terms outrank prefix matches. Scores are normalized against the best
hit. Drafts only appear with --drafts, and only to their author or an
admin; archived pages never appear.`,
		Example: `  fernwiki search "ashen vale"
  fernwiki search dragon -l 5 --section bestiary
  fernwiki search ritual -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor()
			if err != nil {
				return err
			}
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			if limit == 0 {
				limit = cfg.Search.DefaultLimit
			}
			hits, err := eng.Search.Search(context.Background(), actor, wiki.SearchQuery{
				Query:         strings.Join(args, " "),
				Limit:         limit,
				Offset:        offset,
				Section:       section,
				IncludeDrafts: drafts,
			})
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				if !quiet {
					p.PrintWarning("no results")
				}
				return nil
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			case "slugs":
				for _, h := range hits {
					fmt.Fprintln(cmd.OutOrStdout(), h.Page.Slug)
				}
				return nil
			default:
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Slug", "Title", "Score", "Snippet"})
				for _, h := range hits {
					t.AppendRow(table.Row{h.Page.Slug, h.Page.Title, fmt.Sprintf("%.3f", h.Score), shared.TruncateText(h.Snippet, 60)})
				}
				t.SetStyle(table.StyleRounded)
				t.Render()
				return nil
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of results (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many ranked results")
	cmd.Flags().StringVar(&section, "section", "", "Only pages in this section")
	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include drafts you are allowed to see")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, slugs)")
	return cmd
}
