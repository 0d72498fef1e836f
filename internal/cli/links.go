package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLinksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <slug>",
		Short: "Show a page's incoming and outgoing links",
		Example: `  fernwiki links the-ashen-vale
  fernwiki links broken`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			ctx := context.Background()
			page, err := eng.Pages.BySlug(ctx, args[0])
			if err != nil {
				return err
			}

			out, err := eng.Links.Outgoing(ctx, page.ID)
			if err != nil {
				return err
			}
			in, err := eng.Links.Incoming(ctx, page.ID)
			if err != nil {
				return err
			}
			stats, err := eng.Links.Statistics(ctx, page.ID)
			if err != nil {
				return err
			}

			p.PrintHeader(page.Title)
			p.PrintListItem("outgoing", fmt.Sprintf("%d  %s", stats.Outgoing, joinSlugs(out)))
			p.PrintListItem("incoming", fmt.Sprintf("%d  %s", stats.Incoming, joinSlugs(in)))
			return nil
		},
	}
	cmd.AddCommand(newLinksBrokenCommand())
	return cmd
}

func newLinksBrokenCommand() *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "broken",
		Short: "List link edges whose target page no longer exists",
		Long: `List broken link edges. Normally empty: edges are only created for
targets that resolve, and deletions cascade. Non-empty output points at
external data corruption.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			ctx := context.Background()
			var pageID *int64
			if slug != "" {
				page, err := eng.Pages.BySlug(ctx, slug)
				if err != nil {
					return err
				}
				pageID = &page.ID
			}
			broken, err := eng.Links.FindBroken(ctx, pageID)
			if err != nil {
				return err
			}
			if len(broken) == 0 {
				if !quiet {
					p.PrintSuccess("no broken links")
				}
				return nil
			}
			for _, edge := range broken {
				p.PrintWarning(fmt.Sprintf("edge %d: page %d -> missing page %d", edge.ID, edge.SourceID, edge.TargetID))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "page", "", "Only edges originating from this slug")
	return cmd
}
