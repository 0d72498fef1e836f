package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/wiki"
)

func newExtractCommand() *cobra.Command {
	var (
		start   int
		end     int
		heading string
		level   int
		title   string
		parent  string
		sibling bool
		link    bool
	)
	cmd := &cobra.Command{
		Use:   "extract <slug>",
		Short: "Split part of a page into a new page",
		Long: `Split part of a page into a new page. Select either a byte range with
--start/--end or a whole section with --heading (matched
case-insensitively; --level narrows to one heading depth). The new page
gets a backlink footer; --link replaces the extracted span in the
source with a link to the new page.

The new page becomes a child of the source unless --parent or --sibling
says otherwise.`,
		Example: `  fernwiki extract the-ashen-vale --heading History --link
  fernwiki extract the-ashen-vale --start 120 --end 480 --title "Old Wars"
  fernwiki extract the-ashen-vale --heading Fauna --sibling`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byRange := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
			if byRange == (heading != "") {
				return fmt.Errorf("choose exactly one of --heading or --start/--end")
			}
			actor, err := currentActor()
			if err != nil {
				return err
			}
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			ctx := context.Background()
			source, err := eng.Pages.BySlug(ctx, args[0])
			if err != nil {
				return err
			}
			opts := wiki.ExtractOptions{
				Title:           title,
				ParentSlug:      parent,
				Sibling:         sibling,
				ReplaceWithLink: link,
			}

			var res *wiki.ExtractResult
			if byRange {
				res, err = eng.ExtractSelection(ctx, actor, source.ID, start, end, opts)
			} else {
				res, err = eng.ExtractHeading(ctx, actor, source.ID, heading, level, opts)
			}
			if err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Extracted %s from %s",
					p.FormatSlug(res.Created.Slug), p.FormatSlug(res.Source.Slug)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "Selection start (byte offset)")
	cmd.Flags().IntVar(&end, "end", 0, "Selection end (byte offset, exclusive)")
	cmd.Flags().StringVar(&heading, "heading", "", "Extract the section under this heading")
	cmd.Flags().IntVar(&level, "level", 0, "Require this heading level (0 = any)")
	cmd.Flags().StringVar(&title, "title", "", "Title for the new page (defaults to the heading)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent slug for the new page")
	cmd.Flags().BoolVar(&sibling, "sibling", false, "Create the new page as a sibling of the source")
	cmd.Flags().BoolVar(&link, "link", false, "Replace the extracted span with a link to the new page")
	return cmd
}
