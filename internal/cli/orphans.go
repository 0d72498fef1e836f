package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/shared"
	"github.com/quillstonelabs/fernwiki/internal/wiki"
)

func newOrphansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List and reassign orphaned pages",
	}
	cmd.AddCommand(newOrphansListCommand(), newOrphansAdoptCommand())
	return cmd
}

func newOrphansListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pages whose parent was deleted",
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

			pages, err := eng.Pages.List(context.Background(), actor, wiki.ListFilter{Orphaned: true})
			if err != nil {
				return err
			}
			renderPageTable(cmd, pages)
			return nil
		},
	}
}

func newOrphansAdoptCommand() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "adopt <slug>",
		Short: "Reassign an orphaned page to a new parent",
		Long: `Reassign an orphaned page. With --parent it moves under that page;
without, it becomes a top-level page. Pages that are not orphaned are
left untouched.`,
		Example: `  fernwiki orphans adopt stray-note --parent the-ashen-vale
  fernwiki orphans adopt stray-note`,
		Args: cobra.ExactArgs(1),
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

			ctx := context.Background()
			page, err := eng.Pages.BySlug(ctx, args[0])
			if err != nil {
				return err
			}
			var newParent *string
			if cmd.Flags().Changed("parent") {
				newParent = shared.StringPtr(parent)
			}
			n, err := eng.ReassignOrphan(ctx, actor, page.ID, newParent)
			if err != nil {
				return err
			}
			if quiet {
				return nil
			}
			if n == 0 {
				p.PrintWarning(fmt.Sprintf("%s is not orphaned; nothing changed", page.Slug))
			} else {
				p.PrintSuccess(fmt.Sprintf("Adopted %s", p.FormatSlug(page.Slug)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "New parent slug (omit for top level)")
	return cmd
}
