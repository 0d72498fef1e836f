package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <slug>",
		Short: "Show a page's version history",
		Example: `  fernwiki history the-ashen-vale
  fernwiki history show the-ashen-vale 3
  fernwiki history diff the-ashen-vale 2 5
  fernwiki history rollback the-ashen-vale 2`,
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
			versions, err := eng.History.All(ctx, page.ID)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Ver", "Summary", "+Lines", "-Lines", "By", "At"})
			for _, v := range versions {
				t.AppendRow(table.Row{v.Version, v.Summary, v.Stats.LinesAdded, v.Stats.LinesRemoved, v.CreatedBy, v.CreatedAt})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
	cmd.AddCommand(
		newHistoryShowCommand(),
		newHistoryDiffCommand(),
		newHistoryRollbackCommand(),
	)
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug> <version>",
		Short: "Print the content of one historical version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[1])
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
			v, err := eng.History.Get(ctx, page.ID, version)
			if err != nil {
				return err
			}
			p.PrintListItem("version", fmt.Sprintf("%d", v.Version))
			p.PrintListItem("title", v.Title)
			p.PrintListItem("summary", v.Summary)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), v.Content)
			return nil
		},
	}
}

func newHistoryDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <slug> <v1> <v2>",
		Short: "Compare two versions of a page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v1, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[1])
			}
			v2, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[2])
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
			cmp, err := eng.History.Compare(ctx, page.ID, v1, v2)
			if err != nil {
				return err
			}
			p.PrintHeader(fmt.Sprintf("%s: v%d -> v%d", page.Slug, v1, v2))
			p.PrintListItem("lines added", fmt.Sprintf("%d", cmp.Stats.LinesAdded))
			p.PrintListItem("lines removed", fmt.Sprintf("%d", cmp.Stats.LinesRemoved))
			p.PrintListItem("char delta", fmt.Sprintf("%+d", cmp.Stats.CharDelta))
			return nil
		},
	}
}

func newHistoryRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <slug> <version>",
		Short: "Restore a page to a historical version",
		Long: `Restore a page's title and content to a historical version. The
pre-rollback state is snapshotted first, so the rollback itself is
always reversible. Admins may roll back any page; writers only pages
they created.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[1])
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
			page, err := eng.Pages.BySlug(ctx, args[0])
			if err != nil {
				return err
			}
			restored, err := eng.Rollback(ctx, actor, page.ID, version)
			if err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Rolled %s back to version %d (now at version %d)",
					p.FormatSlug(restored.Slug), version, restored.Version))
			}
			return nil
		},
	}
}
