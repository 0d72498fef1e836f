package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newKeywordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords <slug>",
		Short: "Show and manage a page's keywords",
		Long: `Show a page's keywords. Keywords come from three places: the content's
metadata preamble, automatic extraction during reindexing, and manual
tags added here. Manual tags survive reindexing of the preamble list.`,
		Example: `  fernwiki keywords the-ashen-vale
  fernwiki keywords add the-ashen-vale ritual
  fernwiki keywords rm the-ashen-vale ritual`,
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
			kws, err := eng.Search.KeywordsFor(ctx, page.ID)
			if err != nil {
				return err
			}
			for _, kw := range kws {
				origin := "auto"
				if kw.IsManual {
					origin = "manual"
				}
				p.PrintListItem(origin, kw.Term)
			}
			return nil
		},
	}
	cmd.AddCommand(newKeywordsAddCommand(), newKeywordsRemoveCommand())
	return cmd
}

func newKeywordsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <slug> <term>",
		Short: "Tag a page with a keyword",
		Args:  cobra.ExactArgs(2),
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
			if err := eng.Search.AddManualKeyword(ctx, actor, page.ID, args[1]); err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Tagged %s with %q", p.FormatSlug(page.Slug), args[1]))
			}
			return nil
		},
	}
}

func newKeywordsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <slug> <term>",
		Short: "Remove a keyword from a page",
		Args:  cobra.ExactArgs(2),
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
			if err := eng.Search.RemoveKeyword(ctx, actor, page.ID, args[1]); err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Removed %q from %s", args[1], p.FormatSlug(page.Slug)))
			}
			return nil
		},
	}
}
