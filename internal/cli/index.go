package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCommand() *cobra.Command {
	var (
		letter  string
		section string
	)
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Print the master index of published pages",
		Example: `  fernwiki index
  fernwiki index --letter a
  fernwiki index --section locations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			groups, err := eng.Search.MasterIndex(context.Background(), letter, section)
			if err != nil {
				return err
			}
			for _, group := range groups {
				p.PrintHeader(group.Letter)
				for _, page := range group.Pages {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", p.FormatSlug(page.Slug), page.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&letter, "letter", "", "Only titles starting with this letter")
	cmd.Flags().StringVar(&section, "section", "", "Only pages in this section")
	return cmd
}
