package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/config"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [database-name]",
		Short: "Initialize a new wiki database",
		Long: `Initialize a new wiki database.

If no name is given, the default database is created in the XDG data
directory. Initialization also creates the orphanage, the system page
that holds children of deleted pages.`,
		Example: `  fernwiki init
  fernwiki init campaign
  fernwiki init -d /tmp/wiki.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dbPath
			if target == "" && len(args) > 0 {
				target = args[0]
			}
			path, err := config.ResolveDatabasePath(target)
			if err != nil {
				return err
			}

			dbPath = path
			eng, closer, err := openEngine()
			if err != nil {
				return err
			}
			defer closer()

			if err := eng.Bootstrap(context.Background()); err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Initialized %s", filepath.Clean(path)))
			}
			return nil
		},
	}
}
