// Package cli wires the wiki engine into a cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/config"
	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/perm"
	"github.com/quillstonelabs/fernwiki/internal/wiki"
)

var (
	cfg       *config.Config
	dbPath    string
	actorID   string
	actorRole string
	verbose   bool
	quiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "fernwiki",
	Short: "A linked, versioned wiki for the terminal",
	Long: `Fernwiki keeps a tree of markdown pages with bidirectional links,
full version history and a search index, all in a single SQLite file.
Pages reference each other by slug; renames, deletions and extractions
keep the link graph and index consistent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	loadConfig()
	rootCmd.AddCommand(
		newInitCommand(),
		newPageCommand(),
		newOrphansCommand(),
		newLinksCommand(),
		newHistoryCommand(),
		newSearchCommand(),
		newKeywordsCommand(),
		newIndexCommand(),
		newExtractCommand(),
	)
	return rootCmd.Execute()
}

func loadConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "Database path (default: $XDG_DATA_HOME/fernwiki/fernwiki.db)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "", "Acting user id (default: config, then current user)")
	rootCmd.PersistentFlags().StringVar(&actorRole, "role", "", "Acting role: viewer, player, writer or admin")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return config.ResolveDatabasePath(dbPath)
	}
	return config.ResolveDatabasePath("default")
}

func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// openEngine opens the store and builds the engine. The returned closer
// must be called when the command is done.
func openEngine() (*wiki.Engine, func(), error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	eng := wiki.NewEngine(store, cfg.Content.Dir, newLogger())
	return eng, func() { _ = store.Close() }, nil
}

func currentActor() (perm.Actor, error) {
	id := actorID
	if id == "" {
		id = cfg.Actor.ID
	}
	roleName := actorRole
	if roleName == "" {
		roleName = cfg.Actor.Role
	}
	role, err := perm.ParseRole(roleName)
	if err != nil {
		return perm.Actor{}, err
	}
	return perm.Actor{ID: id, Role: role}, nil
}
