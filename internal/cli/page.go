package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/shared"
	"github.com/quillstonelabs/fernwiki/internal/wiki"
)

func newPageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Create, inspect and edit pages",
	}
	cmd.AddCommand(
		newPageCreateCommand(),
		newPageShowCommand(),
		newPageEditCommand(),
		newPageDeleteCommand(),
		newPageListCommand(),
	)
	return cmd
}

func newPageCreateCommand() *cobra.Command {
	var (
		file    string
		slug    string
		parent  string
		section string
		status  string
	)
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new page",
		Long: `Create a new page. Content is read from --file, or from stdin when
--file is "-". A metadata preamble in the content (slug, parent,
section, status, keywords) fills in anything not given as a flag.`,
		Example: `  fernwiki page create "The Ashen Vale" -f vale.md
  fernwiki page create "Quick note" --parent the-ashen-vale
  cat note.md | fernwiki page create "Piped" -f -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(file)
			if err != nil {
				return err
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

			page, err := eng.CreatePage(context.Background(), actor, wiki.CreateParams{
				Title:      args[0],
				Content:    content,
				Slug:       slug,
				ParentSlug: parent,
				Section:    section,
				Status:     status,
			})
			if err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Created %s (version %d)", p.FormatSlug(page.Slug), page.Version))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Markdown file with the page content (- for stdin)")
	cmd.Flags().StringVar(&slug, "slug", "", "Explicit slug (generated from the title when omitted)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent page slug")
	cmd.Flags().StringVar(&section, "section", "", "Section path")
	cmd.Flags().StringVar(&status, "status", "", "Lifecycle status: published, draft or archived")
	return cmd
}

func newPageShowCommand() *cobra.Command {
	var metaOnly bool
	cmd := &cobra.Command{
		Use:     "show <slug>",
		Short:   "Print a page",
		Example: "  fernwiki page show the-ashen-vale",
		Args:    cobra.ExactArgs(1),
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

			p.PrintListItem("title", page.Title)
			p.PrintListItem("slug", p.FormatSlug(page.Slug))
			p.PrintListItem("status", p.FormatStatus(page.Status))
			if page.Section != "" {
				p.PrintListItem("section", shared.Capitalize(page.Section))
			}
			p.PrintListItem("version", fmt.Sprintf("%d", page.Version))
			p.PrintListItem("words", fmt.Sprintf("%d", page.WordCount))
			if page.IsOrphaned {
				p.PrintWarning("orphaned: original parent was deleted")
			}
			if metaOnly {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), page.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&metaOnly, "meta", false, "Show metadata only")
	return cmd
}

func newPageEditCommand() *cobra.Command {
	var (
		file    string
		title   string
		newSlug string
		parent  string
		section string
		status  string
		detach  bool
	)
	cmd := &cobra.Command{
		Use:   "edit <slug>",
		Short: "Edit a page",
		Long: `Edit a page. Only the given flags change; a content change records a
new version, and a slug change rewrites every reference to the old slug
across the wiki.`,
		Example: `  fernwiki page edit the-ashen-vale -f vale.md
  fernwiki page edit the-ashen-vale --slug ashen-vale
  fernwiki page edit stray-note --parent the-ashen-vale`,
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

			var params wiki.UpdateParams
			if cmd.Flags().Changed("file") {
				content, err := readContent(file)
				if err != nil {
					return err
				}
				params.Content = &content
			}
			if cmd.Flags().Changed("title") {
				params.Title = &title
			}
			if cmd.Flags().Changed("slug") {
				params.Slug = &newSlug
			}
			if detach {
				params.ParentSlug = shared.StringPtr("")
			} else if cmd.Flags().Changed("parent") {
				params.ParentSlug = &parent
			}
			if cmd.Flags().Changed("section") {
				params.Section = &section
			}
			if cmd.Flags().Changed("status") {
				params.Status = &status
			}

			updated, err := eng.UpdatePage(ctx, actor, page.ID, params)
			if err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Updated %s (version %d)", p.FormatSlug(updated.Slug), updated.Version))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Markdown file with the new content (- for stdin)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&newSlug, "slug", "", "New slug (references elsewhere are rewritten)")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent page slug")
	cmd.Flags().BoolVar(&detach, "detach", false, "Move the page to the top level")
	cmd.Flags().StringVar(&section, "section", "", "New section path")
	cmd.Flags().StringVar(&status, "status", "", "New lifecycle status")
	return cmd
}

func newPageDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <slug>",
		Short:   "Delete a page, moving its children to the orphanage",
		Example: "  fernwiki page rm stale-notes",
		Args:    cobra.ExactArgs(1),
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
			res, err := eng.DeletePage(ctx, actor, page.ID)
			if err != nil {
				return err
			}
			if !quiet {
				p.PrintSuccess(fmt.Sprintf("Deleted %s", p.FormatSlug(res.Page.Slug)))
				for _, child := range res.Orphaned {
					p.PrintWarning(fmt.Sprintf("orphaned: %s", child.Slug))
				}
			}
			return nil
		},
	}
}

func newPageListCommand() *cobra.Command {
	var (
		parent   string
		section  string
		status   string
		topLevel bool
		orphans  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pages",
		Example: `  fernwiki page list
  fernwiki page list --section locations
  fernwiki page list --parent the-ashen-vale`,
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

			pages, err := eng.Pages.List(context.Background(), actor, wiki.ListFilter{
				ParentSlug: parent,
				TopLevel:   topLevel,
				Section:    section,
				Status:     status,
				Orphaned:   orphans,
			})
			if err != nil {
				return err
			}
			renderPageTable(cmd, pages)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Only children of this slug")
	cmd.Flags().BoolVar(&topLevel, "top", false, "Only top-level pages")
	cmd.Flags().StringVar(&section, "section", "", "Only this section")
	cmd.Flags().StringVar(&status, "status", "", "Only this status")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "Only orphaned pages")
	return cmd
}

func renderPageTable(cmd *cobra.Command, pages []db.Page) {
	if len(pages) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no pages")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Slug", "Title", "Section", "Status", "Ver", "Words"})
	for _, page := range pages {
		t.AppendRow(table.Row{page.Slug, page.Title, page.Section, page.Status, page.Version, page.WordCount})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func readContent(file string) (string, error) {
	switch file {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func joinSlugs(pages []db.Page) string {
	slugs := make([]string, 0, len(pages))
	for _, page := range pages {
		slugs = append(slugs, page.Slug)
	}
	return strings.Join(slugs, ", ")
}
