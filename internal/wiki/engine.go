package wiki

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/perm"
)

// Engine composes the tree manager, link graph, history store and search
// index, and runs every content mutation through them in a fixed order:
// tree change first, then snapshot, then link sync, then reindex. The
// steps are individually transactional but not wrapped in one outer
// transaction; a failure partway leaves earlier steps committed, and a
// re-sync or reindex repairs the derived state.
type Engine struct {
	Pages   *PageManager
	Links   *LinkGraph
	History *History
	Search  *SearchIndex

	contentDir string
	log        *log.Logger
}

// NewEngine wires an engine over store. contentDir is the root of the
// file mirror; empty disables mirroring.
func NewEngine(store *db.Store, contentDir string, logger *log.Logger) *Engine {
	pages := NewPageManager(store, logger)
	return &Engine{
		Pages:      pages,
		Links:      NewLinkGraph(store, logger),
		History:    NewHistory(store, pages, logger),
		Search:     NewSearchIndex(store, logger),
		contentDir: contentDir,
		log:        logger,
	}
}

// Bootstrap prepares a fresh wiki: it creates the orphanage page and
// indexes it. Safe to call repeatedly.
func (e *Engine) Bootstrap(ctx context.Context) error {
	orphanage, err := e.Pages.Orphanage(ctx)
	if err != nil {
		return err
	}
	if n, err := e.History.Count(ctx, orphanage.ID); err != nil {
		return err
	} else if n == 0 {
		if _, err := e.History.Snapshot(ctx, orphanage.ID, perm.Actor{ID: "system", Role: perm.RoleAdmin}, "page created"); err != nil {
			return err
		}
	}
	if err := e.Search.Reindex(ctx, orphanage.ID, orphanage.Title, orphanage.Content); err != nil {
		return err
	}
	e.mirror(orphanage)
	return nil
}

// CreatePage creates a page and brings every derived store up to date.
func (e *Engine) CreatePage(ctx context.Context, actor perm.Actor, p CreateParams) (*db.Page, error) {
	page, err := e.Pages.Create(ctx, actor, p)
	if err != nil {
		return nil, err
	}
	if _, err := e.History.Snapshot(ctx, page.ID, actor, "page created"); err != nil {
		return nil, err
	}
	if err := e.refresh(ctx, page); err != nil {
		return nil, err
	}
	e.mirror(page)
	return page, nil
}

// UpdatePage applies a partial edit. A content change gets a snapshot and
// a derived-state refresh; a slug change additionally rewrites every
// reference to the old slug across the wiki and refreshes the pages that
// changed.
func (e *Engine) UpdatePage(ctx context.Context, actor perm.Actor, id int64, p UpdateParams) (*db.Page, error) {
	res, err := e.Pages.Update(ctx, actor, id, p)
	if err != nil {
		return nil, err
	}
	page := res.Page

	if res.ContentChanged {
		if _, err := e.History.Snapshot(ctx, id, actor, "content updated"); err != nil {
			return nil, err
		}
	}
	if res.ContentChanged || res.SlugChanged {
		if err := e.refresh(ctx, page); err != nil {
			return nil, err
		}
	}

	if res.OldFilePath != page.FilePath {
		e.unmirrorPath(res.OldFilePath)
	}
	if res.SlugChanged {
		affected, err := e.Links.RenameSlug(ctx, res.OldSlug, page.Slug)
		if err != nil {
			return nil, err
		}
		for i := range affected {
			if affected[i].ID == id {
				// own content was rewritten by the rename pass
				page, err = e.Pages.ByID(ctx, id)
				if err != nil {
					return nil, err
				}
				affected[i] = *page
			}
			if err := e.refresh(ctx, &affected[i]); err != nil {
				return nil, err
			}
			e.mirror(&affected[i])
		}
	}

	e.mirror(page)
	return page, nil
}

// DeletePage removes a page, reparenting its children to the orphanage.
func (e *Engine) DeletePage(ctx context.Context, actor perm.Actor, id int64) (*DeleteResult, error) {
	res, err := e.Pages.Delete(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	e.unmirrorPath(res.Page.FilePath)
	return res, nil
}

// ReassignOrphan moves an orphaned page under a new parent.
func (e *Engine) ReassignOrphan(ctx context.Context, actor perm.Actor, id int64, newParentSlug *string) (int, error) {
	return e.Pages.ReassignOrphan(ctx, actor, id, newParentSlug)
}

// Rollback restores a page to a historical version and refreshes the
// derived state for the restored content.
func (e *Engine) Rollback(ctx context.Context, actor perm.Actor, id int64, targetVersion int) (*db.Page, error) {
	page, err := e.History.Rollback(ctx, actor, id, targetVersion)
	if err != nil {
		return nil, err
	}
	if err := e.refresh(ctx, page); err != nil {
		return nil, err
	}
	e.mirror(page)
	return page, nil
}

// refresh re-derives a page's link edges and index rows from its current
// content.
func (e *Engine) refresh(ctx context.Context, page *db.Page) error {
	if err := e.Links.Sync(ctx, page.ID, page.Content); err != nil {
		return err
	}
	return e.Search.Reindex(ctx, page.ID, page.Title, page.Content)
}

// mirror writes the page to the content mirror. Best effort: the database
// is the source of truth, so a failed write is logged and ignored.
func (e *Engine) mirror(page *db.Page) {
	if e.contentDir == "" {
		return
	}
	path := filepath.Join(e.contentDir, filepath.FromSlash(page.FilePath))
	if err := db.EnsureDir(path); err != nil {
		e.log.Warn("content mirror dir failed", "path", path, "err", err)
		return
	}
	if err := os.WriteFile(path, []byte(page.Content), 0o644); err != nil {
		e.log.Warn("content mirror write failed", "path", path, "err", err)
	}
}

// unmirrorPath removes a stale mirror file after a delete or path change.
func (e *Engine) unmirrorPath(filePath string) {
	if e.contentDir == "" || filePath == "" {
		return
	}
	path := filepath.Join(e.contentDir, filepath.FromSlash(filePath))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.log.Warn("content mirror remove failed", "path", path, "err", err)
	}
}
