package wiki

import (
	"context"
	"database/sql"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/markdown"
)

// LinkGraph derives directed page-to-page edges from content. Edges are
// never edited directly; each sync rebuilds a page's outgoing set from
// scratch, which makes the operation idempotent.
type LinkGraph struct {
	store *db.Store
	log   *log.Logger
}

// NewLinkGraph returns a graph maintainer backed by store.
func NewLinkGraph(store *db.Store, logger *log.Logger) *LinkGraph {
	return &LinkGraph{store: store, log: logger}
}

// Sync replaces the outgoing edges of pageID with the references found in
// content. References that do not resolve to an existing page are dropped
// silently; brokenness is computed on demand, never stored.
func (g *LinkGraph) Sync(ctx context.Context, pageID int64, content string) error {
	var targets []int64
	for _, slug := range markdown.ExtractReferences(content) {
		target, err := g.store.GetPageBySlug(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return err
		}
		targets = append(targets, target.ID)
	}
	return g.store.ReplaceLinks(ctx, pageID, targets)
}

// Outgoing returns the pages pageID links to.
func (g *LinkGraph) Outgoing(ctx context.Context, pageID int64) ([]db.Page, error) {
	return g.store.OutgoingPages(ctx, pageID)
}

// Incoming returns the pages linking to pageID.
func (g *LinkGraph) Incoming(ctx context.Context, pageID int64) ([]db.Page, error) {
	return g.store.IncomingPages(ctx, pageID)
}

// RenameSlug rewrites every textual reference to oldSlug into newSlug
// across all page content and returns the pages that changed. It does not
// re-sync edges; the engine re-syncs and reindexes each affected page.
func (g *LinkGraph) RenameSlug(ctx context.Context, oldSlug, newSlug string) ([]db.Page, error) {
	candidates, err := g.store.PagesContaining(ctx, oldSlug)
	if err != nil {
		return nil, err
	}
	var affected []db.Page
	for _, page := range candidates {
		rewritten, n := markdown.RewriteReferences(page.Content, oldSlug, newSlug)
		if n == 0 {
			continue
		}
		err := g.store.UpdatePageFields(ctx, page.ID, map[string]any{
			"content":    rewritten,
			"size_bytes": markdown.Size(rewritten),
			"word_count": markdown.WordCount(rewritten),
		})
		if err != nil {
			return affected, err
		}
		page.Content = rewritten
		affected = append(affected, page)
	}
	if len(affected) > 0 {
		g.log.Info("slug references rewritten", "old", oldSlug, "new", newSlug, "pages", len(affected))
	}
	return affected, nil
}

// OnDelete removes every edge touching pageID. Normally redundant with
// cascade deletion; kept for callers cleaning up out-of-band.
func (g *LinkGraph) OnDelete(ctx context.Context, pageID int64) error {
	return g.store.DeleteLinksTouching(ctx, pageID)
}

// LinkStats summarizes a page's connectivity.
type LinkStats struct {
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
	Total    int `json:"total"`
}

// Statistics returns edge counts for pageID.
func (g *LinkGraph) Statistics(ctx context.Context, pageID int64) (*LinkStats, error) {
	in, out, err := g.store.LinkCounts(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return &LinkStats{Incoming: in, Outgoing: out, Total: in + out}, nil
}

// FindBroken returns edges whose target page no longer exists, scoped to
// one source page when pageID is non-nil.
func (g *LinkGraph) FindBroken(ctx context.Context, pageID *int64) ([]db.PageLink, error) {
	return g.store.BrokenLinks(ctx, pageID)
}
