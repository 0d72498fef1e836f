package wiki

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/perm"
)

var (
	writer  = perm.Actor{ID: "w1", Role: perm.RoleWriter}
	writer2 = perm.Actor{ID: "w2", Role: perm.RoleWriter}
	admin   = perm.Actor{ID: "a1", Role: perm.RoleAdmin}
	viewer  = perm.Actor{ID: "v1", Role: perm.RoleViewer}
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "wiki.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewEngine(store, "", log.New(io.Discard))
}

func mustCreate(t *testing.T, e *Engine, p CreateParams) *db.Page {
	t.Helper()
	page, err := e.CreatePage(context.Background(), writer, p)
	if err != nil {
		t.Fatalf("CreatePage(%q) failed: %v", p.Title, err)
	}
	return page
}

func slugsOf(pages []db.Page) []string {
	slugs := make([]string, 0, len(pages))
	for _, p := range pages {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func containsSlug(pages []db.Page, slug string) bool {
	for _, p := range pages {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
