package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "wiki.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertTestPage(t *testing.T, s *Store, slug, content string) int64 {
	t.Helper()
	id, err := s.InsertPage(context.Background(), &Page{
		Title:   slug,
		Slug:    slug,
		Content: content,
		Status:  "published",
		Version: 1,
	})
	if err != nil {
		t.Fatalf("InsertPage(%q) failed: %v", slug, err)
	}
	return id
}

func TestOpenMissingPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.migrate(); err != nil {
		t.Errorf("second migrate failed: %v", err)
	}
}

func TestPageCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := insertTestPage(t, s, "ashen-vale", "# Ashen Vale\n\nA burned forest.")
	p, err := s.GetPage(ctx, id)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if p.Slug != "ashen-vale" || p.Version != 1 {
		t.Errorf("got slug=%q version=%d", p.Slug, p.Version)
	}

	if err := s.UpdatePageFields(ctx, id, map[string]any{"title": "Ashen Vale", "version": 2}); err != nil {
		t.Fatalf("UpdatePageFields failed: %v", err)
	}
	p, err = s.GetPageBySlug(ctx, "ashen-vale")
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	if p.Title != "Ashen Vale" || p.Version != 2 {
		t.Errorf("update not applied: title=%q version=%d", p.Title, p.Version)
	}

	if err := s.DeletePage(ctx, id); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	if _, err := s.GetPage(ctx, id); err != sql.ErrNoRows {
		t.Errorf("GetPage after delete: want sql.ErrNoRows, got %v", err)
	}
	if err := s.DeletePage(ctx, id); err != sql.ErrNoRows {
		t.Errorf("double delete: want sql.ErrNoRows, got %v", err)
	}
}

func TestSlugUniqueness(t *testing.T) {
	s := openTestStore(t)
	insertTestPage(t, s, "dupe", "")
	_, err := s.InsertPage(context.Background(), &Page{Title: "dupe", Slug: "dupe", Status: "published", Version: 1})
	if !IsUniqueViolation(err) {
		t.Errorf("want unique violation, got %v", err)
	}
}

func TestSlugsWithPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, slug := range []string{"moon", "moon-2", "moonlight", "sun"} {
		insertTestPage(t, s, slug, "")
	}
	slugs, err := s.SlugsWithPrefix(ctx, "moon")
	if err != nil {
		t.Fatalf("SlugsWithPrefix failed: %v", err)
	}
	// moonlight must not match: only "moon" and "moon-<n>" collide.
	if len(slugs) != 2 {
		t.Errorf("got %v, want [moon moon-2]", slugs)
	}
}

func TestReplaceLinksAndCascade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := insertTestPage(t, s, "a", "")
	b := insertTestPage(t, s, "b", "")
	c := insertTestPage(t, s, "c", "")

	if err := s.ReplaceLinks(ctx, a, []int64{b, c, c}); err != nil {
		t.Fatalf("ReplaceLinks failed: %v", err)
	}
	out, err := s.OutgoingPages(ctx, a)
	if err != nil {
		t.Fatalf("OutgoingPages failed: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("duplicate target should collapse, got %d edges", len(out))
	}

	in, err := s.IncomingPages(ctx, c)
	if err != nil {
		t.Fatalf("IncomingPages failed: %v", err)
	}
	if len(in) != 1 || in[0].Slug != "a" {
		t.Errorf("incoming of c = %v", in)
	}

	if err := s.DeletePage(ctx, c); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	incoming, outgoing, err := s.LinkCounts(ctx, a)
	if err != nil {
		t.Fatalf("LinkCounts failed: %v", err)
	}
	if incoming != 0 || outgoing != 1 {
		t.Errorf("after cascade: incoming=%d outgoing=%d, want 0/1", incoming, outgoing)
	}
}

func TestVersionRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := insertTestPage(t, s, "chronicle", "v1")

	for v := 1; v <= 3; v++ {
		_, err := s.InsertVersion(ctx, &PageVersion{
			PageID: id, Version: v, Title: "chronicle", Body: []byte{0x1}, CreatedBy: "w1",
		})
		if err != nil {
			t.Fatalf("InsertVersion(%d) failed: %v", v, err)
		}
	}
	if _, err := s.InsertVersion(ctx, &PageVersion{PageID: id, Version: 3, Title: "x", Body: []byte{0x1}}); !IsUniqueViolation(err) {
		t.Errorf("duplicate version number: want unique violation, got %v", err)
	}

	latest, err := s.LatestVersion(ctx, id)
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if latest.Version != 3 {
		t.Errorf("latest = %d, want 3", latest.Version)
	}

	all, err := s.ListVersions(ctx, id)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(all) != 3 || all[0].Version != 3 || all[2].Version != 1 {
		t.Errorf("ListVersions order wrong: %+v", all)
	}

	n, err := s.CountVersions(ctx, id)
	if err != nil || n != 3 {
		t.Errorf("CountVersions = %d, %v", n, err)
	}
}

func TestIndexEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := insertTestPage(t, s, "glossary", "dragon dragonfly")

	pos := 0
	err := s.ReplaceIndexEntries(ctx, id, []IndexEntry{
		{Term: "dragon", Snippet: "dragon dragonfly", Position: &pos},
		{Term: "dragonfly", Snippet: "dragon dragonfly"},
		{Term: "dragon", IsKeyword: true},
	})
	if err != nil {
		t.Fatalf("ReplaceIndexEntries failed: %v", err)
	}

	matches, err := s.EntriesMatching(ctx, "dragon")
	if err != nil {
		t.Fatalf("EntriesMatching failed: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("prefix match count = %d, want 3", len(matches))
	}

	matches, err = s.EntriesMatching(ctx, "dragonf")
	if err != nil {
		t.Fatalf("EntriesMatching failed: %v", err)
	}
	if len(matches) != 1 || matches[0].Entry.Term != "dragonfly" {
		t.Errorf("narrow prefix match = %+v", matches)
	}

	removed, err := s.DeleteKeywordEntry(ctx, id, "dragon")
	if err != nil || !removed {
		t.Errorf("DeleteKeywordEntry = %v, %v", removed, err)
	}
	removed, err = s.DeleteKeywordEntry(ctx, id, "dragon")
	if err != nil || removed {
		t.Errorf("second DeleteKeywordEntry should report no row, got %v, %v", removed, err)
	}
}
