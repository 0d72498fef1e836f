package wiki

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestVersionsGaplessFromOne(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Chronicle", Content: "first\n"})

	for i := 2; i <= 4; i++ {
		content := fmt.Sprintf("edit number %d\n", i)
		if _, err := e.UpdatePage(ctx, writer, page.ID, UpdateParams{Content: &content}); err != nil {
			t.Fatalf("edit %d failed: %v", i, err)
		}
	}

	all, err := e.History.All(ctx, page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("snapshot count = %d, want 4", len(all))
	}
	// newest first, strictly decreasing, down to 1
	for i, v := range all {
		if want := 4 - i; v.Version != want {
			t.Errorf("all[%d].Version = %d, want %d", i, v.Version, want)
		}
	}

	current, err := e.Pages.ByID(ctx, page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.Version != 4 {
		t.Errorf("page version = %d, want 4", current.Version)
	}
}

func TestSnapshotDiffStats(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Diffed", Content: "alpha\nbeta\n"})

	content := "alpha\ngamma\ndelta\n"
	if _, err := e.UpdatePage(ctx, writer, page.ID, UpdateParams{Content: &content}); err != nil {
		t.Fatal(err)
	}

	v2, err := e.History.Get(ctx, page.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v2.Stats.LinesAdded != 2 || v2.Stats.LinesRemoved != 1 {
		t.Errorf("stats = %+v, want 2 added 1 removed", v2.Stats)
	}
	if v2.Stats.CharDelta != len(content)-len("alpha\nbeta\n") {
		t.Errorf("char delta = %d", v2.Stats.CharDelta)
	}
}

func TestSnapshotSummarySingleLine(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Summarized", Content: "one\n"})

	if _, err := e.Pages.Update(ctx, writer, page.ID, UpdateParams{Content: strPtr("two\n")}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.History.Snapshot(ctx, page.ID, writer, "  reworked the intro\nand a trailing ramble\n"); err != nil {
		t.Fatal(err)
	}
	v2, err := e.History.Get(ctx, page.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v2.Summary != "reworked the intro" {
		t.Errorf("summary = %q", v2.Summary)
	}
}

func TestCompareSameVersionZeroDiff(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Same", Content: "stable\n"})

	cmp, err := e.History.Compare(ctx, page.ID, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Stats.LinesAdded != 0 || cmp.Stats.LinesRemoved != 0 || cmp.Stats.CharDelta != 0 {
		t.Errorf("self-compare stats = %+v, want zero", cmp.Stats)
	}
}

func TestRollbackAddsTwoVersions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Saga", Content: "the original text\n"})

	for i := 2; i <= 5; i++ {
		content := fmt.Sprintf("revision %d\n", i)
		if _, err := e.UpdatePage(ctx, writer, page.ID, UpdateParams{Content: &content}); err != nil {
			t.Fatal(err)
		}
	}
	before, err := e.History.Count(ctx, page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if before != 5 {
		t.Fatalf("count before rollback = %d, want 5", before)
	}

	restored, err := e.Rollback(ctx, admin, page.ID, 1)
	if err != nil {
		t.Fatalf("rollback failed: %v", err)
	}
	if restored.Content != "the original text\n" {
		t.Errorf("restored content = %q", restored.Content)
	}
	if restored.Version != 7 {
		t.Errorf("version after rollback = %d, want 7", restored.Version)
	}
	after, err := e.History.Count(ctx, page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after != before+2 {
		t.Errorf("count after rollback = %d, want %d", after, before+2)
	}

	// version 5 is preserved as the pre-rollback copy at 6
	v6, err := e.History.Get(ctx, page.ID, 6)
	if err != nil {
		t.Fatal(err)
	}
	if v6.Content != "revision 5\n" {
		t.Errorf("pre-rollback snapshot content = %q", v6.Content)
	}
}

func TestRollbackPermissions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Guarded", Content: "one\n"})
	content := "two\n"
	if _, err := e.UpdatePage(ctx, writer, page.ID, UpdateParams{Content: &content}); err != nil {
		t.Fatal(err)
	}

	var ferr *ForbiddenError
	if _, err := e.Rollback(ctx, writer2, page.ID, 1); !errors.As(err, &ferr) {
		t.Errorf("non-owner writer rollback: want ForbiddenError, got %v", err)
	}
	if _, err := e.Rollback(ctx, viewer, page.ID, 1); !errors.As(err, &ferr) {
		t.Errorf("viewer rollback: want ForbiddenError, got %v", err)
	}
	if _, err := e.Rollback(ctx, writer, page.ID, 1); err != nil {
		t.Errorf("owning writer rollback failed: %v", err)
	}
}

func TestRollbackMissingTarget(t *testing.T) {
	e := newTestEngine(t)
	page := mustCreate(t, e, CreateParams{Title: "Short", Content: "only one\n"})
	if _, err := e.Rollback(context.Background(), admin, page.ID, 9); !IsNotFound(err) {
		t.Errorf("missing target version: want NotFoundError, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	page := mustCreate(t, e, CreateParams{Title: "Tip", Content: "v1\n"})
	content := "v2\n"
	if _, err := e.UpdatePage(ctx, writer, page.ID, UpdateParams{Content: &content}); err != nil {
		t.Fatal(err)
	}
	latest, err := e.History.Latest(ctx, page.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Version != 2 || latest.Content != "v2\n" {
		t.Errorf("latest = v%d %q", latest.Version, latest.Content)
	}
}
