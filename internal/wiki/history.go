package wiki

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/quillstonelabs/fernwiki/internal/codec"
	"github.com/quillstonelabs/fernwiki/internal/db"
	"github.com/quillstonelabs/fernwiki/internal/markdown"
	"github.com/quillstonelabs/fernwiki/internal/perm"
	"github.com/quillstonelabs/fernwiki/internal/shared"
)

// Version is a decoded history snapshot.
type Version struct {
	PageID    int64              `json:"page_id"`
	Version   int                `json:"version"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Summary   string             `json:"summary,omitempty"`
	Stats     markdown.DiffStats `json:"stats"`
	CreatedBy string             `json:"created_by"`
	CreatedAt string             `json:"created_at"`
}

// History is the append-only version store. Snapshot bodies are
// zstd-compressed at rest and kept forever.
type History struct {
	store *db.Store
	pages *PageManager
	log   *log.Logger
}

// NewHistory returns a history store backed by store.
func NewHistory(store *db.Store, pages *PageManager, logger *log.Logger) *History {
	return &History{store: store, pages: pages, log: logger}
}

func decodeVersion(row *db.PageVersion) (*Version, error) {
	content, err := codec.DecompressString(row.Body)
	if err != nil {
		return nil, fmt.Errorf("decode version %d of page %d: %w", row.Version, row.PageID, err)
	}
	return &Version{
		PageID:    row.PageID,
		Version:   row.Version,
		Title:     row.Title,
		Content:   content,
		Summary:   row.Summary,
		Stats:     markdown.DiffStats{LinesAdded: row.LinesAdded, LinesRemoved: row.LinesRemoved, CharDelta: row.CharDelta},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}, nil
}

// Snapshot records the page's current title and content under its current
// version number, with diff statistics against the preceding snapshot.
// Summaries are stored single-line. Callers bump the page's version
// counter before snapshotting a content change; Snapshot itself never
// touches the counter, so counter and row count stay one-to-one.
func (h *History) Snapshot(ctx context.Context, pageID int64, actor perm.Actor, summary string) (*Version, error) {
	page, err := h.pages.ByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	summary = shared.FirstLine(strings.TrimSpace(summary))

	var stats markdown.DiffStats
	prev, err := h.store.GetVersion(ctx, pageID, page.Version-1)
	switch {
	case err == nil:
		prevContent, err := codec.DecompressString(prev.Body)
		if err != nil {
			return nil, err
		}
		stats = markdown.Diff(prevContent, page.Content)
	case errors.Is(err, sql.ErrNoRows):
		stats = markdown.Diff("", page.Content)
	default:
		return nil, err
	}

	body, err := codec.CompressString(page.Content)
	if err != nil {
		return nil, err
	}
	row := &db.PageVersion{
		PageID:       pageID,
		Version:      page.Version,
		Title:        page.Title,
		Body:         body,
		Summary:      summary,
		LinesAdded:   stats.LinesAdded,
		LinesRemoved: stats.LinesRemoved,
		CharDelta:    stats.CharDelta,
		CreatedBy:    actor.ID,
	}
	if _, err := h.store.InsertVersion(ctx, row); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflictf("version %d of page %d already recorded", page.Version, pageID)
		}
		return nil, err
	}
	h.log.Debug("snapshot recorded", "page", pageID, "version", page.Version, "summary", summary)
	return decodeVersion(row)
}

// Get returns one snapshot, or NotFoundError.
func (h *History) Get(ctx context.Context, pageID int64, version int) (*Version, error) {
	row, err := h.store.GetVersion(ctx, pageID, version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("version", fmt.Sprintf("%d of page %d", version, pageID))
	}
	if err != nil {
		return nil, err
	}
	return decodeVersion(row)
}

// Latest returns the newest snapshot, or NotFoundError.
func (h *History) Latest(ctx context.Context, pageID int64) (*Version, error) {
	row, err := h.store.LatestVersion(ctx, pageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("version", fmt.Sprintf("latest of page %d", pageID))
	}
	if err != nil {
		return nil, err
	}
	return decodeVersion(row)
}

// All returns a page's snapshots newest first.
func (h *History) All(ctx context.Context, pageID int64) ([]Version, error) {
	rows, err := h.store.ListVersions(ctx, pageID)
	if err != nil {
		return nil, err
	}
	versions := make([]Version, 0, len(rows))
	for i := range rows {
		v, err := decodeVersion(&rows[i])
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, nil
}

// Count returns the number of snapshots a page has.
func (h *History) Count(ctx context.Context, pageID int64) (int, error) {
	return h.store.CountVersions(ctx, pageID)
}

// Comparison holds two snapshots and the diff from the older to the
// newer as supplied.
type Comparison struct {
	From  *Version           `json:"from"`
	To    *Version           `json:"to"`
	Stats markdown.DiffStats `json:"stats"`
}

// Compare diffs two versions of a page. Comparing a version to itself
// yields a zero diff.
func (h *History) Compare(ctx context.Context, pageID int64, v1, v2 int) (*Comparison, error) {
	from, err := h.Get(ctx, pageID, v1)
	if err != nil {
		return nil, err
	}
	to, err := h.Get(ctx, pageID, v2)
	if err != nil {
		return nil, err
	}
	return &Comparison{From: from, To: to, Stats: markdown.Diff(from.Content, to.Content)}, nil
}

// Rollback restores a page to targetVersion. Admins may roll back any
// page; writers only pages they created. The pre-rollback state is
// snapshotted first so nothing is lost, then the restored state is
// snapshotted again: the counter advances by two and never reuses the
// target's historical number.
func (h *History) Rollback(ctx context.Context, actor perm.Actor, pageID int64, targetVersion int) (*db.Page, error) {
	page, err := h.pages.ByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if !perm.CanRollback(actor, page.CreatedBy) {
		return nil, forbiddenf("role %s cannot roll back page %q", actor.Role, page.Slug)
	}
	target, err := h.Get(ctx, pageID, targetVersion)
	if err != nil {
		return nil, err
	}

	err = h.store.UpdatePageFields(ctx, pageID, map[string]any{
		"version":    page.Version + 1,
		"updated_by": actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := h.Snapshot(ctx, pageID, actor, fmt.Sprintf("state before rollback to version %d", targetVersion)); err != nil {
		return nil, err
	}

	err = h.store.UpdatePageFields(ctx, pageID, map[string]any{
		"title":      target.Title,
		"content":    target.Content,
		"size_bytes": markdown.Size(target.Content),
		"word_count": markdown.WordCount(target.Content),
		"version":    page.Version + 2,
		"updated_by": actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := h.Snapshot(ctx, pageID, actor, fmt.Sprintf("rolled back to version %d", targetVersion)); err != nil {
		return nil, err
	}

	h.log.Info("page rolled back", "page", page.Slug, "target", targetVersion, "actor", actor.ID)
	return h.pages.ByID(ctx, pageID)
}
