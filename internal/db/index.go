package db

import (
	"context"
	"database/sql"
)

// IndexEntry is one search index row: a full-text occurrence (with snippet
// and position) or a keyword (automatic or manually tagged).
type IndexEntry struct {
	ID        int64  `json:"id"`
	PageID    int64  `json:"page_id"`
	Term      string `json:"term"`
	Snippet   string `json:"snippet,omitempty"`
	Position  *int   `json:"position,omitempty"`
	IsKeyword bool   `json:"is_keyword"`
	IsManual  bool   `json:"is_manual"`
}

// ReplaceIndexEntries swaps out every index row of pageID in one
// transaction, so readers never observe a partially indexed page.
func (s *Store) ReplaceIndexEntries(ctx context.Context, pageID int64, entries []IndexEntry) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM index_entries WHERE page_id = ?`, pageID); err != nil {
			return err
		}
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO index_entries (page_id, term, snippet, position, is_keyword, is_manual)
				VALUES (?, ?, ?, ?, ?, ?)`,
				pageID, e.Term, e.Snippet, e.Position, e.IsKeyword, e.IsManual); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertIndexEntry adds a single row, used for manual keyword tags.
func (s *Store) InsertIndexEntry(ctx context.Context, e IndexEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO index_entries (page_id, term, snippet, position, is_keyword, is_manual)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.PageID, e.Term, e.Snippet, e.Position, e.IsKeyword, e.IsManual)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteKeywordEntry removes a keyword row and reports whether one existed.
func (s *Store) DeleteKeywordEntry(ctx context.Context, pageID int64, term string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM index_entries WHERE page_id = ? AND term = ? AND is_keyword = 1`,
		pageID, term)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// KeywordEntries returns the keyword rows of a page, manual tags first.
func (s *Store) KeywordEntries(ctx context.Context, pageID int64) ([]IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, page_id, term, COALESCE(snippet, ''), position, is_keyword, is_manual
		FROM index_entries
		WHERE page_id = ? AND is_keyword = 1
		ORDER BY is_manual DESC, term`, pageID)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// Match pairs an index row with the page it indexes, for scoring.
type Match struct {
	Entry IndexEntry
	Page  Page
}

// EntriesMatching returns index rows whose term starts with prefix, joined
// with their pages. Scoring and visibility filtering happen above this
// layer.
func (s *Store) EntriesMatching(ctx context.Context, prefix string) ([]Match, error) {
	escaped := likeEscaper.Replace(prefix)
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.page_id, e.term, COALESCE(e.snippet, ''), e.position,
			e.is_keyword, e.is_manual, `+prefixedPageColumns+`
		FROM index_entries e JOIN pages p ON p.id = e.page_id
		WHERE e.term LIKE ? || '%' ESCAPE '\'`, escaped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []Match
	for rows.Next() {
		var m Match
		err := rows.Scan(
			&m.Entry.ID, &m.Entry.PageID, &m.Entry.Term, &m.Entry.Snippet,
			&m.Entry.Position, &m.Entry.IsKeyword, &m.Entry.IsManual,
			&m.Page.ID, &m.Page.Title, &m.Page.Slug, &m.Page.Content,
			&m.Page.ParentID, &m.Page.Section, &m.Page.SortOrder, &m.Page.Status,
			&m.Page.IsSystem, &m.Page.IsOrphaned, &m.Page.OrphanedFrom,
			&m.Page.Version, &m.Page.SizeBytes, &m.Page.WordCount, &m.Page.FilePath,
			&m.Page.CreatedBy, &m.Page.UpdatedBy, &m.Page.CreatedAt, &m.Page.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func collectEntries(rows *sql.Rows) ([]IndexEntry, error) {
	defer rows.Close()
	var entries []IndexEntry
	for rows.Next() {
		var e IndexEntry
		if err := rows.Scan(&e.ID, &e.PageID, &e.Term, &e.Snippet, &e.Position, &e.IsKeyword, &e.IsManual); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
