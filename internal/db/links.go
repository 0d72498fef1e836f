package db

import (
	"context"
	"database/sql"
)

// PageLink is a directed edge between two pages.
type PageLink struct {
	ID        int64  `json:"id"`
	SourceID  int64  `json:"source_id"`
	TargetID  int64  `json:"target_id"`
	CreatedAt string `json:"created_at"`
}

// ReplaceLinks atomically replaces the outgoing edges of sourceID with one
// edge per target id. Duplicate targets collapse via the unique pair
// constraint.
func (s *Store) ReplaceLinks(ctx context.Context, sourceID int64, targetIDs []int64) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM page_links WHERE source_id = ?`, sourceID); err != nil {
			return err
		}
		for _, target := range targetIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO page_links (source_id, target_id) VALUES (?, ?)`,
				sourceID, target); err != nil {
				return err
			}
		}
		return nil
	})
}

// OutgoingPages returns the pages sourceID links to.
func (s *Store) OutgoingPages(ctx context.Context, sourceID int64) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedPageColumns+`
		FROM page_links l JOIN pages p ON p.id = l.target_id
		WHERE l.source_id = ?
		ORDER BY p.title COLLATE NOCASE, p.id`, sourceID)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

// IncomingPages returns the pages linking to targetID.
func (s *Store) IncomingPages(ctx context.Context, targetID int64) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedPageColumns+`
		FROM page_links l JOIN pages p ON p.id = l.source_id
		WHERE l.target_id = ?
		ORDER BY p.title COLLATE NOCASE, p.id`, targetID)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

// DeleteLinksTouching removes every edge where id is either endpoint.
func (s *Store) DeleteLinksTouching(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM page_links WHERE source_id = ? OR target_id = ?`, id, id)
	return err
}

// LinkCounts returns the incoming and outgoing edge counts for id.
func (s *Store) LinkCounts(ctx context.Context, id int64) (incoming, outgoing int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM page_links WHERE target_id = ?),
			(SELECT COUNT(*) FROM page_links WHERE source_id = ?)`,
		id, id).Scan(&incoming, &outgoing)
	return incoming, outgoing, err
}

// BrokenLinks returns edges whose target row no longer exists. With
// foreign keys enforced this is empty; it defends against external data
// corruption.
func (s *Store) BrokenLinks(ctx context.Context, pageID *int64) ([]PageLink, error) {
	query := `
		SELECT l.id, l.source_id, l.target_id, l.created_at
		FROM page_links l LEFT JOIN pages t ON t.id = l.target_id
		WHERE t.id IS NULL`
	var args []any
	if pageID != nil {
		query += ` AND l.source_id = ?`
		args = append(args, *pageID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var links []PageLink
	for rows.Next() {
		var l PageLink
		if err := rows.Scan(&l.ID, &l.SourceID, &l.TargetID, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

const prefixedPageColumns = `p.id, p.title, p.slug, p.content, p.parent_id,
	p.section, p.sort_order, p.status, p.is_system, p.is_orphaned,
	p.orphaned_from, p.version, p.size_bytes, p.word_count, p.file_path,
	p.created_by, p.updated_by, p.created_at, p.updated_at`
