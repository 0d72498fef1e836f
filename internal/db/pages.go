package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Page is a node in the page forest.
type Page struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Content      string `json:"content"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	Section      string `json:"section,omitempty"`
	SortOrder    int    `json:"sort_order"`
	Status       string `json:"status"`
	IsSystem     bool   `json:"is_system"`
	IsOrphaned   bool   `json:"is_orphaned"`
	OrphanedFrom *int64 `json:"orphaned_from,omitempty"`
	Version      int    `json:"version"`
	SizeBytes    int    `json:"size_bytes"`
	WordCount    int    `json:"word_count"`
	FilePath     string `json:"file_path,omitempty"`
	CreatedBy    string `json:"created_by"`
	UpdatedBy    string `json:"updated_by"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

const pageColumns = `id, title, slug, content, parent_id, section, sort_order,
	status, is_system, is_orphaned, orphaned_from, version, size_bytes,
	word_count, file_path, created_by, updated_by, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (*Page, error) {
	var p Page
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.ParentID, &p.Section,
		&p.SortOrder, &p.Status, &p.IsSystem, &p.IsOrphaned, &p.OrphanedFrom,
		&p.Version, &p.SizeBytes, &p.WordCount, &p.FilePath,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPages(rows *sql.Rows) ([]Page, error) {
	defer rows.Close()
	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// InsertPage inserts p and returns the new row id.
func (s *Store) InsertPage(ctx context.Context, p *Page) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (title, slug, content, parent_id, section, sort_order,
			status, is_system, is_orphaned, orphaned_from, version, size_bytes,
			word_count, file_path, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Slug, p.Content, p.ParentID, p.Section, p.SortOrder,
		p.Status, p.IsSystem, p.IsOrphaned, p.OrphanedFrom, p.Version,
		p.SizeBytes, p.WordCount, p.FilePath, p.CreatedBy, p.UpdatedBy,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPage returns the page by id, or sql.ErrNoRows.
func (s *Store) GetPage(ctx context.Context, id int64) (*Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetPageBySlug returns the page by slug, or sql.ErrNoRows.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	return scanPage(row)
}

// UpdatePageFields applies a partial update. Column names are supplied by
// the engine, never by callers outside this module.
func (s *Store) UpdatePageFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	sets = append(sets, "updated_at = datetime('now')")
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE pages SET %s WHERE id = ?", strings.Join(sets, ", ")), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeletePage removes the page row. Link, version and index rows cascade.
func (s *Store) DeletePage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Children returns the direct children of parentID ordered by sort order.
func (s *Store) Children(ctx context.Context, parentID int64) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE parent_id = ? ORDER BY sort_order, id`, parentID)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

// PageFilter narrows ListPages. Zero values mean "no filter"; HasParent
// distinguishes "any parent" from "top-level only".
type PageFilter struct {
	ParentID *int64
	TopLevel bool
	Section  string
	Status   string
	Orphaned bool
}

// ListPages returns pages matching the filter ordered by section, sort
// order and id. Draft visibility is the engine's concern, not this layer's.
func (s *Store) ListPages(ctx context.Context, f PageFilter) ([]Page, error) {
	var conds []string
	var args []any
	switch {
	case f.ParentID != nil:
		conds = append(conds, "parent_id = ?")
		args = append(args, *f.ParentID)
	case f.TopLevel:
		conds = append(conds, "parent_id IS NULL")
	}
	if f.Section != "" {
		conds = append(conds, "section = ?")
		args = append(args, f.Section)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Orphaned {
		conds = append(conds, "is_orphaned = 1")
	}

	query := `SELECT ` + pageColumns + ` FROM pages`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY section, sort_order, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

// SlugsWithPrefix returns every slug starting with prefix, for slug
// de-duplication.
func (s *Store) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug FROM pages WHERE slug = ? OR slug LIKE ? || '-%'`, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PagesContaining returns pages whose content contains needle.
func (s *Store) PagesContaining(ctx context.Context, needle string) ([]Page, error) {
	escaped := likeEscaper.Replace(needle)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE content LIKE '%' || ? || '%' ESCAPE '\'`, escaped)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}

// PublishedPages returns non-archived published pages, optionally scoped
// to a section, ordered by title.
func (s *Store) PublishedPages(ctx context.Context, section string) ([]Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE status = 'published'`
	var args []any
	if section != "" {
		query += ` AND section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY title COLLATE NOCASE, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectPages(rows)
}
