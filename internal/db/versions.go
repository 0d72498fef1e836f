package db

import "context"

// PageVersion is one snapshot in a page's append-only history. Body holds
// the compressed page content.
type PageVersion struct {
	ID           int64  `json:"id"`
	PageID       int64  `json:"page_id"`
	Version      int    `json:"version"`
	Title        string `json:"title"`
	Body         []byte `json:"-"`
	Summary      string `json:"summary,omitempty"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
	CharDelta    int    `json:"char_delta"`
	CreatedBy    string `json:"created_by"`
	CreatedAt    string `json:"created_at"`
}

const versionColumns = `id, page_id, version, title, body, summary,
	lines_added, lines_removed, char_delta, created_by, created_at`

func scanVersion(row interface{ Scan(...any) error }) (*PageVersion, error) {
	var v PageVersion
	err := row.Scan(
		&v.ID, &v.PageID, &v.Version, &v.Title, &v.Body, &v.Summary,
		&v.LinesAdded, &v.LinesRemoved, &v.CharDelta, &v.CreatedBy, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// InsertVersion appends a snapshot row. The unique (page_id, version) pair
// rejects duplicate version numbers.
func (s *Store) InsertVersion(ctx context.Context, v *PageVersion) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO page_versions (page_id, version, title, body, summary,
			lines_added, lines_removed, char_delta, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.PageID, v.Version, v.Title, v.Body, v.Summary,
		v.LinesAdded, v.LinesRemoved, v.CharDelta, v.CreatedBy,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetVersion returns one snapshot of a page, or sql.ErrNoRows.
func (s *Store) GetVersion(ctx context.Context, pageID int64, version int) (*PageVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM page_versions WHERE page_id = ? AND version = ?`,
		pageID, version)
	return scanVersion(row)
}

// LatestVersion returns the newest snapshot of a page, or sql.ErrNoRows.
func (s *Store) LatestVersion(ctx context.Context, pageID int64) (*PageVersion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM page_versions WHERE page_id = ? ORDER BY version DESC LIMIT 1`,
		pageID)
	return scanVersion(row)
}

// ListVersions returns a page's snapshots newest first.
func (s *Store) ListVersions(ctx context.Context, pageID int64) ([]PageVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM page_versions WHERE page_id = ? ORDER BY version DESC`,
		pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var versions []PageVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// CountVersions returns the number of snapshots a page has.
func (s *Store) CountVersions(ctx context.Context, pageID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_versions WHERE page_id = ?`, pageID).Scan(&n)
	return n, err
}
