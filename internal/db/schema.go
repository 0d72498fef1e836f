package db

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT    NOT NULL,
	slug          TEXT    NOT NULL UNIQUE,
	content       TEXT    NOT NULL DEFAULT '',
	parent_id     INTEGER REFERENCES pages(id),
	section       TEXT    NOT NULL DEFAULT '',
	sort_order    INTEGER NOT NULL DEFAULT 0,
	status        TEXT    NOT NULL DEFAULT 'published',
	is_system     INTEGER NOT NULL DEFAULT 0,
	is_orphaned   INTEGER NOT NULL DEFAULT 0,
	orphaned_from INTEGER,
	version       INTEGER NOT NULL DEFAULT 1,
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	word_count    INTEGER NOT NULL DEFAULT 0,
	file_path     TEXT    NOT NULL DEFAULT '',
	created_by    TEXT    NOT NULL DEFAULT '',
	updated_by    TEXT    NOT NULL DEFAULT '',
	created_at    TEXT    NOT NULL DEFAULT (datetime('now')),
	updated_at    TEXT    NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_pages_parent  ON pages(parent_id);
CREATE INDEX IF NOT EXISTS idx_pages_section ON pages(section);
CREATE INDEX IF NOT EXISTS idx_pages_status  ON pages(status);

CREATE TABLE IF NOT EXISTS page_links (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id  INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	target_id  INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	created_at TEXT    NOT NULL DEFAULT (datetime('now')),
	UNIQUE(source_id, target_id)
);

CREATE INDEX IF NOT EXISTS idx_links_source ON page_links(source_id);
CREATE INDEX IF NOT EXISTS idx_links_target ON page_links(target_id);

CREATE TABLE IF NOT EXISTS page_versions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id       INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	version       INTEGER NOT NULL,
	title         TEXT    NOT NULL,
	body          BLOB    NOT NULL,
	summary       TEXT    NOT NULL DEFAULT '',
	lines_added   INTEGER NOT NULL DEFAULT 0,
	lines_removed INTEGER NOT NULL DEFAULT 0,
	char_delta    INTEGER NOT NULL DEFAULT 0,
	created_by    TEXT    NOT NULL DEFAULT '',
	created_at    TEXT    NOT NULL DEFAULT (datetime('now')),
	UNIQUE(page_id, version)
);

CREATE INDEX IF NOT EXISTS idx_versions_page ON page_versions(page_id, version DESC);

CREATE TABLE IF NOT EXISTS index_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id    INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	term       TEXT    NOT NULL,
	snippet    TEXT,
	position   INTEGER,
	is_keyword INTEGER NOT NULL DEFAULT 0,
	is_manual  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_entries_term ON index_entries(term);
CREATE INDEX IF NOT EXISTS idx_entries_page ON index_entries(page_id);
`
