package sqlite

import "fmt"

type migration struct {
	version int
	sql     string
}

// migrations are applied in order; each one records its own version.
// Never edit a migration that has shipped, append a new one instead.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE users (
	id           TEXT PRIMARY KEY,
	google_id    TEXT NOT NULL UNIQUE,
	email        TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	avatar_url   TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE ideas (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title       TEXT NOT NULL CHECK (length(trim(title)) > 0),
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'To Do'
	            CHECK (status IN ('To Do', 'In Progress', 'Done', 'Archived')),
	rating      INTEGER NOT NULL DEFAULT 50 CHECK (rating BETWEEN 1 AND 100),
	type        TEXT CHECK (type IS NULL OR type IN ('WebApp', 'Software', 'Embedded', 'Physical Product', 'Service')),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
CREATE INDEX idx_ideas_user_created ON ideas(user_id, created_at);

CREATE TABLE tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	idea_id     INTEGER NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
	name        TEXT NOT NULL CHECK (length(trim(name)) > 0),
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT,
	status      TEXT NOT NULL DEFAULT 'To Do'
	            CHECK (status IN ('To Do', 'In Progress', 'Done')),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
CREATE INDEX idx_tasks_idea_created ON tasks(idea_id, created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// migrate brings the schema up to the newest version. Each migration runs in
// its own transaction so a failure leaves the previous version intact.
func (db *DB) migrate() error {
	current := 0

	var tableCount int
	err := db.db.Get(&tableCount,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'`)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		if err := db.db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
	}

	return nil
}
