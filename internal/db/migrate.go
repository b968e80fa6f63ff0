package db

import (
	"database/sql"
	"fmt"
)

const contentSchemaVersion = 1

const contentSchemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
  assignment_id    TEXT PRIMARY KEY,
  title            TEXT NOT NULL,
  description      TEXT NOT NULL DEFAULT '',
  question         TEXT NOT NULL DEFAULT '',
  difficulty       TEXT NOT NULL DEFAULT 'beginner'
                   CHECK(difficulty IN ('beginner','intermediate','advanced')),
  tags             TEXT NOT NULL DEFAULT '[]',
  tables_used      TEXT NOT NULL DEFAULT '[]',
  expected_columns TEXT NOT NULL DEFAULT '[]',
  is_active        INTEGER NOT NULL DEFAULT 1,
  display_order    INTEGER NOT NULL DEFAULT 0,
  created_at       TEXT NOT NULL DEFAULT (datetime('now')),
  updated_at       TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_assignments_active_order
  ON assignments(is_active, display_order, created_at);

CREATE TABLE IF NOT EXISTS attempts (
  attempt_id    TEXT PRIMARY KEY,
  assignment_id TEXT NOT NULL,
  session_id    TEXT NOT NULL,
  sql_text      TEXT NOT NULL,
  succeeded     INTEGER NOT NULL DEFAULT 0,
  error_message TEXT,
  row_count     INTEGER NOT NULL DEFAULT 0,
  created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_attempts_assignment_session
  ON attempts(assignment_id, session_id, created_at);
`

// MigrateContent brings the content store schema up to the current version.
func MigrateContent(db *sql.DB) error {
	var current int
	row := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`)
	if err := row.Scan(&current); err != nil {
		// Table missing or empty: fresh database
		current = 0
	}

	if current >= contentSchemaVersion {
		return nil
	}

	if current < 1 {
		if _, err := db.Exec(contentSchemaV1); err != nil {
			return fmt.Errorf("apply content schema v1: %w", err)
		}
	}

	if _, err := db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version(version) VALUES (?)`, contentSchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
