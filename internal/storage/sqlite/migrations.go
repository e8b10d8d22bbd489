package sqlite

import "database/sql"

// schema sets up the file store. These run on startup to ensure tables exist.
// commits must be created BEFORE files due to the foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS commits (
    id TEXT PRIMARY KEY,
    message TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    content BLOB NOT NULL,
    commit_id TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (commit_id) REFERENCES commits(id)
);

CREATE INDEX IF NOT EXISTS idx_files_commit_id ON files(commit_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
