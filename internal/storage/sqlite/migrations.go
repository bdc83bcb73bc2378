package sqlite

import "database/sql"

// schema sets up the database. It runs on startup so tables always exist.
// proposals.record holds the encoded proposal; the CHECK mirrors
// storage.MaxRecordSize so a bypassing writer still cannot grow a record.
const schema = `
CREATE TABLE IF NOT EXISTS proposals (
    id INTEGER PRIMARY KEY,
    record BLOB NOT NULL CHECK (length(record) <= 5000)
);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
