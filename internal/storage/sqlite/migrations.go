package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as decimal text and timestamps as RFC 3339 text so
// neither loses precision or its timezone offset.
const schema = `
CREATE TABLE IF NOT EXISTS parties (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    trusted INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    owner_id TEXT NOT NULL,
    alias TEXT NOT NULL,
    target_id TEXT NOT NULL,
    PRIMARY KEY (owner_id, alias),
    FOREIGN KEY (owner_id) REFERENCES parties(id),
    FOREIGN KEY (target_id) REFERENCES parties(id)
);

CREATE TABLE IF NOT EXISTS obligations (
    id TEXT PRIMARY KEY,
    ower_id TEXT NOT NULL,
    owee_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    reason TEXT NOT NULL,
    created_at TEXT NOT NULL,
    settled INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (ower_id) REFERENCES parties(id),
    FOREIGN KEY (owee_id) REFERENCES parties(id),
    CHECK (ower_id <> owee_id)
);

CREATE INDEX IF NOT EXISTS idx_contacts_target_id ON contacts(target_id);
CREATE INDEX IF NOT EXISTS idx_obligations_pair ON obligations(ower_id, owee_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
