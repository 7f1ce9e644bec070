package sqlite

import "database/sql"

// schema sets up the history tables. It runs on startup to ensure tables
// exist. Amounts are TEXT so decimals survive unchanged.
const schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    split_id TEXT NOT NULL,
    currency TEXT NOT NULL,
    total TEXT NOT NULL,
    payment_type TEXT NOT NULL,
    payment_value TEXT NOT NULL,
    split_mode TEXT NOT NULL,
    note TEXT,
    include_yourself INTEGER NOT NULL,
    number_of_people INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    shared_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history_participants (
    history_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    contact_value TEXT NOT NULL,
    contact_method TEXT NOT NULL,
    amount TEXT NOT NULL,
    avatar_uri TEXT,
    is_from_contacts INTEGER NOT NULL,
    is_yourself INTEGER NOT NULL,
    PRIMARY KEY (history_id, position),
    FOREIGN KEY (history_id) REFERENCES history(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS history_shares (
    history_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    participant_id TEXT NOT NULL,
    channel TEXT NOT NULL,
    shared_at INTEGER NOT NULL,
    PRIMARY KEY (history_id, position),
    FOREIGN KEY (history_id) REFERENCES history(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_history_shared_at ON history(shared_at);
CREATE INDEX IF NOT EXISTS idx_history_participants_history_id ON history_participants(history_id);
CREATE INDEX IF NOT EXISTS idx_history_shares_history_id ON history_shares(history_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
