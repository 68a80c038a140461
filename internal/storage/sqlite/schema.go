package sqlite

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history (
	id           TEXT PRIMARY KEY,
	toast_id     TEXT NOT NULL,
	kind         TEXT NOT NULL,
	position     TEXT NOT NULL,
	message      TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	reason       TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	dismissed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_dismissed_at ON history(dismissed_at);
CREATE INDEX IF NOT EXISTS idx_history_kind ON history(kind);
`
