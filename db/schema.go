// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	key TEXT PRIMARY KEY,
	quota INTEGER NOT NULL DEFAULT 0,
	free_trial INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS quota_ledger (
	id TEXT PRIMARY KEY,
	customer_key TEXT NOT NULL,
	action TEXT NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0,
	note TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (customer_key) REFERENCES customers(key)
);

CREATE INDEX IF NOT EXISTS idx_quota_ledger_customer ON quota_ledger(customer_key, created_at DESC);

CREATE TABLE IF NOT EXISTS scan_log (
	id TEXT PRIMARY KEY,
	batch_id TEXT NOT NULL,
	file_name TEXT,
	action TEXT,
	status TEXT NOT NULL,
	reason TEXT,
	resource_name TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scan_log_batch ON scan_log(batch_id);
CREATE INDEX IF NOT EXISTS idx_scan_log_created ON scan_log(created_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
