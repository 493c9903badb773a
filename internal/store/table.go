package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	// The ranked snapshot of the latest refresh. position is the
	// pipeline's rank (0 = best) so the stable ordering survives
	// round-trips through the database.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  position INTEGER NOT NULL,
  source_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  category TEXT NOT NULL,
  published_at TEXT NOT NULL DEFAULT '',
  days_old INTEGER NOT NULL,
  salary TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  job_type TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  keyword_matches INTEGER NOT NULL,
  recency_score REAL NOT NULL,
  keyword_score REAL NOT NULL,
  compensation_score REAL NOT NULL,
  score REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_position ON listings(position);
`); err != nil {
		return err
	}

	// One row per refresh; feeds the workbook summary sheet.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  started_at TEXT NOT NULL,
  fetched INTEGER NOT NULL,
  admitted INTEGER NOT NULL
);
`); err != nil {
		return err
	}

	// URLs we have ever ranked; lets the notifier tell new listings apart
	// from re-ranked ones.
	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen (
  url TEXT PRIMARY KEY,
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
