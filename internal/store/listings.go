package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"remotive-ranker/internal/domain"
)

// RankedListing is the persisted form of a scored listing, shaped for the
// HTTP API and the workbook exporter.
type RankedListing struct {
	ID                int64    `json:"id"`
	Position          int      `json:"position"`
	SourceID          int64    `json:"sourceId"`
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	Category          string   `json:"category"`
	PublishedAt       string   `json:"publishedAt"`
	DaysOld           int      `json:"daysOld"`
	Salary            string   `json:"salary"`
	URL               string   `json:"url"`
	JobType           string   `json:"jobType"`
	Location          string   `json:"location"`
	Tags              []string `json:"tags"`
	KeywordMatches    int      `json:"keywordMatches"`
	RecencyScore      float64  `json:"recencyScore"`
	KeywordScore      float64  `json:"keywordScore"`
	CompensationScore float64  `json:"compensationScore"`
	Score             float64  `json:"score"`
}

// Run summarizes one refresh.
type Run struct {
	ID        int64  `json:"id"`
	StartedAt string `json:"startedAt"`
	Fetched   int    `json:"fetched"`
	Admitted  int    `json:"admitted"`
}

// ReplaceRanking swaps the stored snapshot for the new one in a single
// transaction, preserving the pipeline's order via position.
func ReplaceRanking(ctx context.Context, db *sql.DB, ranked []domain.ScoredListing) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings;`); err != nil {
		return fmt.Errorf("clear listings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO listings (
  position, source_id, title, company, category, published_at, days_old,
  salary, url, job_type, location, tags,
  keyword_matches, recency_score, keyword_score, compensation_score, score
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, l := range ranked {
		tags := "[]"
		if len(l.Tags) > 0 {
			b, _ := json.Marshal(l.Tags)
			tags = string(b)
		}
		if _, err := stmt.ExecContext(ctx,
			pos, l.SourceID, l.Title, l.Company, l.Category, l.PublishedAt, l.DaysOld,
			l.Salary, l.URL, l.JobType, l.Location, tags,
			l.KeywordMatches, l.RecencyScore, l.KeywordScore, l.CompensationScore, l.Score,
		); err != nil {
			return fmt.Errorf("insert listing %q: %w", l.Title, err)
		}
	}

	return tx.Commit()
}

// ListRanked returns the stored snapshot in rank order.
func ListRanked(ctx context.Context, db *sql.DB) ([]RankedListing, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, position, source_id, title, company, category, published_at, days_old,
       salary, url, job_type, location, tags,
       keyword_matches, recency_score, keyword_score, compensation_score, score
FROM listings
ORDER BY position ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RankedListing
	for rows.Next() {
		var l RankedListing
		var tagsJSON string
		if err := rows.Scan(
			&l.ID, &l.Position, &l.SourceID, &l.Title, &l.Company, &l.Category, &l.PublishedAt, &l.DaysOld,
			&l.Salary, &l.URL, &l.JobType, &l.Location, &tagsJSON,
			&l.KeywordMatches, &l.RecencyScore, &l.KeywordScore, &l.CompensationScore, &l.Score,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &l.Tags)
		out = append(out, l)
	}
	return out, rows.Err()
}

// RecordRun appends one refresh summary row.
func RecordRun(ctx context.Context, db *sql.DB, startedAt time.Time, fetched, admitted int) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (started_at, fetched, admitted) VALUES (?,?,?);`,
		startedAt.UTC().Format(time.RFC3339), fetched, admitted)
	return err
}

// LastRun returns the most recent refresh summary, or ok=false when no
// refresh has completed yet.
func LastRun(ctx context.Context, db *sql.DB) (Run, bool, error) {
	var r Run
	err := db.QueryRowContext(ctx,
		`SELECT id, started_at, fetched, admitted FROM runs ORDER BY id DESC LIMIT 1;`,
	).Scan(&r.ID, &r.StartedAt, &r.Fetched, &r.Admitted)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return r, true, nil
}

// MarkSeen records url if it has never been ranked before and reports
// whether it was new.
func MarkSeen(ctx context.Context, db *sql.DB, url string, at time.Time) (isNew bool, err error) {
	res, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen (url, first_seen) VALUES (?, ?);`,
		url, at.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// modernc reports rows affected; fall back to "not new" if not.
		return false, nil
	}
	return n > 0, nil
}
