// Package refresh runs the fetch → rank → store cycle and keeps its
// status observable for the HTTP API.
package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/events"
	"remotive-ranker/internal/netutil"
	"remotive-ranker/internal/rank"
	"remotive-ranker/internal/remotive"
	"remotive-ranker/internal/store"
)

// Notifier receives first-time listings after a refresh, in rank order.
type Notifier interface {
	NotifyNew(fresh []store.RankedListing)
}

type Result struct {
	Fetched  int `json:"fetched"`
	Admitted int `json:"admitted"`
	New      int `json:"new"`
}

// Status mirrors the latest refresh lifecycle for /refresh/status.
type Status struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastError string `json:"last_error"`
	Fetched   int    `json:"fetched"`
	Admitted  int    `json:"admitted"`
	Running   bool   `json:"running"`
}

// RunOnce fetches the Remotive feed, ranks it against the current
// filters and weights, and replaces the stored snapshot. The ranking
// itself is pure; everything stateful (clock, network, database) happens
// out here.
func RunOnce(ctx context.Context, db *sql.DB, cfg config.Config, hub *events.Hub, notifier Notifier) (Result, error) {
	now := time.Now().UTC()

	client := remotive.New(remotive.Config{
		BaseURL:  cfg.Source.BaseURL,
		Searches: cfg.Source.Searches,
		Timeout:  time.Duration(cfg.Source.RequestTimeoutSeconds) * time.Second,
	}, netutil.NewPacer(1.0, 2))

	listings, err := client.FetchAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %w", err)
	}

	ranked := rank.Rank(listings, cfg.Filters, cfg.Weights, now)
	log.Printf("[refresh] fetched=%d admitted=%d", len(listings), len(ranked))

	if err := store.ReplaceRanking(ctx, db, ranked); err != nil {
		return Result{}, fmt.Errorf("store ranking: %w", err)
	}
	if err := store.RecordRun(ctx, db, now, len(listings), len(ranked)); err != nil {
		return Result{}, fmt.Errorf("record run: %w", err)
	}

	rows, err := store.ListRanked(ctx, db)
	if err != nil {
		return Result{}, fmt.Errorf("read back ranking: %w", err)
	}

	var fresh []store.RankedListing
	for _, row := range rows {
		isNew, serr := store.MarkSeen(ctx, db, row.URL, now)
		if serr != nil {
			log.Printf("[refresh] mark seen url=%q err=%v", row.URL, serr)
			continue
		}
		if isNew {
			fresh = append(fresh, row)
			if hub != nil {
				hub.Publish(events.New("listing_new", map[string]any{
					"title": row.Title, "score": row.Score,
				}))
			}
		}
	}

	if hub != nil {
		hub.Publish(events.New("ranking_updated", map[string]any{
			"fetched": len(listings), "admitted": len(ranked), "new": len(fresh),
		}))
	}

	if notifier != nil && len(fresh) > 0 {
		notifier.NotifyNew(fresh)
	}

	return Result{Fetched: len(listings), Admitted: len(ranked), New: len(fresh)}, nil
}
