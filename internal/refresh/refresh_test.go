package refresh

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/events"
	"remotive-ranker/internal/store"
)

type captureNotifier struct {
	got []store.RankedListing
}

func (c *captureNotifier) NotifyNew(fresh []store.RankedListing) {
	c.got = append(c.got, fresh...)
}

func feedBody(now time.Time) string {
	return fmt.Sprintf(`{
  "job-count": 3,
  "jobs": [
    {"id": 1, "title": "AI Engineer", "company_name": "Acme", "category": "Software Development",
     "publication_date": %q, "salary": "$150k", "url": "https://example.com/1",
     "description": "<p>Python and AI</p>"},
    {"id": 2, "title": "Data Analyst", "company_name": "Globex", "category": "Data",
     "publication_date": %q, "salary": "", "url": "https://example.com/2",
     "description": "dashboards for data teams"},
    {"id": 3, "title": "Chef", "company_name": "Bistro", "category": "Hospitality",
     "publication_date": %q, "salary": "$60k", "url": "https://example.com/3",
     "description": "run the kitchen"}
  ]
}`,
		now.Format(time.RFC3339),
		now.AddDate(0, 0, -7).Format(time.RFC3339),
		now.AddDate(0, 0, -1).Format(time.RFC3339))
}

func testConfig(baseURL string) config.Config {
	var cfg config.Config
	cfg.Source.BaseURL = baseURL
	cfg.Source.RequestTimeoutSeconds = 5
	cfg.Filters.Keywords = []string{"python", "ai", "data"}
	cfg.Filters.MaxDaysOld = 30
	cfg.Weights.Recency = 0.5
	cfg.Weights.Keyword = 0.4
	cfg.Weights.Compensation = 0.1
	return cfg
}

func TestRunOnce(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody(now)))
	}))
	defer srv.Close()

	db, err := store.Open(filepath.Join(t.TempDir(), "ranker.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db))

	hub := events.NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	notifier := &captureNotifier{}
	res, err := RunOnce(context.Background(), db, testConfig(srv.URL), hub, notifier)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 2, res.Admitted, "Chef matches no keyword")
	assert.Equal(t, 2, res.New)

	rows, err := store.ListRanked(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AI Engineer", rows[0].Title)
	assert.Equal(t, "Data Analyst", rows[1].Title)
	assert.Greater(t, rows[0].Score, rows[1].Score)

	assert.Len(t, notifier.got, 2)

	// Two listing_new events plus one ranking_updated.
	assert.Len(t, sub, 3)

	// Second run over the same feed: nothing is new anymore.
	notifier.got = nil
	res, err = RunOnce(context.Background(), db, testConfig(srv.URL), hub, notifier)
	require.NoError(t, err)
	assert.Equal(t, 0, res.New)
	assert.Empty(t, notifier.got)
}

func TestSchedulerSkipsOverlappingRun(t *testing.T) {
	now := time.Now().UTC()
	entered := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			entered <- struct{}{}
			<-release
		}
		_, _ = w.Write([]byte(feedBody(now)))
	}))
	defer srv.Close()

	db, err := store.Open(filepath.Join(t.TempDir(), "ranker.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db))

	cfgVal := &atomic.Value{}
	cfgVal.Store(testConfig(srv.URL))
	status := &atomic.Value{}

	s := NewScheduler(db, cfgVal, status, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Run(context.Background())
	}()

	<-entered
	// Overlaps the in-flight run and must bail without fetching.
	s.Run(context.Background())
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
}

func TestRunOnceFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	db, err := store.Open(filepath.Join(t.TempDir(), "ranker.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db))

	_, err = RunOnce(context.Background(), db, testConfig(srv.URL), nil, nil)
	require.Error(t, err)

	// A failed fetch must not wipe a previously stored snapshot.
	rows, lerr := store.ListRanked(context.Background(), db)
	require.NoError(t, lerr)
	assert.Empty(t, rows)
}
