// Package remotive retrieves listings from the Remotive public API and
// normalizes them into domain records. The ranking core never sees raw
// API fields or HTML.
package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"remotive-ranker/internal/domain"
	"remotive-ranker/internal/netutil"
)

const DefaultBaseURL = "https://remotive.com/api/remote-jobs"

type Config struct {
	BaseURL  string
	Searches []string // optional search terms, fetched in parallel
	Timeout  time.Duration
}

type Client struct {
	cfg   Config
	hc    *http.Client
	pacer *netutil.Pacer
}

func New(cfg Config, pacer *netutil.Pacer) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		cfg:   cfg,
		hc:    &http.Client{Timeout: cfg.Timeout},
		pacer: pacer,
	}
}

// envelope mirrors the top-level Remotive JSON response.
type envelope struct {
	JobCount int          `json:"job-count"`
	Jobs     []apiListing `json:"jobs"`
}

// apiListing mirrors a single Remotive job object. Fields the core does
// not interpret are still carried for display.
type apiListing struct {
	ID              int64    `json:"id"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	JobType         string   `json:"job_type"`
	PublicationDate string   `json:"publication_date"`
	Location        string   `json:"candidate_required_location"`
	Salary          string   `json:"salary"`
	Description     string   `json:"description"`
}

// FetchAll pulls every configured search term in parallel and merges the
// results, de-duplicated by listing ID. With no search terms it does one
// unfiltered pull. One failing term logs and drops out; only all terms
// failing is an error, so a flaky API still yields a partial snapshot.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Listing, error) {
	searches := c.cfg.Searches
	if len(searches) == 0 {
		searches = []string{""}
	}

	var (
		mu     sync.Mutex
		byID   = make(map[int64]domain.Listing)
		failed int
	)

	var g errgroup.Group
	for _, term := range searches {
		term := term
		g.Go(func() error {
			batch, err := c.fetch(ctx, term)
			if err != nil {
				log.Printf("[remotive] search %q error: %v", term, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil // best-effort: don't cancel sibling fetches
			}
			mu.Lock()
			for _, l := range batch {
				if _, dup := byID[l.SourceID]; !dup {
					byID[l.SourceID] = l
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(searches) {
		return nil, fmt.Errorf("remotive: all %d fetches failed", failed)
	}

	out := make([]domain.Listing, 0, len(byID))
	for _, l := range byID {
		out = append(out, l)
	}
	// Map iteration is random; fix a deterministic input order for the
	// ranking pipeline's stable sort.
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out, nil
}

func (c *Client) fetch(ctx context.Context, search string) ([]domain.Listing, error) {
	reqURL := c.cfg.BaseURL
	if search != "" {
		reqURL += "?search=" + url.QueryEscape(search)
	}

	if c.pacer != nil {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "remotive-ranker/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("remotive status %d: %s", res.StatusCode, string(b))
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("remotive decode: %w", err)
	}

	out := make([]domain.Listing, 0, len(env.Jobs))
	for _, j := range env.Jobs {
		out = append(out, domain.Listing{
			SourceID:    j.ID,
			Title:       j.Title,
			Company:     j.CompanyName,
			Category:    j.Category,
			PublishedAt: j.PublicationDate,
			Salary:      j.Salary,
			Description: FlattenHTML(j.Description),
			URL:         j.URL,
			JobType:     j.JobType,
			Location:    j.Location,
			Tags:        j.Tags,
		})
	}
	return out, nil
}
