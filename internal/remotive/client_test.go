package remotive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
  "job-count": 2,
  "jobs": [
    {
      "id": 101,
      "url": "https://remotive.com/remote-jobs/software-dev/ai-engineer-101",
      "title": "AI Engineer",
      "company_name": "Acme",
      "category": "Software Development",
      "tags": ["python", "ml"],
      "job_type": "full_time",
      "publication_date": "2024-07-30T10:21:11+00:00",
      "candidate_required_location": "Worldwide",
      "salary": "$140k-$180k",
      "description": "<p>Build <b>ML</b> pipelines in Python.</p>"
    },
    {
      "id": 102,
      "url": "https://remotive.com/remote-jobs/data/data-analyst-102",
      "title": "Data Analyst",
      "company_name": "Globex",
      "category": "Data",
      "job_type": "full_time",
      "publication_date": "",
      "candidate_required_location": "Europe",
      "salary": "",
      "description": "SQL dashboards"
    }
  ]
}`

func TestFetchAllMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	listings, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	ai := listings[0]
	assert.Equal(t, int64(101), ai.SourceID)
	assert.Equal(t, "AI Engineer", ai.Title)
	assert.Equal(t, "Acme", ai.Company)
	assert.Equal(t, "Software Development", ai.Category)
	assert.Equal(t, "2024-07-30T10:21:11+00:00", ai.PublishedAt)
	assert.Equal(t, "$140k-$180k", ai.Salary)
	assert.Equal(t, "Build ML pipelines in Python.", ai.Description, "HTML must be flattened")
	assert.Equal(t, []string{"python", "ml"}, ai.Tags)

	da := listings[1]
	assert.Equal(t, "", da.PublishedAt)
	assert.Equal(t, "", da.Salary)
}

func TestFetchAllDedupesAcrossSearches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Searches: []string{"python", "data"}}, nil)
	listings, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Len(t, listings, 2, "same IDs from both searches collapse")
}

func TestFetchAllPartialFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "upstream sad", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Searches: []string{"a", "b"}}, nil)
	listings, err := c.FetchAll(context.Background())
	require.NoError(t, err, "one failed search must not fail the run")
	assert.Len(t, listings, 2)
}

func TestFetchAllAllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil)
	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
}

func TestFlattenHTML(t *testing.T) {
	assert.Equal(t, "", FlattenHTML(""))
	assert.Equal(t, "plain text", FlattenHTML("plain text"))
	assert.Equal(t, "Python and AI role", FlattenHTML("<div><p>Python and\n<em>AI</em></p> role</div>"))
}
