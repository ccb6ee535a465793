package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greenhousePage(count int, startID int64, total int) map[string]any {
	jobs := make([]map[string]any, count)
	for i := range jobs {
		id := startID + int64(i)
		jobs[i] = map[string]any{
			"id":           id,
			"title":        fmt.Sprintf("Data Analyst %d", id),
			"absolute_url": fmt.Sprintf("https://boards.greenhouse.io/acme/jobs/%d", id),
			"location":     map[string]any{"name": "Austin, TX"},
			"departments":  []map[string]any{{"name": "Analytics"}},
		}
	}
	return map[string]any{
		"jobs": jobs,
		"meta": map[string]any{"total": total},
	}
}

func TestGreenhousePaginationStopsOnShortPage(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		// The server claims 1000 jobs; the actual board has 140. The
		// short second page must end pagination regardless of the total.
		var payload map[string]any
		switch page {
		case 1:
			payload = greenhousePage(greenhousePageSize, 1000, 1000)
		case 2:
			payload = greenhousePage(40, 2000, 1000)
		default:
			t.Errorf("unexpected request for page %d", page)
			payload = greenhousePage(0, 0, 1000)
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	adapter := newGreenhouseAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://boards.greenhouse.io/acme")
	require.NoError(t, err)
	assert.Len(t, jobs, greenhousePageSize+40)
	assert.Equal(t, int32(2), requests.Load())

	first := jobs[0]
	id, native := first.ID.Native()
	assert.True(t, native)
	assert.Equal(t, "1000", id)
	assert.Equal(t, "Austin, TX", first.Location)
	assert.Equal(t, "Analytics", first.Department)
}

func TestGreenhousePartialResultsSurviveMidPaginationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(greenhousePage(greenhousePageSize, 1, 500))
	}))
	defer server.Close()

	adapter := newGreenhouseAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://boards.greenhouse.io/acme")
	require.Error(t, err)
	// The first page was already collected; callers keep it.
	assert.Len(t, jobs, greenhousePageSize)
}

func TestGreenhouseMissingSlugFails(t *testing.T) {
	adapter := newGreenhouseAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://example.com/careers")
	assert.Error(t, err)
	assert.Empty(t, jobs)
}

func TestGreenhouseFetchDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/boards/acme/jobs/4136373008", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": "<p>Requires <b>3+ years</b> SQL experience.</p>",
		})
	}))
	defer server.Close()

	adapter := newGreenhouseAdapter(testClient())
	adapter.api = server.URL

	job := newTestJob("4136373008", "https://boards.greenhouse.io/acme")
	got := adapter.FetchDescription(context.Background(), job)
	assert.Equal(t, "Requires 3+ years SQL experience.", got)
}

func TestGreenhouseFetchDescriptionRecoversIDFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/boards/acme/jobs/4136373008", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "Full description text."})
	}))
	defer server.Close()

	adapter := newGreenhouseAdapter(testClient())
	adapter.api = server.URL

	// A record that came through the generic fallback carries the posting
	// URL where a numeric ID should be.
	job := newTestJobURL("https://boards.greenhouse.io/acme/jobs/4136373008", "https://boards.greenhouse.io/acme")
	got := adapter.FetchDescription(context.Background(), job)
	assert.Equal(t, "Full description text.", got)
}
