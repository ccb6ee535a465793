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

func smartRecruitersPage(count, start, total int) map[string]any {
	content := make([]map[string]any, count)
	for i := range content {
		n := start + i
		content[i] = map[string]any{
			"id":   fmt.Sprintf("744%06d", n),
			"name": fmt.Sprintf("Test Engineer %d", n),
			"ref":  fmt.Sprintf("https://api.smartrecruiters.com/v1/companies/acme/postings/744%06d", n),
			"location": map[string]any{
				"city":   "Munich",
				"region": "Bavaria",
			},
			"department": map[string]any{"label": "Quality"},
		}
	}
	return map[string]any{"content": content, "totalFound": total}
}

func TestSmartRecruitersPaginationStopsAtTotal(t *testing.T) {
	total := smartRecruitersPageSize + 30
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/v1/companies/acme/postings", r.URL.Path)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		switch offset {
		case 0:
			_ = json.NewEncoder(w).Encode(smartRecruitersPage(smartRecruitersPageSize, 0, total))
		case smartRecruitersPageSize:
			_ = json.NewEncoder(w).Encode(smartRecruitersPage(30, smartRecruitersPageSize, total))
		default:
			t.Errorf("unexpected request with offset=%d", offset)
			_ = json.NewEncoder(w).Encode(smartRecruitersPage(0, 0, total))
		}
	}))
	defer server.Close()

	adapter := newSmartRecruitersAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://careers.smartrecruiters.com/acme")
	require.NoError(t, err)
	assert.Len(t, jobs, total)
	assert.Equal(t, int32(2), requests.Load())

	first := jobs[0]
	assert.Equal(t, "Test Engineer 0", first.Title)
	assert.Equal(t, "Munich, Bavaria", first.Location)
	assert.Equal(t, "Quality", first.Department)
}

func TestSmartRecruitersLocationOmitsEmptyParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := smartRecruitersPage(1, 0, 1)
		page["content"].([]map[string]any)[0]["location"] = map[string]any{"city": "Remote"}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	adapter := newSmartRecruitersAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://careers.smartrecruiters.com/acme")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Remote", jobs[0].Location)
}

func TestSmartRecruitersPartialResultsSurviveMidPaginationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(smartRecruitersPage(smartRecruitersPageSize, 0, 500))
	}))
	defer server.Close()

	adapter := newSmartRecruitersAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://careers.smartrecruiters.com/acme")
	require.Error(t, err)
	assert.Len(t, jobs, smartRecruitersPageSize)
}

func TestSmartRecruitersFetchDescriptionJoinsSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/companies/acme/postings/744000001", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobAd": map[string]any{
				"sections": map[string]any{
					"jobDescription":        map[string]any{"text": "<p>Validate wafer inspection tools.</p>"},
					"qualifications":        map[string]any{"text": "<p>BS in EE.</p>"},
					"additionalInformation": map[string]any{"text": ""},
					"companyDescription":    map[string]any{"text": "<p>Ignored marketing blurb.</p>"},
				},
			},
		})
	}))
	defer server.Close()

	adapter := newSmartRecruitersAdapter(testClient())
	adapter.api = server.URL

	job := newTestJob("744000001", "https://careers.smartrecruiters.com/acme")
	got := adapter.FetchDescription(context.Background(), job)
	assert.Equal(t, "Validate wafer inspection tools. BS in EE.", got)
	assert.NotContains(t, got, "marketing blurb")
}

func TestSmartRecruitersFetchDescriptionNeedsNativeID(t *testing.T) {
	adapter := newSmartRecruitersAdapter(testClient())
	job := newTestJobURL("https://jobs.smartrecruiters.com/acme/744", "https://careers.smartrecruiters.com/acme")
	assert.Empty(t, adapter.FetchDescription(context.Background(), job))
}
