package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workdayPage(count, startID, total int) map[string]any {
	postings := make([]map[string]any, count)
	for i := range postings {
		id := startID + i
		postings[i] = map[string]any{
			"title":         fmt.Sprintf("Data Engineer %d", id),
			"externalPath":  fmt.Sprintf("/en-US/External/job/Austin-TX/Data-Engineer_R%d", id),
			"locationsText": "Austin, TX",
			"bulletFields":  []string{fmt.Sprintf("R%d", id)},
		}
	}
	return map[string]any{"total": total, "jobPostings": postings}
}

func TestWorkdayPaginationDistrustsReportedTotal(t *testing.T) {
	var pagesServed int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/wday/cxs/acme/External/jobs", r.URL.Path)

		var req workdaySearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// The tenant claims 985 jobs but runs dry after 25. A short page,
		// not the total, must terminate the loop.
		var payload map[string]any
		switch req.Offset {
		case 0:
			payload = workdayPage(workdayPageSize, 1, 985)
		case workdayPageSize:
			payload = workdayPage(5, 21, 985)
		default:
			t.Errorf("unexpected offset %d", req.Offset)
			payload = workdayPage(0, 0, 985)
		}
		pagesServed++
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	adapter := newWorkdayAdapter(testClient())
	adapter.baseOverride = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme",
		"https://acme.wd1.myworkdayjobs.com/en-US/External")
	require.NoError(t, err)
	assert.Len(t, jobs, workdayPageSize+5)
	assert.Equal(t, 2, pagesServed)

	id, native := jobs[0].ID.Native()
	assert.True(t, native)
	assert.Equal(t, "R1", id)
	assert.Equal(t, server.URL+"/en-US/External/job/Austin-TX/Data-Engineer_R1", jobs[0].URL)
}

func TestWorkdaySiteName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://acme.wd1.myworkdayjobs.com/en-US/External", "External"},
		{"https://acme.wd5.myworkdayjobs.com/CareersSite/jobs", "CareersSite"},
		{"https://acme.wd1.myworkdayjobs.com/", "acme"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, workdaySiteName(tt.url, "acme"), tt.url)
	}
}

func TestWorkdayFetchDescriptionJoinsAllFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wday/cxs/acme/External/job/Austin-TX/Data-Engineer_R1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobPostingInfo": map[string]any{
				"jobDescription":        "<p>Build pipelines.</p>",
				"qualifications":        "<p>3+ years experience.</p>",
				"additionalInformation": "<p>Must be authorized to work in the US.</p>",
			},
		})
	}))
	defer server.Close()

	adapter := newWorkdayAdapter(testClient())
	adapter.baseOverride = server.URL

	job := newTestJob("R1", "https://acme.wd1.myworkdayjobs.com/en-US/External")
	// The locale prefix must be stripped before hitting the CXS API.
	job.URL = "https://acme.wd1.myworkdayjobs.com/en-US/External/job/Austin-TX/Data-Engineer_R1"

	got := adapter.FetchDescription(context.Background(), job)
	assert.Contains(t, got, "Build pipelines.")
	assert.Contains(t, got, "3+ years experience.")
	// Visa language often hides outside the main description field.
	assert.Contains(t, got, "authorized to work")
}
