package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecruiteeListJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/offers", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"offers": []map[string]any{
				{
					"id":          90210,
					"title":       "Mechatronics Engineer",
					"location":    "Eindhoven, Netherlands",
					"careers_url": "https://acme.recruitee.com/o/mechatronics-engineer",
					"department":  "Hardware",
					"description": "<p>Design <em>gripper</em> mechanisms.</p>",
				},
			},
		})
	}))
	defer server.Close()

	adapter := newRecruiteeAdapter(testClient())
	adapter.apiBase = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://acme.recruitee.com/")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	id, native := job.ID.Native()
	assert.True(t, native)
	assert.Equal(t, "90210", id)
	assert.Equal(t, "Mechatronics Engineer", job.Title)
	assert.Equal(t, "Hardware", job.Department)
	assert.Equal(t, "https://acme.recruitee.com/o/mechatronics-engineer", job.URL)
	assert.Equal(t, "Design gripper mechanisms.", job.Description)
}

func TestRecruiteeMissingSlugFails(t *testing.T) {
	adapter := newRecruiteeAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Acme", "https://example.com/careers")
	assert.Error(t, err)
	assert.Empty(t, jobs)
}

func TestRecruiteeFetchDescriptionReturnsStoredText(t *testing.T) {
	adapter := newRecruiteeAdapter(testClient())
	job := newTestJob("90210", "https://acme.recruitee.com/")
	job.Description = "Stored at listing time."
	assert.Equal(t, "Stored at listing time.", adapter.FetchDescription(context.Background(), job))
}
