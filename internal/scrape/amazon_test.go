package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amazonPage(count, startID, hits int) map[string]any {
	jobs := make([]map[string]any, count)
	for i := range jobs {
		id := startID + i
		jobs[i] = map[string]any{
			"id":                       strconv.Itoa(id),
			"id_icims":                 fmt.Sprintf("27%d", id),
			"title":                    fmt.Sprintf("Robotics Engineer %d", id),
			"job_path":                 fmt.Sprintf("/en/jobs/27%d/robotics-engineer", id),
			"normalized_location":      "North Reading, MA",
			"job_category":             "Robotics",
			"description":              "<p>Design robots.</p>",
			"basic_qualifications":     "BS in CS",
			"preferred_qualifications": "MS in Robotics",
		}
	}
	return map[string]any{"hits": hits, "jobs": jobs}
}

func TestAmazonOffsetPaginationHonorsTotal(t *testing.T) {
	var offsets []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/en/search.json", r.URL.Path)
		assert.Equal(t, "USA", r.URL.Query().Get("country"))
		assert.Equal(t, "team-amazon-robotics", r.URL.Query().Get("team_category[]"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)

		count := amazonPageSize
		if offset+amazonPageSize > 30 {
			count = 30 - offset
		}
		_ = json.NewEncoder(w).Encode(amazonPage(count, offset, 30))
	}))
	defer server.Close()

	adapter := newAmazonAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Amazon",
		"https://amazon.jobs/content/en/teams/ftr/amazon-robotics#search")
	require.NoError(t, err)
	assert.Len(t, jobs, 30)
	assert.Equal(t, []int{0, amazonPageSize}, offsets)

	first := jobs[0]
	id, native := first.ID.Native()
	assert.True(t, native)
	assert.Equal(t, "270", id, "iCIMS id wins over the numeric id")
	assert.Equal(t, server.URL+"/en/jobs/270/robotics-engineer", first.URL)
	assert.Equal(t, "North Reading, MA", first.Location)
	// Qualifications ride along with the description for matching.
	assert.Contains(t, first.Description, "BS in CS")
	assert.Contains(t, first.Description, "MS in Robotics")
}

func TestAmazonEmptyFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(amazonPage(0, 0, 0))
	}))
	defer server.Close()

	adapter := newAmazonAdapter(testClient())
	adapter.api = server.URL

	jobs, err := adapter.ListJobs(context.Background(), "Amazon", "https://amazon.jobs/en/search")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestAmazonFetchDescriptionStripsInlineHTML(t *testing.T) {
	adapter := newAmazonAdapter(testClient())
	job := newTestJob("271234", "https://amazon.jobs/en/search")
	job.Description = "<p>Design robots.</p>\nBS in CS"

	got := adapter.FetchDescription(context.Background(), job)
	assert.Equal(t, "Design robots. BS in CS", got)
}
