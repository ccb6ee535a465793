package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

// stubAdapter lets tests force a particular adapter outcome.
type stubAdapter struct {
	jobs []*types.JobRecord
	err  error
	desc string
}

func (s *stubAdapter) ListJobs(_ context.Context, _, _ string) ([]*types.JobRecord, error) {
	return s.jobs, s.err
}

func (s *stubAdapter) FetchDescription(_ context.Context, _ *types.JobRecord) string {
	return s.desc
}

func TestScrapeCompanyStampsProvenance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/careers/openings/42">Staff Platform Engineer</a>
		</body></html>`)
	}))
	defer server.Close()

	s := NewScraper(testClient())
	source := types.CareerSource{Name: "Acme", CareerURL: server.URL + "/careers", Category: "infra"}
	jobs := s.ScrapeCompany(context.Background(), source)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, string(platform.Generic), job.Platform)
	assert.Equal(t, server.URL+"/careers", job.SourceURL)
	assert.Equal(t, "infra", job.Category)
	assert.Equal(t, "Staff Platform Engineer", job.Title)
}

func TestScrapeCompanyFallsBackToGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/jobs/experienced-reliability-engineer">Reliability Engineer</a>
		</body></html>`)
	}))
	defer server.Close()

	s := NewScraper(testClient())
	s.adapters[platform.Greenhouse] = &stubAdapter{err: errors.New("api unreachable")}

	jobs := s.listJobs(context.Background(), platform.Greenhouse, "Acme", server.URL+"/careers")
	require.Len(t, jobs, 1)
	assert.Equal(t, "Reliability Engineer", jobs[0].Title)
}

func TestScrapeCompanyKeepsPartialResults(t *testing.T) {
	partial := []*types.JobRecord{
		{Title: "Data Engineer", ID: types.NativeID("1")},
		{Title: "ML Engineer", ID: types.NativeID("2")},
	}
	s := NewScraper(testClient())
	s.adapters[platform.Lever] = &stubAdapter{jobs: partial, err: errors.New("page 3 timed out")}

	jobs := s.listJobs(context.Background(), platform.Lever, "Acme", "https://jobs.lever.co/acme")
	require.Len(t, jobs, 2)
	assert.Equal(t, "Data Engineer", jobs[0].Title)
}

func TestScrapeCompanyNeverErrorsOnDeadHost(t *testing.T) {
	s := NewScraper(testClient())
	source := types.CareerSource{Name: "Ghost Co", CareerURL: "http://127.0.0.1:1/careers"}
	jobs := s.ScrapeCompany(context.Background(), source)
	assert.Empty(t, jobs)
}

func TestFetchDescriptionDispatch(t *testing.T) {
	s := NewScraper(testClient())
	s.adapters[platform.Ashby] = &stubAdapter{desc: "Own the ingestion pipeline."}

	job := &types.JobRecord{Platform: string(platform.Ashby)}
	assert.Equal(t, "Own the ingestion pipeline.", s.FetchDescription(context.Background(), job))

	// Unknown platform falls through to the generic extractor.
	unknown := &types.JobRecord{Platform: "somethingelse"}
	assert.Equal(t, "", s.FetchDescription(context.Background(), unknown))
}
