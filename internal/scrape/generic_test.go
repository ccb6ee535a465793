package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/fetch"
)

func testClient() *fetch.Client {
	return fetch.NewClient(&fetch.Options{
		Timeout:    5 * time.Second,
		MaxRetries: 0,
		Delay:      0,
	})
}

func TestGenericListJobs(t *testing.T) {
	page := `<html><body>
		<a href="/jobs/123">Senior Data Analyst</a>
		<a href="/positions/456">Backend Engineer</a>
		<a href="/about">About</a>
		<a href="/jobs/789">SWE</a>
		<a href="/careers/login">Login to your job account</a>
		<a href="/jobs/123-dup">Senior Data Analyst</a>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	adapter := newGenericAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Acme", server.URL+"/careers")
	require.NoError(t, err)

	// "About" has no job-like href or text, "SWE" is under the 5-char text
	// floor, the login link is skipped, and the duplicate title collapses.
	require.Len(t, jobs, 2)
	assert.Equal(t, "Senior Data Analyst", jobs[0].Title)
	assert.Equal(t, "Backend Engineer", jobs[1].Title)

	// Generic entries carry the resolved URL as their fallback identifier.
	assert.True(t, jobs[0].ID.IsURL())
	assert.Equal(t, server.URL+"/jobs/123", jobs[0].URL)
}

func TestGenericListJobsTextLengthGate(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	page := fmt.Sprintf(`<html><body>
		<a href="/jobs/1">%s</a>
		<a href="/jobs/2">Valid Job Posting</a>
	</body></html>`, long)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	adapter := newGenericAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Acme", server.URL)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Valid Job Posting", jobs[0].Title)
}

func TestGenericListJobsFetchFailureReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newGenericAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Acme", server.URL)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGenericFetchDescription(t *testing.T) {
	desc := "This role requires 3+ years of SQL experience and strong analytical skills. " +
		"You will build dashboards and partner with product teams on experimentation."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><div class="job-description">%s</div></body></html>`, desc)
	}))
	defer server.Close()

	adapter := newGenericAdapter(testClient())
	got := adapter.fetchDescriptionURL(context.Background(), server.URL+"/jobs/1")
	assert.Contains(t, got, "3+ years of SQL experience")
}

func TestGenericFetchDescriptionParagraphFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<p>We are hiring a data analyst to join our growing analytics team in Austin.</p>
			<p>The ideal candidate has experience with SQL, Python, and Tableau dashboards.</p>
		</body></html>`)
	}))
	defer server.Close()

	adapter := newGenericAdapter(testClient())
	got := adapter.fetchDescriptionURL(context.Background(), server.URL+"/jobs/1")
	assert.Contains(t, got, "growing analytics team")
	assert.Contains(t, got, "Tableau dashboards")
}
