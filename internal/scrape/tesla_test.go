package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeslaNextDataStrategy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/careers/search" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
		<script id="__NEXT_DATA__" type="application/json">
		{"props": {"pageProps": {"jobs": [
			{"title": "Robotics Engineer", "id": 257514, "location": "Palo Alto, CA",
			 "team": "Optimus", "slug": "robotics-engineer-257514"},
			{"title": "Controls Engineer", "id": 257515, "location": "Sparks, NV"}
		]}}}
		</script>
		</body></html>`)
	}))
	defer server.Close()

	adapter := newTeslaAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Tesla", server.URL+"/careers/search?site=US")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	id, native := first.ID.Native()
	assert.True(t, native)
	assert.Equal(t, "257514", id)
	assert.Equal(t, "Optimus", first.Department)
	// Relative slugs become full detail URLs.
	assert.Equal(t, server.URL+"/careers/search/job/robotics-engineer-257514", first.URL)
}

func TestTeslaHTMLLinksStrategy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/careers/search" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<a href="/careers/search/job/internship-manufacturing-engineering-257514">Manufacturing Internship</a>
			<a href="/careers/search/job/internship-manufacturing-engineering-257514">Manufacturing Internship</a>
		</body></html>`)
	}))
	defer server.Close()

	adapter := newTeslaAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Tesla", server.URL+"/careers/search")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	id, _ := jobs[0].ID.Native()
	assert.Equal(t, "257514", id)
	assert.Equal(t, "Manufacturing Internship", jobs[0].Title)
}

func TestTeslaSitemapTitleStripsTrailingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<urlset>
			<loc>https://www.tesla.test/careers/search/job/firmware-engineer-257600</loc>
		</urlset>`)
	}))
	defer server.Close()

	adapter := newTeslaAdapter(testClient())
	jobs, err := adapter.ListJobs(context.Background(), "Tesla", server.URL+"/careers/search")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Firmware Engineer", jobs[0].Title)
}
