// Package scrape implements the multi-platform job-listing extraction layer:
// a dispatcher that identifies which career-site backend a URL uses and
// per-platform adapters that page through that backend's listing API,
// normalize its response shape, and degrade to a generic link scraper when
// the structured path fails.
package scrape

import (
	"context"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

// Adapter extracts job listings for one platform family.
//
// ListJobs returns the jobs it managed to collect plus an error describing
// why the structured path gave up. Both can be non-zero at once: a paging
// loop that fails on page 4 returns the first three pages alongside the
// error, and the caller prefers the partial results over falling back.
//
// FetchDescription is the second-pass enrichment for a single job. It never
// fails loudly; an empty string means "unknown", not "excluded".
type Adapter interface {
	ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error)
	FetchDescription(ctx context.Context, job *types.JobRecord) string
}

// newRegistry wires one adapter per platform tag. Generic is not in the map;
// it is the shared fallback held by the Scraper directly.
func newRegistry(c *fetch.Client) map[platform.Platform]Adapter {
	return map[platform.Platform]Adapter{
		platform.Amazon:          newAmazonAdapter(c),
		platform.Greenhouse:      newGreenhouseAdapter(c),
		platform.Lever:           newLeverAdapter(c),
		platform.Workday:         newWorkdayAdapter(c),
		platform.SmartRecruiters: newSmartRecruitersAdapter(c),
		platform.Ashby:           newAshbyAdapter(c),
		platform.Recruitee:       newRecruiteeAdapter(c),
		platform.Taleo:           newTaleoAdapter(c),
		platform.OracleCloud:     newOracleAdapter(c),
		platform.Jobvite:         newJobviteAdapter(c),
		platform.ICIMS:           newICIMSAdapter(c),
		platform.Tesla:           newTeslaAdapter(c),
	}
}
