package scrape

import (
	"context"
	"log"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

// Scraper dispatches career URLs to the right platform adapter and stamps
// provenance fields on every record it produces. Safe for concurrent use
// across employers; the shared HTTP client does the per-host spacing.
type Scraper struct {
	client   *fetch.Client
	adapters map[platform.Platform]Adapter
	generic  *genericAdapter
}

// NewScraper builds a Scraper over a shared fetch client.
func NewScraper(client *fetch.Client) *Scraper {
	return &Scraper{
		client:   client,
		adapters: newRegistry(client),
		generic:  newGenericAdapter(client),
	}
}

// ScrapeCompany extracts all job listings for one employer. It never
// returns an error: adapter failures fall back to the generic link scraper,
// and a total failure yields an empty slice so one broken employer cannot
// abort a run. Partial results from a failed paging loop win over fallback.
func (s *Scraper) ScrapeCompany(ctx context.Context, source types.CareerSource) []*types.JobRecord {
	p := platform.Detect(source.CareerURL)
	log.Printf("Scraping %s [%s]: %s", source.Name, p, source.CareerURL)

	jobs := s.listJobs(ctx, p, source.Name, source.CareerURL)

	for _, job := range jobs {
		job.Company = source.Name
		job.Platform = string(p)
		job.SourceURL = source.CareerURL
		job.Category = source.Category
	}
	return jobs
}

func (s *Scraper) listJobs(ctx context.Context, p platform.Platform, company, careerURL string) []*types.JobRecord {
	adapter, ok := s.adapters[p]
	if !ok {
		jobs, _ := s.generic.ListJobs(ctx, company, careerURL)
		return jobs
	}

	jobs, err := adapter.ListJobs(ctx, company, careerURL)
	if err != nil {
		if len(jobs) > 0 {
			log.Printf("[%s] %s: structured path failed after %d jobs, keeping partial results: %v",
				p, company, len(jobs), err)
			return jobs
		}
		log.Printf("[%s] %s: structured path failed, falling back to generic scraper: %v", p, company, err)
		jobs, _ = s.generic.ListJobs(ctx, company, careerURL)
	}
	return jobs
}

// FetchDescription runs the platform-specific second-pass fetch for one
// job. Empty string on any failure; callers must treat that as "unknown".
func (s *Scraper) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	adapter, ok := s.adapters[platform.Platform(job.Platform)]
	if !ok {
		return s.generic.FetchDescription(ctx, job)
	}
	return adapter.FetchDescription(ctx, job)
}
