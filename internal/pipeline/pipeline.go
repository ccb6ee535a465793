// Package pipeline orchestrates one full cycle: load sources, scrape,
// match, fetch descriptions, dedup against history, notify, log.
package pipeline

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/match"
	"github.com/jonathan/jobscout/internal/notify"
	"github.com/jonathan/jobscout/internal/scrape"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// History is the persistence surface the pipeline needs. *store.Store
// implements it; a nil History runs stateless, treating every match as new.
type History interface {
	FilterNew(ctx context.Context, jobs []*types.JobRecord) ([]*types.JobRecord, error)
	MarkNotified(ctx context.Context, jobs []*types.JobRecord) error
	LogRun(ctx context.Context, companiesScraped, totalFound, newMatches, errors int) error
	Stats(ctx context.Context) (*store.Stats, error)
	GetWeeklySummary(ctx context.Context, weeksBack int) (*store.WeeklySummary, error)
	LogWeeklySummary(ctx context.Context, weekStart, weekEnd time.Time, newJobs, apps int) error
	ShouldSendWeeklySummary(ctx context.Context) (bool, error)
}

// Report summarizes one pipeline run.
type Report struct {
	CompaniesScraped int
	TotalFound       int
	Matched          int
	NewMatches       int
	Errors           int
}

// Pipeline ties the scraper, matcher, history store, and notifier together.
type Pipeline struct {
	cfg      *config.Config
	scraper  *scrape.Scraper
	matcher  *match.Matcher
	history  History
	notifier notify.Notifier
}

func New(cfg *config.Config, scraper *scrape.Scraper, matcher *match.Matcher, history History, notifier notify.Notifier) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		scraper:  scraper,
		matcher:  matcher,
		history:  history,
		notifier: notifier,
	}
}

// Run executes one scrape-match-notify cycle over the given sources.
// Per-company failures are counted, never fatal; the returned error covers
// only store and notifier problems.
func (p *Pipeline) Run(ctx context.Context, sources []types.CareerSource) (*Report, error) {
	report := &Report{CompaniesScraped: len(sources)}
	log.Printf("[pipeline] starting run over %d companies (%s)", len(sources), p.matcher.Summary())

	allJobs := p.scrapeAll(ctx, sources, report)
	report.TotalFound = len(allJobs)

	matched := p.matcher.FilterJobs(allJobs)
	log.Printf("[pipeline] %d of %d jobs matched on listing data", len(matched), len(allJobs))

	if p.cfg.Scraping.FetchDescriptions {
		matched = p.enrichDescriptions(ctx, matched)
	}
	report.Matched = len(matched)

	newJobs := matched
	if p.history != nil {
		var err error
		newJobs, err = p.history.FilterNew(ctx, matched)
		if err != nil {
			return report, err
		}
	}
	report.NewMatches = len(newJobs)

	var stats *store.Stats
	if p.history != nil {
		if s, err := p.history.Stats(ctx); err == nil {
			stats = s
		} else {
			log.Printf("[pipeline] stats unavailable: %v", err)
		}
	}

	if err := p.notifier.Send(ctx, newJobs, stats); err != nil {
		return report, err
	}

	if p.history != nil {
		if err := p.history.MarkNotified(ctx, newJobs); err != nil {
			log.Printf("[pipeline] failed to mark notified: %v", err)
		}
		if err := p.history.LogRun(ctx, report.CompaniesScraped, report.TotalFound,
			report.NewMatches, report.Errors); err != nil {
			log.Printf("[pipeline] failed to log run: %v", err)
		}
		p.maybeSendWeeklySummary(ctx)
	}

	log.Printf("[pipeline] run complete: %d found, %d matched, %d new, %d errors",
		report.TotalFound, report.Matched, report.NewMatches, report.Errors)
	return report, nil
}

// scrapeAll fans employers out over a bounded worker group. The fetch
// client's per-host spacing still applies, so concurrency raises
// throughput across hosts without hammering any one of them.
func (p *Pipeline) scrapeAll(ctx context.Context, sources []types.CareerSource, report *Report) []*types.JobRecord {
	var mu sync.Mutex
	var all []*types.JobRecord

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Scraping.MaxConcurrent)

	for _, source := range sources {
		source := source
		g.Go(func() error {
			jobs := p.scraper.ScrapeCompany(ctx, source)
			mu.Lock()
			defer mu.Unlock()
			if len(jobs) == 0 {
				// Either a genuinely empty board or a scrape failure;
				// both count against the run for visibility.
				report.Errors++
				return nil
			}
			all = append(all, jobs...)
			return nil
		})
	}
	_ = g.Wait()
	return all
}

// enrichDescriptions runs the second-pass description fetch for matched
// jobs and re-scores them with the full text. Jobs whose description
// reveals a disqualifier are dropped; jobs with no fetchable description
// are kept but flagged so the notification shows the visa check never ran.
func (p *Pipeline) enrichDescriptions(ctx context.Context, jobs []*types.JobRecord) []*types.JobRecord {
	kept := jobs[:0]
	for _, job := range jobs {
		desc := job.Description
		if desc == "" {
			desc = p.scraper.FetchDescription(ctx, job)
		}
		if desc == "" {
			job.VisaUnverified = true
			kept = append(kept, job)
			continue
		}
		job.SetDescription(desc)

		result := p.matcher.MatchJob(job)
		if !result.IsMatch {
			log.Printf("[pipeline] dropped after description check: %s @ %s", job.Title, job.Company)
			continue
		}
		job.RelevanceScore = result.Score
		job.MatchedKeywords = result.MatchedKeywords
		kept = append(kept, job)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})
	return kept
}

func (p *Pipeline) maybeSendWeeklySummary(ctx context.Context) {
	due, err := p.history.ShouldSendWeeklySummary(ctx)
	if err != nil || !due {
		return
	}
	summary, err := p.history.GetWeeklySummary(ctx, 1)
	if err != nil {
		log.Printf("[pipeline] weekly summary unavailable: %v", err)
		return
	}
	if err := p.notifier.SendWeeklySummary(ctx, summary); err != nil {
		log.Printf("[pipeline] weekly summary send failed: %v", err)
		return
	}
	if err := p.history.LogWeeklySummary(ctx, summary.WeekStart, summary.WeekEnd,
		len(summary.NewJobs), len(summary.ActiveApps)); err != nil {
		log.Printf("[pipeline] failed to log weekly summary: %v", err)
	}
}
