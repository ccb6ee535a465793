package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

const jobviteMaxPages = 20

// Jobvite job URLs look like /jobs/17317610-engineer-iii.
var (
	jobviteJobLink = regexp.MustCompile(`/jobs/(\d+)-([\w-]+)`)
	jobviteJobID   = regexp.MustCompile(`/jobs/(\d+)`)
)

// jobviteAdapter covers Jobvite career sites, including the ttcportals.com
// portals that front them. The sites are server-rendered but expose no
// stable API, so retrieval is a strategy chain: sitemap, search page HTML
// plus JSON-LD, then numbered search pages.
type jobviteAdapter struct {
	client *fetch.Client
}

func newJobviteAdapter(client *fetch.Client) *jobviteAdapter {
	return &jobviteAdapter{client: client}
}

func (a *jobviteAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid jobvite URL %s: %w", careerURL, err)
	}
	baseURL := parsed.Scheme + "://" + parsed.Host
	seen := make(map[string]bool)

	jobs, strategyName := runChain(ctx, []strategy{
		{"sitemap", func(ctx context.Context) []*types.JobRecord {
			return a.fromSitemaps(ctx, baseURL, seen)
		}},
		{"search page", func(ctx context.Context) []*types.JobRecord {
			return a.fromSearchPages(ctx, baseURL, careerURL, seen)
		}},
		{"paged search", func(ctx context.Context) []*types.JobRecord {
			return a.fromPagedSearch(ctx, baseURL, seen)
		}},
	})
	if len(jobs) == 0 {
		return nil, fmt.Errorf("jobvite strategies exhausted for %s", careerURL)
	}
	log.Printf("[jobvite] %s: %d jobs via %s", company, len(jobs), strategyName)
	return jobs, nil
}

// fromSitemaps is the most reliable path: the sitemap lists every posting
// URL, and the slug doubles as a rough title.
func (a *jobviteAdapter) fromSitemaps(ctx context.Context, baseURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, path := range []string{"/sitemap.xml", "/sitemap_index.xml"} {
		for _, loc := range fetchSitemapLocs(ctx, a.client, baseURL+path) {
			m := jobviteJobLink.FindStringSubmatch(loc)
			if m == nil || seen[m[1]] {
				continue
			}
			seen[m[1]] = true
			jobs = append(jobs, &types.JobRecord{
				Title: slugToTitle(m[2]),
				ID:    types.NativeID(m[1]),
				URL:   loc,
			})
		}
		if len(jobs) > 0 {
			break
		}
	}
	return jobs
}

func (a *jobviteAdapter) fromSearchPages(ctx context.Context, baseURL, careerURL string, seen map[string]bool) []*types.JobRecord {
	searchURLs := []string{careerURL}
	if strings.Contains(careerURL, "/jobs/search") {
		searchURLs = append(searchURLs, baseURL+"/search/jobs", baseURL+"/search/all/jobs")
	}

	var jobs []*types.JobRecord
	for _, searchURL := range searchURLs {
		result, err := a.client.Get(ctx, searchURL, nil)
		if err != nil {
			continue
		}
		doc, err := fetch.ParseHTML(result.Body)
		if err != nil {
			continue
		}

		jobs = append(jobs, a.linksFromDoc(doc, baseURL, seen)...)

		for _, p := range parseJSONLD(doc) {
			identifier := types.URLFallbackID(p.URL)
			key := p.URL
			if m := jobviteJobID.FindStringSubmatch(p.URL); m != nil {
				identifier = types.NativeID(m[1])
				key = m[1]
			}
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			jobs = append(jobs, &types.JobRecord{
				Title:      p.Title,
				ID:         identifier,
				Location:   p.locationText(),
				URL:        p.URL,
				Department: p.OccupationalCategory,
			})
		}

		if len(jobs) > 0 {
			break
		}
	}
	return jobs
}

func (a *jobviteAdapter) fromPagedSearch(ctx context.Context, baseURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for page := 1; page <= jobviteMaxPages; page++ {
		result, err := a.client.Get(ctx, fmt.Sprintf("%s/search/jobs/page/%d", baseURL, page), nil)
		if err != nil {
			break
		}
		doc, err := fetch.ParseHTML(result.Body)
		if err != nil {
			break
		}
		pageJobs := a.linksFromDoc(doc, baseURL, seen)
		if len(pageJobs) == 0 {
			break
		}
		jobs = append(jobs, pageJobs...)
	}
	return jobs
}

func (a *jobviteAdapter) linksFromDoc(doc *goquery.Document, baseURL string, seen map[string]bool) []*types.JobRecord {
	base, _ := url.Parse(baseURL)
	var jobs []*types.JobRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := fetch.CleanText(sel.Text())
		m := jobviteJobLink.FindStringSubmatch(href)
		if m == nil || len(text) < minLinkTextLen || len(text) > maxLinkTextLen {
			return
		}
		if seen[m[1]] {
			return
		}
		seen[m[1]] = true
		jobs = append(jobs, &types.JobRecord{
			Title: text,
			ID:    types.NativeID(m[1]),
			URL:   resolveURL(base, href),
		})
	})
	return jobs
}

// FetchDescription prefers JSON-LD on the detail page, then heuristic
// containers, then the generic extraction.
func (a *jobviteAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	if job.URL == "" {
		return ""
	}
	result, err := a.client.Get(ctx, job.URL, nil)
	if err != nil {
		return ""
	}
	doc, err := fetch.ParseHTML(result.Body)
	if err != nil {
		return ""
	}

	if text := jsonLDDescription(doc); text != "" {
		return text
	}

	selectors := []string{
		`div[class*="job-desc"]`, `div[class*="jv-desc"]`, `div[class*="description"]`,
		`div[class*="content"]`, `div[class*="detail"]`,
		`div[id*="job-desc"]`, `div[id*="description"]`,
		"article", "main",
	}
	if text := fetch.FirstMatchingText(doc, selectors, 100); text != "" {
		return types.Truncate(text, types.MaxDescriptionLength)
	}
	return newGenericAdapter(a.client).fetchDescriptionURL(ctx, job.URL)
}
