package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

// icimsJobLinkPatterns match the URL shapes iCIMS boards use for job detail
// pages, most specific first.
var icimsJobLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/careers?/JobDetail/.*?/(\d+)`),
	regexp.MustCompile(`(?i)/job/.*?/(\d+)/?$`),
	regexp.MustCompile(`(?i)/jobs?/(\d+)`),
}

// embeddedStatePatterns find framework state blobs in script tags.
var embeddedStatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)__NEXT_DATA__\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)__INITIAL_STATE__\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)window\.__data__\s*=\s*(\{.*?\})\s*;`),
}

// icimsAdapter covers iCIMS boards, including the custom-domain ones the
// detector recognizes by locale paths. The boards are JS single-page apps
// with wildly inconsistent server rendering, hence the long strategy
// chain: JSON-LD, embedded state blobs, rendered links, sitemaps, then
// probed API endpoints.
type icimsAdapter struct {
	client *fetch.Client
}

func newICIMSAdapter(client *fetch.Client) *icimsAdapter {
	return &icimsAdapter{client: client}
}

func (a *icimsAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid icims URL %s: %w", careerURL, err)
	}
	baseURL := parsed.Scheme + "://" + parsed.Host
	seen := make(map[string]bool)

	var doc *goquery.Document
	if result, err := a.client.Get(ctx, careerURL, nil); err == nil {
		doc, _ = fetch.ParseHTML(result.Body)
	}

	jobs, _ := runChain(ctx, []strategy{
		{"json-ld", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromJSONLD(doc, careerURL, seen)
		}},
		{"embedded state", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromEmbeddedState(doc, baseURL, seen)
		}},
		{"html links", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromLinks(doc, baseURL, seen)
		}},
		{"sitemap", func(ctx context.Context) []*types.JobRecord {
			return a.fromSitemaps(ctx, baseURL, seen)
		}},
		{"api probe", func(ctx context.Context) []*types.JobRecord {
			return a.fromAPIProbes(ctx, baseURL, seen)
		}},
	})
	if len(jobs) == 0 {
		return nil, fmt.Errorf("icims strategies exhausted for %s", careerURL)
	}
	return jobs, nil
}

func (a *icimsAdapter) fromJSONLD(doc *goquery.Document, careerURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, p := range parseJSONLD(doc) {
		identifier := types.URLFallbackID(p.URL)
		key := p.URL
		if v := p.identifierValue(); v != "" {
			identifier = types.NativeID(v)
			key = v
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		jobURL := p.URL
		if jobURL == "" {
			jobURL = careerURL
		}
		jobs = append(jobs, &types.JobRecord{
			Title:      p.Title,
			ID:         identifier,
			Location:   p.locationText(),
			URL:        jobURL,
			Department: p.OccupationalCategory,
		})
	}
	return jobs
}

func (a *icimsAdapter) fromEmbeddedState(doc *goquery.Document, baseURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		for _, pattern := range embeddedStatePatterns {
			m := pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			var data any
			if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
				continue
			}
			for _, obj := range findJobsInJSON(data, 0) {
				title := jsonField(obj, "title", "Title", "name")
				id := jsonField(obj, "id", "Id", "job_id", "requisitionId")
				if title == "" || id == "" || seen[id] {
					continue
				}
				seen[id] = true
				jobURL := jsonField(obj, "url", "applyUrl")
				if jobURL == "" {
					jobURL = fmt.Sprintf("%s/en_US/careers/JobDetail/%s", baseURL, id)
				}
				jobs = append(jobs, &types.JobRecord{
					Title:      title,
					ID:         types.NativeID(id),
					Location:   jsonLocation(obj, "location", "Location", "PrimaryLocation"),
					URL:        jobURL,
					Department: jsonField(obj, "department", "Department", "category"),
				})
			}
		}
	})
	return jobs
}

func (a *icimsAdapter) fromLinks(doc *goquery.Document, baseURL string, seen map[string]bool) []*types.JobRecord {
	base, _ := url.Parse(baseURL)
	var jobs []*types.JobRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := fetch.CleanText(sel.Text())
		if len(text) < minLinkTextLen || len(text) > maxLinkTextLen {
			return
		}
		for _, pattern := range icimsJobLinkPatterns {
			m := pattern.FindStringSubmatch(href)
			if m == nil {
				continue
			}
			if !seen[m[1]] {
				seen[m[1]] = true
				jobs = append(jobs, &types.JobRecord{
					Title: text,
					ID:    types.NativeID(m[1]),
					URL:   resolveURL(base, href),
				})
			}
			break
		}
	})
	return jobs
}

func (a *icimsAdapter) fromSitemaps(ctx context.Context, baseURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, path := range []string{"/sitemap.xml", "/sitemap-jobs.xml", "/sitemap_index.xml"} {
		for _, loc := range fetchSitemapLocs(ctx, a.client, baseURL+path) {
			for _, pattern := range icimsJobLinkPatterns {
				m := pattern.FindStringSubmatch(loc)
				if m == nil {
					continue
				}
				if !seen[m[1]] {
					seen[m[1]] = true
					jobs = append(jobs, &types.JobRecord{
						Title: icimsTitleFromURL(loc, m[1]),
						ID:    types.NativeID(m[1]),
						URL:   loc,
					})
				}
				break
			}
		}
		if len(jobs) > 0 {
			break
		}
	}
	return jobs
}

// icimsTitleFromURL recovers a title from a detail URL slug; sitemaps carry
// no title text.
func icimsTitleFromURL(locURL, id string) string {
	slugPattern := regexp.MustCompile(`/(?:JobDetail|job)/(.*?)/` + regexp.QuoteMeta(id))
	if m := slugPattern.FindStringSubmatch(locURL); m != nil {
		return slugToTitle(m[1])
	}
	return "Job " + id
}

type icimsSearchRequest struct {
	SearchText string `json:"searchText"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	Lang       string `json:"lang"`
}

// fromAPIProbes tries the endpoint paths iCIMS installs commonly expose,
// POST first then GET, and digs job arrays out of whatever shape answers.
func (a *icimsAdapter) fromAPIProbes(ctx context.Context, baseURL string, seen map[string]bool) []*types.JobRecord {
	endpoints := []string{
		baseURL + "/api/jobs",
		baseURL + "/api/apply/v2/jobs/search",
		baseURL + "/.rest/api/v1/search/offers",
	}
	for _, endpoint := range endpoints {
		var data any
		err := a.client.PostJSON(ctx, endpoint,
			icimsSearchRequest{Limit: 100, Lang: "en_us"}, &data, nil)
		if err != nil {
			if getResult, getErr := a.client.Get(ctx, endpoint+"?limit=100&offset=0&locale=en_US",
				map[string]string{"Accept": "application/json"}); getErr == nil {
				trimmed := strings.TrimSpace(getResult.Body)
				if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
					continue
				}
				if decodeJSON(trimmed, &data) != nil {
					continue
				}
			} else {
				continue
			}
		}

		var jobs []*types.JobRecord
		for _, obj := range findJobsInJSON(data, 0) {
			title := jsonField(obj, "title", "Title")
			id := jsonField(obj, "id", "Id", "requisitionId")
			if title == "" || id == "" || seen[id] {
				continue
			}
			seen[id] = true
			jobs = append(jobs, &types.JobRecord{
				Title:      title,
				ID:         types.NativeID(id),
				Location:   jsonLocation(obj, "location", "Location"),
				URL:        jsonField(obj, "url", "applyUrl"),
				Department: jsonField(obj, "department", "category"),
			})
		}
		if len(jobs) > 0 {
			return jobs
		}
	}
	return nil
}

// FetchDescription tries JSON-LD on the detail page, then iCIMS container
// heuristics, then the generic extraction.
func (a *icimsAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
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
		`div[class*="iCIMS"]`, `div[class*="job-desc"]`, `div[class*="posting-desc"]`,
		`div[class*="description"]`, `div[class*="content"]`, `div[class*="detail"]`,
		`div[id*="job-desc"]`, `div[id*="description"]`,
	}
	if text := fetch.FirstMatchingText(doc, selectors, 100); text != "" {
		return types.Truncate(text, types.MaxDescriptionLength)
	}
	return newGenericAdapter(a.client).fetchDescriptionURL(ctx, job.URL)
}
