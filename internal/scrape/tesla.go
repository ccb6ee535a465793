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

// Tesla job URLs: /careers/search/job/internship-software-engineer-257514.
var (
	teslaJobLink  = regexp.MustCompile(`/careers/search/job/([\w-]+-(\d+))`)
	teslaTrailing = regexp.MustCompile(`-\d+$`)
	teslaURLID    = regexp.MustCompile(`/(\d+)$`)
)

// teslaAdapter handles Tesla's custom career site, an infinite-scroll SPA
// with no documented API. Strategies: Next.js state blob, JSON-LD, rendered
// links, probed API endpoints, sitemap.
type teslaAdapter struct {
	client *fetch.Client
}

func newTeslaAdapter(client *fetch.Client) *teslaAdapter {
	return &teslaAdapter{client: client}
}

func (a *teslaAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tesla URL %s: %w", careerURL, err)
	}
	baseURL := parsed.Scheme + "://" + parsed.Host
	query := parsed.Query()
	searchQuery := query.Get("query")
	if searchQuery == "" {
		searchQuery = query.Get("q")
	}
	siteFilter := query.Get("site")
	seen := make(map[string]bool)

	var doc *goquery.Document
	if result, err := a.client.Get(ctx, careerURL, nil); err == nil {
		doc, _ = fetch.ParseHTML(result.Body)
	}

	jobs, _ := runChain(ctx, []strategy{
		{"next-data", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromNextData(doc, baseURL, seen)
		}},
		{"json-ld", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromJSONLD(doc, seen)
		}},
		{"html links", func(ctx context.Context) []*types.JobRecord {
			if doc == nil {
				return nil
			}
			return a.fromLinks(doc, baseURL, seen)
		}},
		{"api probe", func(ctx context.Context) []*types.JobRecord {
			return a.fromAPIProbes(ctx, baseURL, searchQuery, siteFilter, seen)
		}},
		{"sitemap", func(ctx context.Context) []*types.JobRecord {
			return a.fromSitemaps(ctx, baseURL, seen)
		}},
	})
	if len(jobs) == 0 {
		return nil, fmt.Errorf("tesla strategies exhausted for %s", careerURL)
	}
	return jobs, nil
}

func (a *teslaAdapter) fromNextData(doc *goquery.Document, baseURL string, seen map[string]bool) []*types.JobRecord {
	raw := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").Text())
	if raw == "" {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}
	return a.recordsFromObjects(findJobsInJSON(data, 0), baseURL, seen, true)
}

func (a *teslaAdapter) fromJSONLD(doc *goquery.Document, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, p := range parseJSONLD(doc) {
		identifier := types.URLFallbackID(p.URL)
		key := p.URL
		if m := teslaURLID.FindStringSubmatch(p.URL); m != nil {
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
	return jobs
}

func (a *teslaAdapter) fromLinks(doc *goquery.Document, baseURL string, seen map[string]bool) []*types.JobRecord {
	base, _ := url.Parse(baseURL)
	var jobs []*types.JobRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := fetch.CleanText(sel.Text())
		m := teslaJobLink.FindStringSubmatch(href)
		if m == nil || len(text) < minLinkTextLen {
			return
		}
		if seen[m[2]] {
			return
		}
		seen[m[2]] = true
		jobs = append(jobs, &types.JobRecord{
			Title: text,
			ID:    types.NativeID(m[2]),
			URL:   resolveURL(base, href),
		})
	})
	return jobs
}

type teslaSearchRequest struct {
	Query  string `json:"query"`
	Site   string `json:"site"`
	Offset int    `json:"offset"`
	Count  int    `json:"count"`
}

func (a *teslaAdapter) fromAPIProbes(ctx context.Context, baseURL, searchQuery, siteFilter string, seen map[string]bool) []*types.JobRecord {
	endpoints := []string{
		baseURL + "/careers/api/search",
		baseURL + "/careers/api/v1/jobs",
		baseURL + "/cua-api/apps/careers/state",
		baseURL + "/api/careers/search",
	}
	for _, endpoint := range endpoints {
		getURL := endpoint
		params := url.Values{}
		if searchQuery != "" {
			params.Set("query", searchQuery)
		}
		if siteFilter != "" {
			params.Set("site", siteFilter)
		}
		if len(params) > 0 {
			getURL += "?" + params.Encode()
		}

		var data any
		if result, err := a.client.Get(ctx, getURL, map[string]string{"Accept": "application/json"}); err == nil {
			trimmed := strings.TrimSpace(result.Body)
			if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
				_ = decodeJSON(trimmed, &data)
			}
		}
		if data == nil {
			payload := teslaSearchRequest{Query: searchQuery, Site: siteFilter, Count: 100}
			if err := a.client.PostJSON(ctx, endpoint, payload, &data, nil); err != nil {
				continue
			}
		}

		if jobs := a.recordsFromObjects(findJobsInJSON(data, 0), baseURL, seen, false); len(jobs) > 0 {
			return jobs
		}
	}
	return nil
}

func (a *teslaAdapter) fromSitemaps(ctx context.Context, baseURL string, seen map[string]bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, path := range []string{"/sitemap.xml", "/careers/sitemap.xml"} {
		for _, loc := range fetchSitemapLocs(ctx, a.client, baseURL+path) {
			m := teslaJobLink.FindStringSubmatch(loc)
			if m == nil || seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			// Strip the trailing numeric ID before slug-to-title.
			titleSlug := teslaTrailing.ReplaceAllString(m[1], "")
			jobs = append(jobs, &types.JobRecord{
				Title: slugToTitle(titleSlug),
				ID:    types.NativeID(m[2]),
				URL:   loc,
			})
		}
		if len(jobs) > 0 {
			break
		}
	}
	return jobs
}

// recordsFromObjects normalizes job-like JSON objects into records.
// withPreview keeps a short description excerpt when the blob carries one.
func (a *teslaAdapter) recordsFromObjects(objects []map[string]any, baseURL string, seen map[string]bool, withPreview bool) []*types.JobRecord {
	var jobs []*types.JobRecord
	for _, obj := range objects {
		title := jsonField(obj, "title", "Title", "name")
		id := jsonField(obj, "id", "Id", "req_id", "jobId")
		if title == "" || id == "" || seen[id] {
			continue
		}
		seen[id] = true

		jobURL := jsonField(obj, "url", "slug")
		if jobURL != "" && !strings.HasPrefix(jobURL, "http") {
			jobURL = baseURL + "/careers/search/job/" + jobURL
		}
		record := &types.JobRecord{
			Title:      title,
			ID:         types.NativeID(id),
			Location:   jsonLocation(obj, "location", "Location"),
			URL:        jobURL,
			Department: jsonField(obj, "department", "team"),
		}
		if withPreview {
			record.Description = types.Truncate(jsonField(obj, "description"), 500)
		}
		jobs = append(jobs, record)
	}
	return jobs
}

// FetchDescription: JSON-LD first, then the __NEXT_DATA__ blob, then
// container heuristics, then generic extraction.
func (a *teslaAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
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

	if raw := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").Text()); raw != "" {
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			if objects := findJobsInJSON(data, 0); len(objects) > 0 {
				if desc := jsonField(objects[0], "description", "Description"); desc != "" {
					return types.Truncate(fetch.StripTags(desc), types.MaxDescriptionLength)
				}
			}
		}
	}

	selectors := []string{
		`div[class*="job-desc"]`, `div[class*="posting-body"]`, `div[class*="description"]`,
		`div[class*="content"]`, `div[class*="detail"]`,
	}
	if text := fetch.FirstMatchingText(doc, selectors, 100); text != "" {
		return types.Truncate(text, types.MaxDescriptionLength)
	}
	return newGenericAdapter(a.client).fetchDescriptionURL(ctx, job.URL)
}
