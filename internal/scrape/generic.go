package scrape

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

// jobLinkPattern classifies an anchor as job-like by its href or text.
var jobLinkPattern = regexp.MustCompile(`(?i)/job[s]?/|/position[s]?/|/opening[s]?/|/career[s]?/|/role[s]?/|job[-_]?id|posting|requisition|apply`)

// skipWords are navigational phrases that disqualify a link regardless of
// how job-like its href looks.
var skipWords = []string{
	"login", "sign in", "about us", "contact", "privacy", "terms",
	"home", "back", "menu", "blog", "news", "cookie",
}

const (
	minLinkTextLen = 5
	maxLinkTextLen = 200
)

// genericAdapter is the fallback link-pattern scraper. It works on any
// career page that server-renders its links and is also the final fallback
// for every platform adapter.
type genericAdapter struct {
	client *fetch.Client
}

func newGenericAdapter(client *fetch.Client) *genericAdapter {
	return &genericAdapter{client: client}
}

// ListJobs scans all anchors on the page for job-like links. It never
// reports an error: a failed fetch yields an empty slice. Generic entries
// have no native ID; the resolved absolute URL stands in.
func (a *genericAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	result, err := a.client.Get(ctx, careerURL, nil)
	if err != nil {
		return nil, nil
	}

	doc, err := fetch.ParseHTML(result.Body)
	if err != nil {
		return nil, nil
	}

	base, _ := url.Parse(careerURL)
	seenURLs := make(map[string]bool)
	var jobs []*types.JobRecord

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := fetch.CleanText(sel.Text())

		if len(text) < minLinkTextLen || len(text) > maxLinkTextLen {
			return
		}
		lower := strings.ToLower(text)
		for _, w := range skipWords {
			if strings.Contains(lower, w) {
				return
			}
		}
		if !jobLinkPattern.MatchString(href) && !jobLinkPattern.MatchString(text) {
			return
		}

		fullURL := resolveURL(base, href)
		if fullURL == "" || seenURLs[fullURL] {
			return
		}
		seenURLs[fullURL] = true

		jobs = append(jobs, &types.JobRecord{
			Title: text,
			ID:    types.URLFallbackID(fullURL),
			URL:   fullURL,
		})
	})

	return dedupByTitle(jobs), nil
}

// FetchDescription tries common description containers on the job page,
// then falls back to joined paragraph text. Anything under ~100 characters
// is treated as a miss.
func (a *genericAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	return a.fetchDescriptionURL(ctx, job.URL)
}

func (a *genericAdapter) fetchDescriptionURL(ctx context.Context, jobURL string) string {
	if jobURL == "" {
		return ""
	}
	result, err := a.client.Get(ctx, jobURL, nil)
	if err != nil {
		return ""
	}
	doc, err := fetch.ParseHTML(result.Body)
	if err != nil {
		return ""
	}

	selectors := []string{
		`div[class*="job-desc"]`, `div[class*="jobdesc"]`, `div[class*="posting-desc"]`,
		`div[class*="description"]`, `div[id*="job-desc"]`, `div[id*="description"]`,
		`div[class*="content"]`, `div[class*="body"]`, `div[class*="main"]`,
	}
	if text := fetch.FirstMatchingText(doc, selectors, 100); text != "" {
		return types.Truncate(text, types.MaxDescriptionLength)
	}

	if text := fetch.ParagraphText(doc); len(text) > 100 {
		return types.Truncate(text, types.MaxDescriptionLength)
	}
	return ""
}

// dedupByTitle keeps the first record for each lower-cased title.
func dedupByTitle(jobs []*types.JobRecord) []*types.JobRecord {
	seen := make(map[string]bool, len(jobs))
	unique := jobs[:0]
	for _, j := range jobs {
		key := strings.ToLower(strings.TrimSpace(j.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, j)
	}
	return unique
}

// resolveURL resolves href against the page URL.
func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
