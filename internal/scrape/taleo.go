package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	taleoPageSize = 25
	taleoMaxPages = 40
)

var (
	taleoBasePath = regexp.MustCompile(`(/go/[\w-]+/\d+)`)
	taleoJobID    = regexp.MustCompile(`/(\d{5,})/?$`)
)

// taleoAdapter scrapes Taleo career boards. Taleo serves server-rendered
// HTML result tables paginated by a path offset; there is no public JSON
// API to lean on.
type taleoAdapter struct {
	client *fetch.Client
}

func newTaleoAdapter(client *fetch.Client) *taleoAdapter {
	return &taleoAdapter{client: client}
}

func (a *taleoAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid taleo URL %s: %w", careerURL, err)
	}
	m := taleoBasePath.FindStringSubmatch(parsed.Path)
	if m == nil {
		return nil, fmt.Errorf("no taleo search path in %s", careerURL)
	}
	basePath := m[1]
	baseURL := parsed.Scheme + "://" + parsed.Host

	seenIDs := make(map[string]bool)
	var jobs []*types.JobRecord

	for page := 0; page < taleoMaxPages; page++ {
		offset := page * taleoPageSize
		pageURL := fmt.Sprintf("%s%s/?q=&sortColumn=referencedate&sortDirection=desc", baseURL, basePath)
		if offset > 0 {
			pageURL = fmt.Sprintf("%s%s/%d/?q=&sortColumn=referencedate&sortDirection=desc", baseURL, basePath, offset)
		}

		result, err := a.client.Get(ctx, pageURL, nil)
		if err != nil {
			return jobs, fmt.Errorf("taleo page %d: %w", page+1, err)
		}
		doc, err := fetch.ParseHTML(result.Body)
		if err != nil {
			return jobs, fmt.Errorf("taleo page %d: %w", page+1, err)
		}

		rows := doc.Find("table#searchresults tr.data-row")
		if rows.Length() == 0 {
			break
		}

		base, _ := url.Parse(baseURL)
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			link := row.Find(`a[href*="/job/"]`).First()
			if link.Length() == 0 {
				return
			}
			href, _ := link.Attr("href")
			title := fetch.CleanText(link.Text())

			jobURL := resolveURL(base, href)
			id := jobURL
			native := false
			if m := taleoJobID.FindStringSubmatch(href); m != nil {
				id = m[1]
				native = true
			}
			// Taleo renders each job twice, a desktop row and a mobile row.
			if seenIDs[id] {
				return
			}
			seenIDs[id] = true

			identifier := types.URLFallbackID(id)
			if native {
				identifier = types.NativeID(id)
			}
			jobs = append(jobs, &types.JobRecord{
				Title:    title,
				ID:       identifier,
				Location: fetch.CleanText(cells.Eq(1).Text()),
				URL:      jobURL,
			})
		})

		if rows.Length() < taleoPageSize {
			break
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("taleo board %s returned no rows", careerURL)
	}
	return jobs, nil
}

// FetchDescription scrapes the job detail page; Taleo puts the text in a
// job-description div, with the page content wrapper as fallback.
func (a *taleoAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
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
	selectors := []string{
		`div[class*="job-desc"]`, `div[class*="jobdesc"]`, `div[class*="description"]`,
		`div[id*="job-desc"]`, `div[id*="description"]`,
		"div.contentWrapper", "main",
	}
	text := fetch.FirstMatchingText(doc, selectors, 0)
	return types.Truncate(text, types.MaxDescriptionLength)
}
