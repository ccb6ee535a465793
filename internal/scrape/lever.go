package scrape

import (
	"context"
	"fmt"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	leverPageSize = 100
	leverMaxPages = 10
	// Lever's descriptionPlain can be huge; store a preview at listing
	// time, the full text comes from the second-pass fetch.
	leverPreviewLen = 500
)

// leverAdapter pages the Lever postings API with skip-based pagination.
type leverAdapter struct {
	client *fetch.Client
	api    string
}

func newLeverAdapter(client *fetch.Client) *leverAdapter {
	return &leverAdapter{client: client, api: "https://api.lever.co"}
}

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
}

func (a *leverAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.Lever)
	if !ok {
		return nil, fmt.Errorf("no lever board slug in %s", careerURL)
	}

	var jobs []*types.JobRecord
	for page := 0; page < leverMaxPages; page++ {
		skip := page * leverPageSize
		listURL := fmt.Sprintf("%s/v0/postings/%s?mode=json&limit=%d&skip=%d", a.api, slug, leverPageSize, skip)
		var postings []leverPosting
		if err := a.client.GetJSON(ctx, listURL, &postings); err != nil {
			return jobs, fmt.Errorf("lever page %d: %w", page+1, err)
		}

		for _, p := range postings {
			jobs = append(jobs, &types.JobRecord{
				Title:       p.Text,
				ID:          types.NativeID(p.ID),
				Location:    p.Categories.Location,
				URL:         p.HostedURL,
				Department:  p.Categories.Team,
				Description: types.Truncate(p.DescriptionPlain, leverPreviewLen),
			})
		}

		if len(postings) < leverPageSize {
			break
		}
	}
	return jobs, nil
}

// FetchDescription scrapes the hosted posting page. Lever renders the full
// description in div.section-wrapper.
func (a *leverAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
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
		"div.section-wrapper",
		`div[class*="content"]`, `div[class*="description"]`, `div[class*="posting"]`,
	}
	text := fetch.FirstMatchingText(doc, selectors, 0)
	return types.Truncate(text, types.MaxDescriptionLength)
}
