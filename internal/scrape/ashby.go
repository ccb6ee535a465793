package scrape

import (
	"context"
	"fmt"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

// ashbyAdapter reads the Ashby posting API. The job-board endpoint returns
// every posting in one response, descriptions included, so there is no
// paging loop and usually no second-pass fetch.
type ashbyAdapter struct {
	client *fetch.Client
	api    string
	// pageBase hosts the public job pages used as the description
	// fallback; the per-posting API endpoint requires auth now.
	pageBase string
}

func newAshbyAdapter(client *fetch.Client) *ashbyAdapter {
	return &ashbyAdapter{
		client:   client,
		api:      "https://api.ashbyhq.com",
		pageBase: "https://jobs.ashbyhq.com",
	}
}

type ashbyBoard struct {
	Jobs []struct {
		ID               string `json:"id"`
		Title            string `json:"title"`
		Location         string `json:"location"`
		JobURL           string `json:"jobUrl"`
		DepartmentName   string `json:"departmentName"`
		DescriptionPlain string `json:"descriptionPlain"`
		DescriptionHTML  string `json:"descriptionHtml"`
	} `json:"jobs"`
}

func (a *ashbyAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.Ashby)
	if !ok {
		return nil, fmt.Errorf("no ashby board slug in %s", careerURL)
	}

	var board ashbyBoard
	if err := a.client.GetJSON(ctx, a.api+"/posting-api/job-board/"+slug, &board); err != nil {
		return nil, fmt.Errorf("ashby board: %w", err)
	}

	jobs := make([]*types.JobRecord, 0, len(board.Jobs))
	for _, j := range board.Jobs {
		desc := j.DescriptionPlain
		if desc == "" && j.DescriptionHTML != "" {
			desc = fetch.StripTags(j.DescriptionHTML)
		}
		record := &types.JobRecord{
			Title:      j.Title,
			ID:         types.NativeID(j.ID),
			Location:   j.Location,
			URL:        j.JobURL,
			Department: j.DepartmentName,
		}
		record.SetDescription(desc)
		jobs = append(jobs, record)
	}
	return jobs, nil
}

// FetchDescription scrapes the public posting page when the listing did not
// carry a description inline.
func (a *ashbyAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	if job.Description != "" {
		return job.Description
	}
	slug, ok := platform.ExtractIdentifier(job.SourceURL, platform.Ashby)
	id, native := job.ID.Native()
	if !ok || !native {
		return ""
	}

	pageURL := fmt.Sprintf("%s/%s/%s", a.pageBase, slug, id)
	result, err := a.client.Get(ctx, pageURL, nil)
	if err != nil {
		return ""
	}
	doc, err := fetch.ParseHTML(result.Body)
	if err != nil {
		return ""
	}
	text := fetch.FirstMatchingText(doc, []string{`div[class*="posting-"]`, "main", "article", "body"}, 0)
	return types.Truncate(text, types.MaxDescriptionLength)
}
