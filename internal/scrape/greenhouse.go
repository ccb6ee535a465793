package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	greenhousePageSize = 100
	greenhouseMaxPages = 10
)

var greenhouseJobIDPath = regexp.MustCompile(`/jobs/(\d+)`)

// greenhouseAdapter pages the Greenhouse job board API.
type greenhouseAdapter struct {
	client *fetch.Client
	api    string
}

func newGreenhouseAdapter(client *fetch.Client) *greenhouseAdapter {
	return &greenhouseAdapter{client: client, api: "https://boards-api.greenhouse.io"}
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

type greenhouseListing struct {
	Jobs []greenhouseJob `json:"jobs"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func (a *greenhouseAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.Greenhouse)
	if !ok {
		return nil, fmt.Errorf("no greenhouse board slug in %s", careerURL)
	}

	var jobs []*types.JobRecord
	for page := 1; page <= greenhouseMaxPages; page++ {
		listURL := fmt.Sprintf("%s/v1/boards/%s/jobs?per_page=%d&page=%d", a.api, slug, greenhousePageSize, page)
		var listing greenhouseListing
		if err := a.client.GetJSON(ctx, listURL, &listing); err != nil {
			return jobs, fmt.Errorf("greenhouse page %d: %w", page, err)
		}

		for _, j := range listing.Jobs {
			record := &types.JobRecord{
				Title:    j.Title,
				ID:       types.NativeID(strconv.FormatInt(j.ID, 10)),
				Location: j.Location.Name,
				URL:      j.AbsoluteURL,
			}
			if len(j.Departments) > 0 {
				record.Department = j.Departments[0].Name
			}
			jobs = append(jobs, record)
		}

		// Last-page signal: a short page. The meta total is logged but not
		// trusted for termination.
		if len(listing.Jobs) < greenhousePageSize {
			break
		}
	}
	return jobs, nil
}

// FetchDescription pulls the posting content from the per-job API endpoint.
// Records that came through the generic fallback carry a URL instead of a
// numeric ID; recover the ID from the URL or scrape the page directly.
func (a *greenhouseAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	slug, ok := platform.ExtractIdentifier(job.SourceURL, platform.Greenhouse)
	if !ok || job.ID.IsZero() {
		return ""
	}

	numericID := job.ID.String()
	if job.ID.IsURL() || strings.Contains(numericID, "/") {
		if m := greenhouseJobIDPath.FindStringSubmatch(numericID); m != nil {
			numericID = m[1]
		} else {
			return newGenericAdapter(a.client).fetchDescriptionURL(ctx, numericID)
		}
	}

	detailURL := fmt.Sprintf("%s/v1/boards/%s/jobs/%s", a.api, slug, numericID)
	var detail greenhouseJob
	if err := a.client.GetJSON(ctx, detailURL, &detail); err != nil {
		return ""
	}
	return types.Truncate(fetch.StripTags(detail.Content), types.MaxDescriptionLength)
}
