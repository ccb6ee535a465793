package scrape

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	amazonPageSize = 25
	amazonMaxPages = 20
)

// amazonAdapter pages the amazon.jobs search API. Unlike the other
// platforms its reported total is honest, so termination is offset >= total
// or an empty page. Descriptions arrive inline with the listing.
type amazonAdapter struct {
	client *fetch.Client
	api    string
}

func newAmazonAdapter(client *fetch.Client) *amazonAdapter {
	return &amazonAdapter{client: client, api: "https://amazon.jobs"}
}

type amazonSearchResponse struct {
	Hits int `json:"hits"`
	Jobs []struct {
		ID                      string `json:"id"`
		IDIcims                 string `json:"id_icims"`
		Title                   string `json:"title"`
		JobPath                 string `json:"job_path"`
		Location                string `json:"location"`
		NormalizedLocation      string `json:"normalized_location"`
		JobCategory             string `json:"job_category"`
		Description             string `json:"description"`
		BasicQualifications     string `json:"basic_qualifications"`
		PreferredQualifications string `json:"preferred_qualifications"`
	} `json:"jobs"`
}

func (a *amazonAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	// The team slug narrows the search, e.g. /teams/ftr/amazon-robotics.
	var teamCategory string
	if team, ok := platform.ExtractIdentifier(careerURL, platform.Amazon); ok {
		teamCategory = "team-" + team
	}

	var jobs []*types.JobRecord
	for page := 0; page < amazonMaxPages; page++ {
		offset := page * amazonPageSize
		query := url.Values{}
		query.Set("base_query", "")
		query.Set("result_limit", fmt.Sprint(amazonPageSize))
		query.Set("sort", "recent")
		query.Set("offset", fmt.Sprint(offset))
		query.Set("country", "USA")
		if teamCategory != "" {
			query.Set("team_category[]", teamCategory)
		}

		var resp amazonSearchResponse
		if err := a.client.GetJSON(ctx, a.api+"/en/search.json?"+query.Encode(), &resp); err != nil {
			return jobs, fmt.Errorf("amazon search offset %d: %w", offset, err)
		}
		if len(resp.Jobs) == 0 {
			break
		}

		for _, j := range resp.Jobs {
			id := j.IDIcims
			if id == "" {
				id = j.ID
			}
			var jobURL string
			if j.JobPath != "" {
				jobURL = a.api + j.JobPath
			}
			location := j.NormalizedLocation
			if location == "" {
				location = j.Location
			}
			record := &types.JobRecord{
				Title:      j.Title,
				ID:         types.NativeID(id),
				Location:   location,
				URL:        jobURL,
				Department: j.JobCategory,
			}
			record.SetDescription(j.Description + "\n" + j.BasicQualifications + "\n" + j.PreferredQualifications)
			jobs = append(jobs, record)
		}

		if offset+amazonPageSize >= resp.Hits {
			break
		}
	}
	return jobs, nil
}

// FetchDescription strips the HTML tags from the inline description the
// search API already delivered; no network round trip.
func (a *amazonAdapter) FetchDescription(_ context.Context, job *types.JobRecord) string {
	if job.Description == "" {
		return ""
	}
	return types.Truncate(fetch.StripTags(job.Description), types.MaxDescriptionLength)
}
