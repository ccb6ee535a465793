package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	smartRecruitersPageSize = 100
	smartRecruitersMaxPages = 10
)

// smartRecruitersAdapter pages the public SmartRecruiters postings API.
type smartRecruitersAdapter struct {
	client *fetch.Client
	api    string
}

func newSmartRecruitersAdapter(client *fetch.Client) *smartRecruitersAdapter {
	return &smartRecruitersAdapter{client: client, api: "https://api.smartrecruiters.com"}
}

type smartRecruitersPosting struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Ref      string `json:"ref"`
	Location struct {
		City   string `json:"city"`
		Region string `json:"region"`
	} `json:"location"`
	Department struct {
		Label string `json:"label"`
	} `json:"department"`
}

type smartRecruitersListing struct {
	Content    []smartRecruitersPosting `json:"content"`
	TotalFound int                      `json:"totalFound"`
}

type smartRecruitersDetail struct {
	JobAd struct {
		Sections map[string]struct {
			Text string `json:"text"`
		} `json:"sections"`
	} `json:"jobAd"`
}

func (a *smartRecruitersAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.SmartRecruiters)
	if !ok {
		return nil, fmt.Errorf("no smartrecruiters company in %s", careerURL)
	}

	var jobs []*types.JobRecord
	for page := 0; page < smartRecruitersMaxPages; page++ {
		offset := page * smartRecruitersPageSize
		listURL := fmt.Sprintf("%s/v1/companies/%s/postings?limit=%d&offset=%d",
			a.api, slug, smartRecruitersPageSize, offset)
		var listing smartRecruitersListing
		if err := a.client.GetJSON(ctx, listURL, &listing); err != nil {
			return jobs, fmt.Errorf("smartrecruiters page %d: %w", page+1, err)
		}

		for _, p := range listing.Content {
			loc := strings.Trim(p.Location.City+", "+p.Location.Region, ", ")
			jobs = append(jobs, &types.JobRecord{
				Title:      p.Name,
				ID:         types.NativeID(p.ID),
				Location:   loc,
				URL:        p.Ref,
				Department: p.Department.Label,
			})
		}

		if len(jobs) >= listing.TotalFound || len(listing.Content) < smartRecruitersPageSize {
			break
		}
	}
	return jobs, nil
}

// FetchDescription reads the posting detail API and joins the jobAd
// sections in a fixed order.
func (a *smartRecruitersAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	slug, ok := platform.ExtractIdentifier(job.SourceURL, platform.SmartRecruiters)
	id, native := job.ID.Native()
	if !ok || !native {
		return ""
	}

	detailURL := fmt.Sprintf("%s/v1/companies/%s/postings/%s", a.api, slug, id)
	var detail smartRecruitersDetail
	if err := a.client.GetJSON(ctx, detailURL, &detail); err != nil {
		return ""
	}

	var parts []string
	for _, key := range []string{"jobDescription", "qualifications", "additionalInformation"} {
		if section, ok := detail.JobAd.Sections[key]; ok && section.Text != "" {
			parts = append(parts, fetch.StripTags(section.Text))
		}
	}
	return types.Truncate(strings.Join(parts, " "), types.MaxDescriptionLength)
}
