package scrape

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

// recruiteeAdapter reads the Recruitee offers API: one request, all offers,
// HTML descriptions inline.
type recruiteeAdapter struct {
	client *fetch.Client
	// apiBase overrides the slug-derived host in tests.
	apiBase string
}

func newRecruiteeAdapter(client *fetch.Client) *recruiteeAdapter {
	return &recruiteeAdapter{client: client}
}

type recruiteeOffers struct {
	Offers []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Location    string `json:"location"`
		CareersURL  string `json:"careers_url"`
		Department  string `json:"department"`
		Description string `json:"description"`
	} `json:"offers"`
}

func (a *recruiteeAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.Recruitee)
	if !ok {
		return nil, fmt.Errorf("no recruitee slug in %s", careerURL)
	}

	base := a.apiBase
	if base == "" {
		base = fmt.Sprintf("https://%s.recruitee.com", slug)
	}

	var offers recruiteeOffers
	if err := a.client.GetJSON(ctx, base+"/api/offers", &offers); err != nil {
		return nil, fmt.Errorf("recruitee offers: %w", err)
	}

	jobs := make([]*types.JobRecord, 0, len(offers.Offers))
	for _, o := range offers.Offers {
		record := &types.JobRecord{
			Title:      o.Title,
			ID:         types.NativeID(strconv.FormatInt(o.ID, 10)),
			Location:   o.Location,
			URL:        o.CareersURL,
			Department: o.Department,
		}
		record.SetDescription(fetch.StripTags(o.Description))
		jobs = append(jobs, record)
	}
	return jobs, nil
}

// FetchDescription returns the inline description stored at listing time.
func (a *recruiteeAdapter) FetchDescription(_ context.Context, job *types.JobRecord) string {
	return job.Description
}
