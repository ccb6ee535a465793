package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/platform"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	workdayPageSize = 20
	workdayMaxPages = 50
)

var (
	workdayLocalePath = regexp.MustCompile(`^/[a-z]{2}[-_][A-Z]{2}/`)
	workdayWDNumber   = regexp.MustCompile(`\.wd(\d+)\.myworkdayjobs\.com`)
)

// workdayAdapter drives the Workday CXS search API. Workday boards are JS
// single-page apps; the CXS endpoint is the only structured path in.
type workdayAdapter struct {
	client *fetch.Client
	// baseOverride replaces the slug-derived host in tests.
	baseOverride string
}

func newWorkdayAdapter(client *fetch.Client) *workdayAdapter {
	return &workdayAdapter{client: client}
}

func (a *workdayAdapter) domain(slug, wd string) string {
	if a.baseOverride != "" {
		return a.baseOverride
	}
	return fmt.Sprintf("https://%s.%s.myworkdayjobs.com", slug, wd)
}

type workdaySearchRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type workdaySearchResponse struct {
	Total       int `json:"total"`
	JobPostings []struct {
		Title         string   `json:"title"`
		ExternalPath  string   `json:"externalPath"`
		LocationsText string   `json:"locationsText"`
		BulletFields  []string `json:"bulletFields"`
	} `json:"jobPostings"`
}

type workdayPostingDetail struct {
	JobPostingInfo struct {
		JobDescription        string `json:"jobDescription"`
		Qualifications        string `json:"qualifications"`
		AdditionalInformation string `json:"additionalInformation"`
	} `json:"jobPostingInfo"`
}

// siteName picks the Workday site segment out of the career URL path,
// skipping locale and routing segments. Falls back to the tenant slug.
func workdaySiteName(careerURL, slug string) string {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return slug
	}
	for _, part := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		switch part {
		case "en-US", "en", "jobs", "details", "":
		default:
			return part
		}
	}
	return slug
}

func (a *workdayAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	slug, ok := platform.ExtractIdentifier(careerURL, platform.Workday)
	if !ok {
		return nil, fmt.Errorf("no workday tenant in %s", careerURL)
	}
	site := workdaySiteName(careerURL, slug)

	// Tenants are spread across wd1..wd5 subdomains with no way to tell
	// from the career URL alone when it sits behind a vanity domain.
	// Probe each with a one-record search until one answers.
	wd := a.probeDomain(ctx, slug, site, careerURL)

	base := a.domain(slug, wd)
	searchURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", base, slug, site)
	headers := map[string]string{
		"Referer": fmt.Sprintf("%s/%s/", base, site),
		"Origin":  base,
	}

	var jobs []*types.JobRecord
	for page := 0; page < workdayMaxPages; page++ {
		payload := workdaySearchRequest{
			AppliedFacets: map[string]any{},
			Limit:         workdayPageSize,
			Offset:        page * workdayPageSize,
		}
		var resp workdaySearchResponse
		if err := a.client.PostJSON(ctx, searchURL, payload, &resp, headers); err != nil {
			return jobs, fmt.Errorf("workday page %d: %w", page+1, err)
		}

		if len(resp.JobPostings) == 0 {
			break
		}

		for _, p := range resp.JobPostings {
			var id string
			if len(p.BulletFields) > 0 {
				id = p.BulletFields[0]
			}
			jobs = append(jobs, &types.JobRecord{
				Title:    p.Title,
				ID:       types.NativeID(id),
				Location: p.LocationsText,
				URL:      base + p.ExternalPath,
			})
		}

		// Stop only on a short page. The reported total is unreliable on
		// many Workday tenants and must not drive termination.
		if len(resp.JobPostings) < workdayPageSize {
			break
		}
	}
	return jobs, nil
}

// probeDomain finds the wdN subdomain serving this tenant. Prefers the
// number embedded in the career URL, otherwise probes wd1 through wd5 and
// defaults to wd1 when nothing answers.
func (a *workdayAdapter) probeDomain(ctx context.Context, slug, site, careerURL string) string {
	if m := workdayWDNumber.FindStringSubmatch(careerURL); m != nil {
		return "wd" + m[1]
	}
	for i := 1; i <= 5; i++ {
		wd := fmt.Sprintf("wd%d", i)
		base := a.domain(slug, wd)
		probeURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", base, slug, site)
		payload := workdaySearchRequest{AppliedFacets: map[string]any{}, Limit: 1}
		var resp workdaySearchResponse
		if err := a.client.PostJSON(ctx, probeURL, payload, &resp, map[string]string{
			"Referer": fmt.Sprintf("%s/%s/", base, site),
			"Origin":  base,
		}); err == nil {
			return wd
		}
		if a.baseOverride != "" {
			break
		}
	}
	return "wd1"
}

// FetchDescription calls the CXS posting detail endpoint. Workday often
// puts visa and legal requirements in qualifications or
// additionalInformation rather than the main description, so all three
// fields are concatenated.
func (a *workdayAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	if job.URL == "" {
		return ""
	}
	slug, ok := platform.ExtractIdentifier(job.SourceURL, platform.Workday)
	if !ok {
		if slug, ok = platform.ExtractIdentifier(job.URL, platform.Workday); !ok {
			return ""
		}
	}

	parsed, err := url.Parse(job.URL)
	if err != nil {
		return ""
	}
	// The CXS API rejects locale path prefixes like /en-US/.
	jobPath := workdayLocalePath.ReplaceAllString(parsed.Path, "/")

	wdNums := []string{"wd1", "wd2", "wd3", "wd4", "wd5"}
	if m := workdayWDNumber.FindStringSubmatch(job.URL); m != nil {
		wdNums = []string{"wd" + m[1]}
	}

	for _, wd := range wdNums {
		detailURL := fmt.Sprintf("%s/wday/cxs/%s%s", a.domain(slug, wd), slug, jobPath)
		var detail workdayPostingDetail
		if err := a.client.GetJSON(ctx, detailURL, &detail); err != nil {
			if a.baseOverride != "" {
				break
			}
			continue
		}
		info := detail.JobPostingInfo
		var parts []string
		for _, html := range []string{info.JobDescription, info.Qualifications, info.AdditionalInformation} {
			if html != "" {
				parts = append(parts, fetch.StripTags(html))
			}
		}
		if len(parts) > 0 {
			return types.Truncate(strings.Join(parts, " "), types.MaxDescriptionLength)
		}
	}
	return ""
}
