package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	oraclePageSize = 25
	oracleMaxPages = 40
)

var oracleSitePattern = regexp.MustCompile(`/sites/([\w_]+)`)

// oracleAdapter drives the Oracle Recruiting Cloud public REST API
// (recruitingCEJobRequisitions). The API is keyed by the site number
// embedded in the career URL path and wants the career page visited first
// to establish session cookies.
type oracleAdapter struct {
	client *fetch.Client
}

func newOracleAdapter(client *fetch.Client) *oracleAdapter {
	return &oracleAdapter{client: client}
}

type oracleRequisitions struct {
	Items []struct {
		TotalJobsCount  int `json:"TotalJobsCount"`
		RequisitionList []struct {
			ID               any    `json:"Id"`
			Title            string `json:"Title"`
			PrimaryLocation  string `json:"PrimaryLocation"`
			DepartmentName   string `json:"DepartmentName"`
			BusinessUnitName string `json:"BusinessUnitName"`
		} `json:"requisitionList"`
	} `json:"items"`
}

type oracleRequisitionDetail struct {
	Items []struct {
		ExternalDescriptionStr      string `json:"ExternalDescriptionStr"`
		ExternalQualificationsStr   string `json:"ExternalQualificationsStr"`
		ExternalResponsibilitiesStr string `json:"ExternalResponsibilitiesStr"`
	} `json:"items"`
}

func (a *oracleAdapter) ListJobs(ctx context.Context, company, careerURL string) ([]*types.JobRecord, error) {
	parsed, err := url.Parse(careerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid oracle URL %s: %w", careerURL, err)
	}
	m := oracleSitePattern.FindStringSubmatch(careerURL)
	if m == nil {
		return nil, fmt.Errorf("no oracle site number in %s", careerURL)
	}
	siteNumber := m[1]
	baseURL := parsed.Scheme + "://" + parsed.Hostname()

	// Prime session cookies before hitting the REST API.
	_, _ = a.client.Get(ctx, careerURL, map[string]string{"Accept": "text/html"})

	apiURL := baseURL + "/hcmRestApi/resources/latest/recruitingCEJobRequisitions"
	headers := map[string]string{
		"Accept":  "application/json",
		"Referer": careerURL,
		"Origin":  baseURL,
	}

	var jobs []*types.JobRecord
	for page := 0; page < oracleMaxPages; page++ {
		offset := page * oraclePageSize
		finder := fmt.Sprintf(
			"findReqs;siteNumber=%s,facetsList=LOCATIONS;WORK_LOCATIONS;WORKPLACE_TYPES;TITLES;CATEGORIES;ORGANIZATIONS;POSTING_DATES;FLEX_FIELDS,limit=%d,offset=%d",
			siteNumber, oraclePageSize, offset)
		query := url.Values{}
		query.Set("onlyData", "true")
		query.Set("expand", "requisitionList.secondaryLocations,flexFieldsFacet.values")
		query.Set("finder", finder)

		result, err := a.client.Get(ctx, apiURL+"?"+query.Encode(), headers)
		if err != nil {
			return jobs, fmt.Errorf("oracle page %d: %w", page+1, err)
		}
		trimmed := strings.TrimSpace(result.Body)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return jobs, fmt.Errorf("oracle page %d: non-JSON response", page+1)
		}

		var resp oracleRequisitions
		if err := decodeJSON(trimmed, &resp); err != nil {
			return jobs, fmt.Errorf("oracle page %d: %w", page+1, err)
		}
		if len(resp.Items) == 0 || len(resp.Items[0].RequisitionList) == 0 {
			break
		}

		requisitions := resp.Items[0].RequisitionList
		for _, r := range requisitions {
			reqID := stringify(r.ID)
			department := r.DepartmentName
			if department == "" {
				department = r.BusinessUnitName
			}
			jobs = append(jobs, &types.JobRecord{
				Title:      r.Title,
				ID:         types.NativeID(reqID),
				Location:   r.PrimaryLocation,
				URL:        fmt.Sprintf("%s/hcmUI/CandidateExperience/en/sites/%s/job/%s", baseURL, siteNumber, reqID),
				Department: department,
			})
		}

		if len(requisitions) < oraclePageSize {
			break
		}
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("oracle site %s returned no requisitions", siteNumber)
	}
	return jobs, nil
}

// FetchDescription reads the requisition detail API and joins its three
// external text fields. Base URL and site number are recovered from the
// record's own URLs, so no adapter state survives between passes.
func (a *oracleAdapter) FetchDescription(ctx context.Context, job *types.JobRecord) string {
	reqID, native := job.ID.Native()
	m := oracleSitePattern.FindStringSubmatch(job.URL)
	if m == nil {
		m = oracleSitePattern.FindStringSubmatch(job.SourceURL)
	}
	parsed, err := url.Parse(job.URL)
	if !native || m == nil || err != nil {
		return newGenericAdapter(a.client).fetchDescriptionURL(ctx, job.URL)
	}
	baseURL := parsed.Scheme + "://" + parsed.Hostname()

	detailURL := fmt.Sprintf(
		"%s/hcmRestApi/resources/latest/recruitingCEJobRequisitionDetails/%s?onlyData=true&expand=all&siteNumber=%s",
		baseURL, reqID, m[1])
	headers := map[string]string{
		"Accept":  "application/json",
		"Referer": job.URL,
		"Origin":  baseURL,
	}

	result, err := a.client.Get(ctx, detailURL, headers)
	if err != nil {
		return ""
	}
	trimmed := strings.TrimSpace(result.Body)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return ""
	}

	var detail oracleRequisitionDetail
	if err := decodeJSON(trimmed, &detail); err != nil || len(detail.Items) == 0 {
		return ""
	}

	item := detail.Items[0]
	var parts []string
	for _, html := range []string{item.ExternalDescriptionStr, item.ExternalQualificationsStr, item.ExternalResponsibilitiesStr} {
		if html != "" {
			parts = append(parts, fetch.StripTags(html))
		}
	}
	return types.Truncate(strings.Join(parts, " "), types.MaxDescriptionLength)
}
