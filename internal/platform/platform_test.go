package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.amazon.jobs/content/en/teams/ftr/amazon-robotics#search", Amazon},
		{"https://boards.greenhouse.io/stripe", Greenhouse},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", Greenhouse},
		{"https://jobs.lever.co/figma", Lever},
		{"https://nvidia.wd5.myworkdayjobs.com/en-US/NVIDIAExternalCareerSite", Workday},
		{"https://careers.smartrecruiters.com/Visa", SmartRecruiters},
		{"https://jobs.ashbyhq.com/linear", Ashby},
		{"https://1x.recruitee.com/", Recruitee},
		{"https://careers.example.com/go/Search/8797500/", Taleo},
		{"https://hctz.fa.us2.oraclecloud.com/hcmUI/CandidateExperience/en/sites/CX_1001/jobs", OracleCloud},
		{"https://jobs.jobvite.com/company/jobs", Jobvite},
		{"https://parkercareers.ttcportals.com/jobs/search", Jobvite},
		{"https://jobs-company.icims.com/jobs/search", ICIMS},
		{"https://careers.tsmc.com/en_US/careers/SearchJobs", ICIMS},
		{"https://www.tesla.com/careers/search/?query=robotics", Tesla},
		{"https://example.com/careers", Generic},
		{"", Generic},
		{"not a url at all", Generic},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.url))
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	// Same input must map to the same tag across calls.
	for i := 0; i < 3; i++ {
		assert.Equal(t, Workday, Detect("https://gm.wd5.myworkdayjobs.com/Careers"))
	}
}

func TestDetect_ICIMSLocalePathDoesNotShadowSpecificHosts(t *testing.T) {
	// A Greenhouse URL with a locale-looking career path must still be
	// detected as Greenhouse, not iCIMS.
	assert.Equal(t, Greenhouse, Detect("https://boards.greenhouse.io/en_US/careers/acme"))
}

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform Platform
		want     string
		ok       bool
	}{
		{"greenhouse board", "https://boards.greenhouse.io/stripe", Greenhouse, "stripe", true},
		{"greenhouse embed", "https://boards.greenhouse.io/embed/job_board?for=airbnb", Greenhouse, "airbnb", true},
		{"lever", "https://jobs.lever.co/figma/abc-123", Lever, "figma", true},
		{"workday", "https://nvidia.wd5.myworkdayjobs.com/en-US/Careers", Workday, "nvidia", true},
		{"workday bad shape", "https://careers.workday.example.com/", Workday, "", false},
		{"smartrecruiters", "https://careers.smartrecruiters.com/Visa", SmartRecruiters, "Visa", true},
		{"ashby", "https://jobs.ashbyhq.com/linear", Ashby, "linear", true},
		{"amazon team", "https://amazon.jobs/content/en/teams/ftr/amazon-robotics#search", Amazon, "amazon-robotics", true},
		{"recruitee", "https://1x.recruitee.com/", Recruitee, "1x", true},
		{"oracle", "https://hctz.fa.us2.oraclecloud.com/hcmUI/CandidateExperience/en/sites/CX_1001/jobs", OracleCloud, "hctz.fa.us2", true},
		{"jobvite ttc", "https://parkercareers.ttcportals.com/jobs/search", Jobvite, "parkercareers", true},
		{"jobvite hosted", "https://jobs.jobvite.com/acme", Jobvite, "acme", true},
		{"icims hostname", "https://careers.tsmc.com/en_US/careers/SearchJobs", ICIMS, "careers.tsmc.com", true},
		{"tesla", "https://www.tesla.com/careers/search", Tesla, "tesla", true},
		{"generic has no identifier", "https://example.com/careers", Generic, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractIdentifier(tt.url, tt.platform)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
