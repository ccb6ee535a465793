// Package platform provides career-site platform detection and per-platform
// company identifier extraction. Both functions are pure: no network I/O,
// deterministic for a given URL string.
package platform

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies a known career-site backend.
type Platform string

const (
	Amazon          Platform = "amazon"
	Greenhouse      Platform = "greenhouse"
	Lever           Platform = "lever"
	Workday         Platform = "workday"
	SmartRecruiters Platform = "smartrecruiters"
	Ashby           Platform = "ashby"
	Recruitee       Platform = "recruitee"
	Taleo           Platform = "taleo"
	OracleCloud     Platform = "oraclecloud"
	Jobvite         Platform = "jobvite"
	ICIMS           Platform = "icims"
	Tesla           Platform = "tesla"
	// Generic is the catch-all for unrecognized hosts; the link-pattern
	// scraper handles these.
	Generic Platform = "generic"
)

// All lists every platform tag, Generic last.
func All() []Platform {
	return []Platform{
		Amazon, Greenhouse, Lever, Workday, SmartRecruiters, Ashby,
		Recruitee, Taleo, OracleCloud, Jobvite, ICIMS, Tesla, Generic,
	}
}

var (
	taleoPathPattern  = regexp.MustCompile(`/go/[\w-]+/\d+`)
	icimsLocalePath   = regexp.MustCompile(`/en[_-]\w+/careers/`)
	greenhouseSlug    = regexp.MustCompile(`greenhouse\.io/(?:embed/job_board\?for=)?([\w-]+)`)
	workdayTenant     = regexp.MustCompile(`([\w-]+)\.wd\d+\.myworkdayjobs\.com`)
	smartrecruitersCo = regexp.MustCompile(`smartrecruiters\.com/([\w-]+)`)
	ashbySlug         = regexp.MustCompile(`ashbyhq\.com/([\w-]+)`)
	amazonTeam        = regexp.MustCompile(`/teams?/(?:ftr/)?([\w-]+)`)
	recruiteeSlug     = regexp.MustCompile(`([\w-]+)\.recruitee\.com`)
	oracleHost        = regexp.MustCompile(`([\w-]+)\.(fa\.\w+)\.oraclecloud\.com`)
	ttcPortalsSlug    = regexp.MustCompile(`([\w-]+)\.ttcportals\.com`)
	jobviteSlug       = regexp.MustCompile(`jobvite\.com/([\w-]+)`)
)

// Detect maps a career-page URL to a platform tag. Total: unrecognized
// inputs return Generic. The checks are ordered: the iCIMS locale-path
// heuristic at the bottom is loose enough to shadow more specific hosts,
// so it must run after every hostname check.
func Detect(rawURL string) Platform {
	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, "amazon.jobs"):
		return Amazon
	case strings.Contains(u, "greenhouse.io") || strings.Contains(u, "boards.greenhouse"):
		return Greenhouse
	case strings.Contains(u, "lever.co"):
		return Lever
	case strings.Contains(u, ".myworkdayjobs.com") || strings.Contains(u, "workday"):
		return Workday
	case strings.Contains(u, "smartrecruiters.com"):
		return SmartRecruiters
	case strings.Contains(u, "jobvite.com") || strings.Contains(u, "ttcportals.com"):
		return Jobvite
	case strings.Contains(u, "icims.com"):
		return ICIMS
	case strings.Contains(u, "ashbyhq.com"):
		return Ashby
	case strings.Contains(u, "recruitee.com"):
		return Recruitee
	case strings.Contains(u, "/go/") && taleoPathPattern.MatchString(u):
		return Taleo
	case strings.Contains(u, ".oraclecloud.com") || strings.Contains(u, "candidateexperience"):
		return OracleCloud
	// iCIMS / Taleo Enterprise behind custom domains: locale career paths,
	// /careers-home/jobs, or the search-alert query params they emit.
	case icimsLocalePath.MatchString(u),
		strings.Contains(u, "/careers-home/jobs"),
		strings.Contains(u, "createnewalert"),
		strings.Contains(u, "optionsfacetsdd_"):
		return ICIMS
	case strings.Contains(u, "tesla.com/careers"):
		return Tesla
	default:
		return Generic
	}
}

// ExtractIdentifier recovers the token a platform's API needs from a career
// URL: board slug, tenant subdomain, Oracle host+region, portal hostname.
// ok is false when the URL does not have the shape the platform expects;
// callers treat that as "use the generic adapter", not as an error.
func ExtractIdentifier(rawURL string, p Platform) (identifier string, ok bool) {
	switch p {
	case Greenhouse:
		// https://boards.greenhouse.io/company or ?for=company embeds
		if m := greenhouseSlug.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
		if parsed, err := url.Parse(rawURL); err == nil {
			parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if last := parts[len(parts)-1]; last != "" {
				return last, true
			}
		}
	case Lever:
		// https://jobs.lever.co/company
		if parsed, err := url.Parse(rawURL); err == nil {
			parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(parts) > 0 && parts[0] != "" {
				return parts[0], true
			}
		}
	case Workday:
		if m := workdayTenant.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case SmartRecruiters:
		if m := smartrecruitersCo.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case Ashby:
		if m := ashbySlug.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case Amazon:
		// team slug from e.g. /content/en/teams/ftr/amazon-robotics#search
		if m := amazonTeam.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case Recruitee:
		if m := recruiteeSlug.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case OracleCloud:
		// host identifier plus cloud region, e.g. "hctz.fa.us2"
		if m := oracleHost.FindStringSubmatch(rawURL); m != nil {
			return m[1] + "." + m[2], true
		}
	case Jobvite:
		if strings.Contains(rawURL, "ttcportals.com") {
			if m := ttcPortalsSlug.FindStringSubmatch(rawURL); m != nil {
				return m[1], true
			}
			return "", false
		}
		if m := jobviteSlug.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	case ICIMS:
		// Custom-domain iCIMS boards are addressed by hostname.
		if parsed, err := url.Parse(rawURL); err == nil && parsed.Hostname() != "" {
			return parsed.Hostname(), true
		}
	case Tesla:
		return "tesla", true
	}
	return "", false
}
