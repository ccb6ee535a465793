// Package match scores job records against a configured skill profile.
// All keyword matching is case-insensitive substring containment over the
// expanded synonym sets; evaluation is ordered and short-circuits on the
// first disqualifying check.
package match

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/types"
)

const (
	titleMatchScore = 10.0
	descMatchScore  = 3.0
	techMatchScore  = 2.0

	preferredLocationScore = 5.0
	remoteLocationScore    = 4.0
	countryLocationScore   = 3.0
)

// Citizenship, export-control and clearance language always disqualifies a
// posting, regardless of the user's exclude list.
var builtinExcludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bu\.?s\.?\s*person\b`),
	regexp.MustCompile(`(?i)\bexport[- ]control`),
	regexp.MustCompile(`(?i)\bmust\s+be\s+a?\s*u\.?s\.?\s*(citizen|person|national)\b`),
	regexp.MustCompile(`(?i)\b(ts|top\s*secret)[/ ]sci\b`),
	regexp.MustCompile(`(?i)\bobtain\b.*\b(security\s+clearance|clearance)\b`),
	regexp.MustCompile(`(?i)\bactive\b.*\bclearance\b`),
}

var yearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?`)

// Matcher is an immutable evaluator compiled once per run from configuration.
type Matcher struct {
	primary   []expansion
	technical []expansion

	exclude         []string
	excludePatterns []*regexp.Regexp

	country       string
	preferred     []string
	includeRemote bool

	maxYears int
}

// New compiles a Matcher from configuration. Exclusion keywords of four
// characters or fewer are compiled to word-boundary regexes so a short
// acronym cannot match inside an unrelated longer word.
func New(cfg *config.Config) *Matcher {
	roleGroups := mergeGroups(builtinRoleSynonyms, cfg.Skills.RoleSynonyms)
	techGroups := mergeGroups(builtinTechSynonyms, cfg.Skills.TechSynonyms)

	m := &Matcher{
		primary:       buildExpansions(roleGroups, cfg.Skills.Primary),
		technical:     buildExpansions(techGroups, cfg.Skills.Technical),
		country:       strings.ToUpper(strings.TrimSpace(cfg.Locations.Country)),
		includeRemote: cfg.Locations.IncludeRemote,
		maxYears:      cfg.Experience.MaxYears,
	}
	for _, kw := range cfg.Skills.Exclude {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if len(kw) <= 4 {
			m.excludePatterns = append(m.excludePatterns,
				regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		} else {
			m.exclude = append(m.exclude, kw)
		}
	}
	for _, pref := range cfg.Locations.Preferred {
		m.preferred = append(m.preferred, strings.ToLower(pref))
	}
	return m
}

// MatchJob evaluates one job. The returned trace lists matched variants in
// configuration order, with "kw→variant" arrows for synonym hits, a "(desc)"
// suffix for description-only primary hits and a wrench marker on tech hits.
func (m *Matcher) MatchJob(job *types.JobRecord) types.MatchResult {
	title := strings.ToLower(job.Title)
	description := strings.ToLower(job.Description)
	department := strings.ToLower(job.Department)
	searchable := title + " " + description + " " + department

	if m.isExcluded(searchable) {
		return types.MatchResult{}
	}

	var matched []string
	var titleScore, descScore float64

	for _, exp := range m.primary {
		var best string
		inTitle := false
		for _, variant := range exp.variants {
			if strings.Contains(title, variant) || strings.Contains(department, variant) {
				best = variant
				inTitle = true
				break
			}
			if best == "" && strings.Contains(description, variant) {
				best = variant
			}
		}
		if best == "" {
			continue
		}
		trace := exp.keyword
		if best != exp.keyword {
			trace = exp.keyword + "→" + best
		}
		if inTitle {
			matched = append(matched, trace)
			titleScore += titleMatchScore
		} else {
			matched = append(matched, trace+" (desc)")
			descScore += descMatchScore
		}
	}

	// Description-only hits boost score but cannot qualify a job on their own.
	if titleScore == 0 {
		return types.MatchResult{}
	}

	var techScore float64
	for _, exp := range m.technical {
		for _, variant := range exp.variants {
			if !strings.Contains(searchable, variant) {
				continue
			}
			if variant == exp.keyword {
				matched = append(matched, "🔧 "+exp.keyword)
			} else {
				matched = append(matched, "🔧 "+exp.keyword+"→"+variant)
			}
			techScore += techMatchScore
			break
		}
	}

	locScore := m.scoreLocation(job.Location)
	if m.country != "" && locScore == 0 {
		return types.MatchResult{}
	}

	if maxYears, ok := maxYearsMentioned(searchable); ok && maxYears > m.maxYears {
		return types.MatchResult{}
	}

	total := titleScore + descScore + techScore + locScore
	return types.MatchResult{
		IsMatch:         true,
		Score:           math.Round(total*10) / 10,
		MatchedKeywords: matched,
	}
}

// scoreLocation returns 5.0 for a preferred-location hit, 4.0 for remote,
// 3.0 for a target-country hit, taking the maximum rather than summing.
// With no country and no preferred locations configured every job gets 3.0.
func (m *Matcher) scoreLocation(location string) float64 {
	locLower := strings.ToLower(location)
	var score float64

	if m.country == "US" && IsUSLocation(location) {
		score = countryLocationScore
	}
	for _, pref := range m.preferred {
		if strings.Contains(locLower, pref) {
			score = math.Max(score, preferredLocationScore)
			break
		}
	}
	if m.includeRemote && strings.Contains(locLower, "remote") {
		score = math.Max(score, remoteLocationScore)
	}
	if m.country == "" && len(m.preferred) == 0 {
		score = countryLocationScore
	}
	return score
}

func (m *Matcher) isExcluded(searchable string) bool {
	for _, re := range m.excludePatterns {
		if re.MatchString(searchable) {
			return true
		}
	}
	for _, kw := range m.exclude {
		if strings.Contains(searchable, kw) {
			return true
		}
	}
	for _, re := range builtinExcludePatterns {
		if re.MatchString(searchable) {
			return true
		}
	}
	return false
}

// maxYearsMentioned extracts every "N years" / "N+ years" mention and
// returns the largest N. A posting that lists several experience tiers is
// judged by its most demanding one.
func maxYearsMentioned(text string) (int, bool) {
	matches := yearsPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	maxYears := 0
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxYears {
			maxYears = n
		}
	}
	return maxYears, true
}

// FilterJobs scores every job, annotates matches in place with their score
// and keyword trace, and returns the matches sorted by descending score.
func (m *Matcher) FilterJobs(jobs []*types.JobRecord) []*types.JobRecord {
	matched := make([]*types.JobRecord, 0, len(jobs))
	for _, job := range jobs {
		result := m.MatchJob(job)
		if !result.IsMatch {
			continue
		}
		job.RelevanceScore = result.Score
		job.MatchedKeywords = result.MatchedKeywords
		matched = append(matched, job)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RelevanceScore > matched[j].RelevanceScore
	})
	return matched
}

// Summary describes the compiled profile for log output.
func (m *Matcher) Summary() string {
	return fmt.Sprintf("%d primary, %d technical, %d excluded keywords, country=%q, max_years=%d",
		len(m.primary), len(m.technical), len(m.exclude)+len(m.excludePatterns), m.country, m.maxYears)
}
