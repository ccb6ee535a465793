// synonyms.go holds the built-in synonym groups and the expansion logic.
// Each group is a set of interchangeable role titles or tech skills: if a
// user configures any member, the whole group becomes matchable.
package match

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// builtinRoleSynonyms groups related job titles that should match each other.
var builtinRoleSynonyms = [][]string{
	// Data & Analytics
	{
		"data analyst", "data analytics", "analytics analyst", "quantitative analyst",
		"data analytics specialist", "junior data analyst", "associate data analyst",
		"data analysis", "analytics associate", "insight analyst", "decision analyst",
	},
	{
		"data scientist", "data science", "applied scientist", "research scientist",
		"quantitative researcher", "decision scientist", "analytics scientist",
	},
	{
		"data engineer", "data engineering", "analytics engineer", "data platform engineer",
		"etl developer", "data infrastructure engineer", "big data engineer",
	},
	{
		"business analyst", "business analytics", "strategy analyst", "operations analyst",
		"process analyst", "management analyst", "business systems analyst",
	},
	{
		"business intelligence", "bi analyst", "bi developer", "bi engineer",
		"business intelligence analyst", "business intelligence developer",
		"reporting analyst", "insights analyst",
	},

	// Machine Learning & AI
	{
		"ml engineer", "machine learning engineer", "machine learning", "ml developer",
		"applied ml engineer", "ml ops engineer", "mlops",
	},
	{
		"ai engineer", "artificial intelligence engineer", "deep learning engineer",
		"nlp engineer", "computer vision engineer", "ai/ml engineer",
	},

	// Marketing & Growth
	{
		"marketing analyst", "marketing analytics", "growth analyst",
		"digital marketing analyst", "marketing data analyst",
		"performance marketing analyst", "campaign analyst",
	},
	{
		"marketing operations", "marketing ops", "marketing operations manager",
		"marketing operations specialist", "marketing automation",
		"demand generation", "revenue operations",
	},
	{
		"sales operations", "sales ops", "revenue operations", "revops",
		"sales operations analyst", "sales analytics", "gtm operations",
		"go-to-market operations",
	},

	// Program & Product
	{
		"program analyst", "program manager", "program coordinator",
		"technical program manager", "tpm",
	},
	{
		"product analyst", "product analytics", "product data analyst",
		"growth product analyst",
	},

	// Software Engineering (broad)
	{
		"software engineer", "software developer", "swe", "sde",
		"application developer", "backend engineer", "full stack engineer",
		"fullstack engineer", "full-stack engineer",
	},
	{
		"robotics engineer", "robotics software engineer", "robotics developer",
		"automation engineer", "controls engineer", "motion planning engineer",
		"perception engineer",
	},
}

// builtinTechSynonyms maps skill abbreviations to their long forms.
var builtinTechSynonyms = [][]string{
	{"python", "python3", "python programming"},
	{"sql", "structured query language", "mysql", "postgresql", "postgres"},
	{"tableau", "tableau desktop", "tableau server"},
	{"power bi", "powerbi"},
	{"machine learning", "ml", "statistical modeling"},
	{"deep learning", "dl", "neural networks"},
	{"etl", "extract transform load", "data pipeline", "data pipelines"},
	{"a/b testing", "ab testing", "experimentation", "split testing"},
	{"crm", "customer relationship management"},
	{"nlp", "natural language processing"},
	{"computer vision", "cv", "image recognition"},
	{"ci/cd", "continuous integration", "continuous deployment"},
	{"aws", "amazon web services"},
	{"gcp", "google cloud platform", "google cloud"},
	{"azure", "microsoft azure"},
}

// expansion is one configured keyword plus its ordered variant list. The
// keyword itself is always first so trace strings prefer the exact form.
type expansion struct {
	keyword  string
	variants []string
}

// buildExpansions expands each configured keyword through every group it
// belongs to. Keywords outside all groups still get a single-element
// expansion of themselves. Order follows the configured keyword list so
// match traces are stable.
func buildExpansions(groups [][]string, configured []string) []expansion {
	groupSets := make([]mapset.Set[string], 0, len(groups))
	for _, g := range groups {
		set := mapset.NewThreadUnsafeSet[string]()
		for _, member := range g {
			set.Add(strings.ToLower(member))
		}
		groupSets = append(groupSets, set)
	}

	expansions := make([]expansion, 0, len(configured))
	for _, raw := range configured {
		kw := strings.ToLower(strings.TrimSpace(raw))
		if kw == "" {
			continue
		}
		seen := mapset.NewThreadUnsafeSet(kw)
		exp := expansion{keyword: kw, variants: []string{kw}}
		for i, set := range groupSets {
			if !set.Contains(kw) {
				continue
			}
			for _, member := range groups[i] {
				variant := strings.ToLower(member)
				if seen.Add(variant) {
					exp.variants = append(exp.variants, variant)
				}
			}
		}
		expansions = append(expansions, exp)
	}
	return expansions
}

// mergeGroups appends user-supplied groups after the built-in ones.
func mergeGroups(builtin [][]string, user [][]string) [][]string {
	merged := make([][]string, 0, len(builtin)+len(user))
	merged = append(merged, builtin...)
	merged = append(merged, user...)
	return merged
}
