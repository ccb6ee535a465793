// Package types defines the core data shapes shared across the scraping and
// matching pipeline.
package types

import "strings"

// MaxDescriptionLength caps stored description text. Long enough to capture
// qualifications/requirements sections, short enough to keep storage sane.
const MaxDescriptionLength = 5000

// CareerSource is one employer to scrape: a display name, its career page
// URL, and the category the source list assigned it (used only for grouping
// in notifications).
type CareerSource struct {
	Name      string
	CareerURL string
	Category  string
}

// Identifier is a platform job identifier. Some platforms expose a native ID
// (Greenhouse numeric IDs, Lever UUIDs); others give us nothing better than
// the posting URL. The tag lets consumers branch explicitly instead of
// sniffing the string for "http".
type Identifier struct {
	value string
	isURL bool
}

// NativeID wraps a platform-native identifier.
func NativeID(v string) Identifier {
	return Identifier{value: v}
}

// URLFallbackID wraps a posting URL used in place of a native identifier.
func URLFallbackID(u string) Identifier {
	return Identifier{value: u, isURL: true}
}

// Native returns the identifier value and true when it is platform-native.
func (id Identifier) Native() (string, bool) {
	if id.isURL {
		return "", false
	}
	return id.value, id.value != ""
}

// IsURL reports whether the identifier is a URL fallback.
func (id Identifier) IsURL() bool { return id.isURL }

// String returns the raw identifier value regardless of tag.
func (id Identifier) String() string { return id.value }

// IsZero reports whether no identifier was set at all.
func (id Identifier) IsZero() bool { return id.value == "" }

// JobRecord is the normalized job posting produced by the listing adapters
// and consumed by the matcher, store, and notifier. Fields after Description
// are attached downstream: Company/Platform/SourceURL/Category by the scraper,
// RelevanceScore/MatchedKeywords by the matcher, VisaUnverified by the
// orchestrator when the description could not be fetched.
type JobRecord struct {
	Title       string
	ID          Identifier
	Location    string
	URL         string
	Department  string
	Description string

	Company   string
	Platform  string
	SourceURL string
	Category  string

	RelevanceScore  float64
	MatchedKeywords []string
	VisaUnverified  bool
}

// SetDescription stores text truncated to MaxDescriptionLength.
func (j *JobRecord) SetDescription(text string) {
	j.Description = Truncate(text, MaxDescriptionLength)
}

// Key computes the deduplication identity for this record. Native IDs are
// stable across scrapes; URL-fallback records fall back to
// company|title|location. All parts lower-cased and trimmed so repeated
// scrapes of the same still-open posting collide.
func (j *JobRecord) Key() string {
	company := strings.ToLower(strings.TrimSpace(j.Company))
	if native, ok := j.ID.Native(); ok {
		return company + "|" + strings.ToLower(strings.TrimSpace(native))
	}
	title := strings.ToLower(strings.TrimSpace(j.Title))
	location := strings.ToLower(strings.TrimSpace(j.Location))
	return company + "|" + title + "|" + location
}

// MatchResult is the matcher's verdict for one job. MatchedKeywords records
// which literal variant matched and where, for explainability; it is not
// meant to be re-parsed.
type MatchResult struct {
	IsMatch         bool
	Score           float64
	MatchedKeywords []string
}

// Truncate returns s cut to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
