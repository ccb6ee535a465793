package match

import (
	"regexp"
	"strings"
)

var usStateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	"DC", "PR", "GU", "VI",
}

var usLocationKeywords = []string{
	"united states", "usa", "u.s.a", "u.s.",
}

// Matches a ", ST" suffix for any US state or territory code.
var usStatePattern = regexp.MustCompile(`(?i),\s*(` + strings.Join(usStateCodes, "|") + `)\b`)

// Phrases that imply US availability without naming a city.
var usMultiLocationKeywords = []string{
	"multiple locations", "various locations", "multiple us locations",
	"various us offices", "nationwide", "multiple offices",
	"locations across the us", "us locations", "us offices",
	"open to all locations",
}

// A multi-location phrase co-occurring with any of these is not treated as US.
var nonUSCountryKeywords = []string{
	"india", "uk", "united kingdom", "germany", "canada", "australia",
	"japan", "china", "singapore", "brazil", "france", "ireland",
	"netherlands", "israel", "south korea", "taiwan", "mexico",
	"europe", "asia", "emea", "apac", "latam",
}

var usStatesFull = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana",
	"maine", "maryland", "massachusetts", "michigan", "minnesota",
	"mississippi", "missouri", "montana", "nebraska", "nevada",
	"new hampshire", "new jersey", "new mexico", "new york",
	"north carolina", "north dakota", "ohio", "oklahoma", "oregon",
	"pennsylvania", "rhode island", "south carolina", "south dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington",
	"west virginia", "wisconsin", "wyoming", "district of columbia",
}

var locationSeparators = regexp.MustCompile(`[|/;]`)

// IsUSLocation reports whether a free-text location string refers to a US
// location. The heuristic recognizes explicit country tokens, "City, ST"
// suffixes (including multi-segment strings split on |, / or ;), full state
// names and "multiple locations" phrases with no non-US country nearby. A
// bare city name with no state suffix is not recognized.
func IsUSLocation(location string) bool {
	locLower := strings.ToLower(strings.TrimSpace(location))

	for _, kw := range usLocationKeywords {
		if strings.Contains(locLower, kw) {
			return true
		}
	}

	for _, kw := range usMultiLocationKeywords {
		if !strings.Contains(locLower, kw) {
			continue
		}
		hasNonUS := false
		for _, country := range nonUSCountryKeywords {
			if strings.Contains(locLower, country) {
				hasNonUS = true
				break
			}
		}
		if !hasNonUS {
			return true
		}
	}

	if usStatePattern.MatchString(location) {
		return true
	}

	for _, state := range usStatesFull {
		if strings.Contains(locLower, state) {
			return true
		}
	}

	// "San Jose, CA | Austin, TX" style multi-location strings
	if locationSeparators.MatchString(location) {
		for _, part := range locationSeparators.Split(location, -1) {
			if usStatePattern.MatchString(strings.TrimSpace(part)) {
				return true
			}
		}
	}

	return false
}
