// strategy.go holds the building blocks for adapters whose platforms have
// no reliable paged API (Taleo, Jobvite, iCIMS, Tesla). Those adapters run
// an ordered chain of strategies; the first one yielding at least one
// record wins.
package scrape

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/types"
)

// strategy is one retrieval attempt. An empty result with nil error means
// "nothing here, try the next one".
type strategy struct {
	name string
	run  func(ctx context.Context) []*types.JobRecord
}

// runChain executes strategies in order and returns the first non-empty
// result along with the winning strategy's name.
func runChain(ctx context.Context, strategies []strategy) ([]*types.JobRecord, string) {
	for _, s := range strategies {
		if jobs := s.run(ctx); len(jobs) > 0 {
			return jobs, s.name
		}
		if ctx.Err() != nil {
			return nil, ""
		}
	}
	return nil, ""
}

// jsonLDPosting is the subset of a schema.org JobPosting the adapters use.
type jsonLDPosting struct {
	Type                 string          `json:"@type"`
	Title                string          `json:"title"`
	URL                  string          `json:"url"`
	Description          string          `json:"description"`
	OccupationalCategory string          `json:"occupationalCategory"`
	Identifier           json.RawMessage `json:"identifier"`
	JobLocation          json.RawMessage `json:"jobLocation"`
}

// identifierValue unwraps schema.org identifier shapes: either a bare
// string or a PropertyValue object with a "value" field.
func (p *jsonLDPosting) identifierValue() string {
	if len(p.Identifier) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(p.Identifier, &s); err == nil {
		return s
	}
	var pv struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(p.Identifier, &pv); err == nil && pv.Value != nil {
		return stringify(pv.Value)
	}
	return ""
}

// locationText flattens jobLocation (object or array) to "City, Region".
func (p *jsonLDPosting) locationText() string {
	if len(p.JobLocation) == 0 {
		return ""
	}
	type place struct {
		Address struct {
			AddressLocality string `json:"addressLocality"`
			AddressRegion   string `json:"addressRegion"`
		} `json:"address"`
	}
	var one place
	if err := json.Unmarshal(p.JobLocation, &one); err == nil {
		if s := strings.Trim(one.Address.AddressLocality+", "+one.Address.AddressRegion, ", "); s != "" {
			return s
		}
	}
	var many []place
	if err := json.Unmarshal(p.JobLocation, &many); err == nil && len(many) > 0 {
		return strings.Trim(many[0].Address.AddressLocality+", "+many[0].Address.AddressRegion, ", ")
	}
	return ""
}

// parseJSONLD extracts JobPosting entries from every ld+json script in the
// document. Handles bare postings, arrays, and ItemList wrappers.
func parseJSONLD(doc *goquery.Document) []jsonLDPosting {
	var postings []jsonLDPosting
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var single jsonLDPosting
		if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "JobPosting" {
			postings = append(postings, single)
			return
		}

		var list []jsonLDPosting
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			for _, p := range list {
				if p.Type == "JobPosting" {
					postings = append(postings, p)
				}
			}
			return
		}

		var itemList struct {
			ItemListElement []struct {
				Item json.RawMessage `json:"item"`
			} `json:"itemListElement"`
		}
		if err := json.Unmarshal([]byte(raw), &itemList); err == nil {
			for _, el := range itemList.ItemListElement {
				var p jsonLDPosting
				if err := json.Unmarshal(el.Item, &p); err == nil && p.Type == "JobPosting" {
					postings = append(postings, p)
				}
			}
		}
	})
	return postings
}

// jsonLDDescription returns the plain-text description of the first
// JobPosting in the document, or "".
func jsonLDDescription(doc *goquery.Document) string {
	for _, p := range parseJSONLD(doc) {
		if p.Description != "" {
			return types.Truncate(fetch.StripTags(p.Description), types.MaxDescriptionLength)
		}
	}
	return ""
}

const maxJSONSearchDepth = 5

// jobLikeKeys mark a JSON object as a probable job posting.
var jobLikeKeys = []string{"title", "Title", "name", "requisitionId"}

// containerKeys are checked first when descending into an object; framework
// state blobs nest their payloads under these.
var containerKeys = []string{
	"jobs", "jobPostings", "requisitions", "results", "content", "data",
	"items", "pageProps", "props",
}

// findJobsInJSON recursively searches a decoded JSON structure for the
// first array of job-like objects. Depth-capped so a pathological blob
// cannot hang the scrape.
func findJobsInJSON(data any, depth int) []map[string]any {
	if depth > maxJSONSearchDepth {
		return nil
	}
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		if first, ok := v[0].(map[string]any); ok {
			for _, key := range jobLikeKeys {
				if _, present := first[key]; present {
					return toObjectSlice(v)
				}
			}
		}
		for _, item := range v {
			if result := findJobsInJSON(item, depth+1); result != nil {
				return result
			}
		}
	case map[string]any:
		for _, key := range containerKeys {
			if nested, ok := v[key]; ok {
				if result := findJobsInJSON(nested, depth+1); result != nil {
					return result
				}
			}
		}
		for _, value := range v {
			switch value.(type) {
			case map[string]any, []any:
				if result := findJobsInJSON(value, depth+1); result != nil {
					return result
				}
			}
		}
	}
	return nil
}

func toObjectSlice(items []any) []map[string]any {
	objs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objs = append(objs, obj)
		}
	}
	return objs
}

// jsonField returns the first present key's value as a string.
func jsonField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// jsonLocation flattens a location value that may be a string, an object
// with a name field, or a list.
func jsonLocation(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		switch loc := v.(type) {
		case string:
			return loc
		case map[string]any:
			if name, ok := loc["name"].(string); ok {
				return name
			}
		case []any:
			parts := make([]string, 0, len(loc))
			for _, item := range loc {
				parts = append(parts, stringify(item))
			}
			return strings.Join(parts, ", ")
		}
	}
	return ""
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; IDs are integral.
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// decodeJSON unmarshals a response body that was already sniffed as JSON.
func decodeJSON(body string, out any) error {
	return json.Unmarshal([]byte(body), out)
}

var sitemapLocPattern = regexp.MustCompile(`<loc>\s*([^<]+?)\s*</loc>`)

// fetchSitemapLocs downloads a sitemap and returns its <loc> entries.
// Returns nil unless the body is a urlset document.
func fetchSitemapLocs(ctx context.Context, client *fetch.Client, sitemapURL string) []string {
	result, err := client.Get(ctx, sitemapURL, map[string]string{"Accept": "application/xml, text/xml"})
	if err != nil || !strings.Contains(result.Body, "<urlset") {
		return nil
	}
	var locs []string
	for _, m := range sitemapLocPattern.FindAllStringSubmatch(result.Body, -1) {
		locs = append(locs, strings.TrimSpace(m[1]))
	}
	return locs
}

// slugToTitle converts a URL slug like "engineer-iii" to "Engineer Iii".
// Lossy but better than an empty title for sitemap-discovered jobs.
func slugToTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
