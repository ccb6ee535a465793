// html.go provides goquery-based HTML text extraction helpers used by the
// description fetchers and the generic scraper.
package fetch

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseHTML wraps goquery document construction.
func ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// StripTags converts an HTML fragment to collapsed plain text. Platform
// APIs (Greenhouse content, Workday jobDescription, Amazon descriptions)
// return description fields as HTML.
func StripTags(html string) string {
	doc, err := ParseHTML(html)
	if err != nil {
		return CleanText(html)
	}
	return CleanText(doc.Text())
}

// CleanText collapses whitespace runs and trims the result.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// FirstMatchingText returns the cleaned text of the first selector that
// matches an element with more than minLen characters of content. Used by
// the description fetchers to walk their heuristic container lists.
func FirstMatchingText(doc *goquery.Document, selectors []string, minLen int) string {
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		text := CleanText(sel.First().Text())
		if len(text) > minLen {
			return text
		}
	}
	return ""
}

// ParagraphText joins the text of all <p> elements; the last-resort
// extraction when no description container matches.
func ParagraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := CleanText(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}
