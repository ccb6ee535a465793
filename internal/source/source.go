// Package source loads employer lists from CSV files. Column names are
// sniffed so hand-maintained spreadsheets keep working after edits, and
// the file name supplies the category used for notification grouping.
package source

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/jobscout/internal/types"
)

var nameHints = []string{"company", "name", "organization"}
var urlHints = []string{"career", "link", "url", "portal", "page"}

// LoadFile reads one CSV of companies. The category is the first
// underscore-separated word of the file name, e.g.
// "Semiconductor_Companies_Careers.csv" yields "Semiconductor".
func LoadFile(path string) ([]types.CareerSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	category := categoryFromFilename(path)
	nameCol, urlCol := sniffColumns(rows[0])

	var sources []types.CareerSource
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		url := ""
		if urlCol >= 0 && urlCol < len(row) {
			url = strings.TrimSpace(row[urlCol])
		}
		if url != "" && !strings.HasPrefix(url, "http") {
			url = ""
		}
		if url == "" {
			log.Printf("[source] no career URL for: %s", name)
			continue
		}

		sources = append(sources, types.CareerSource{
			Name:      name,
			CareerURL: url,
			Category:  category,
		})
	}

	log.Printf("[source] loaded %d companies from %s (category: %s)", len(sources), path, category)
	return sources, nil
}

// LoadFiles merges several company files, deduplicating by lower-cased
// company name; the first file a company appears in wins.
func LoadFiles(paths []string) ([]types.CareerSource, error) {
	var all []types.CareerSource
	seen := make(map[string]bool)
	for _, path := range paths {
		sources, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, s := range sources {
			key := strings.ToLower(s.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, s)
		}
	}
	log.Printf("[source] %d unique companies from %d files", len(all), len(paths))
	return all, nil
}

func categoryFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	category := strings.TrimSpace(strings.SplitN(stem, "_", 2)[0])
	if category == "" {
		return "Other"
	}
	return category
}

// sniffColumns finds the name and URL columns by header keywords. The
// last matching header wins so a "Company Careers Page" column beats an
// earlier "Company Name" column for the URL slot. Falls back to columns
// 0 and 1 when nothing matches.
func sniffColumns(headers []string) (nameCol, urlCol int) {
	nameCol, urlCol = -1, -1
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, hint := range nameHints {
			if strings.Contains(lower, hint) {
				nameCol = i
			}
		}
		for _, hint := range urlHints {
			if strings.Contains(lower, hint) {
				urlCol = i
			}
		}
	}
	if nameCol < 0 {
		nameCol = 0
	}
	if urlCol < 0 && len(headers) > 1 {
		urlCol = 1
	}
	return nameCol, urlCol
}
