package scrape

import "github.com/jonathan/jobscout/internal/types"

func newTestJob(id, sourceURL string) *types.JobRecord {
	return &types.JobRecord{ID: types.NativeID(id), SourceURL: sourceURL}
}

func newTestJobURL(jobURL, sourceURL string) *types.JobRecord {
	return &types.JobRecord{ID: types.URLFallbackID(jobURL), URL: jobURL, SourceURL: sourceURL}
}
