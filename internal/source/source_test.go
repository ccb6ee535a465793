package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Semiconductor_Companies_Careers.csv",
		"Company Name,Career Portal Link\n"+
			"ChipCo,https://boards.greenhouse.io/chipco\n"+
			"WaferWorks,https://waferworks.com/careers\n"+
			"chipco,https://duplicate.example\n"+
			"NoLink,\n"+
			"BadLink,ftp://not-a-career-page\n")

	sources, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "ChipCo", sources[0].Name)
	assert.Equal(t, "https://boards.greenhouse.io/chipco", sources[0].CareerURL)
	assert.Equal(t, "Semiconductor", sources[0].Category)
	assert.Equal(t, "WaferWorks", sources[1].Name)
}

func TestLoadFileSniffsReorderedColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Robotics_List.csv",
		"Notes,Careers URL,Organization\n"+
			"ignore,https://botworks.example/careers,BotWorks\n")

	sources, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "BotWorks", sources[0].Name)
	assert.Equal(t, "https://botworks.example/careers", sources[0].CareerURL)
	assert.Equal(t, "Robotics", sources[0].Category)
}

func TestLoadFileHeaderlessFallback(t *testing.T) {
	dir := t.TempDir()
	// No recognizable headers: first column is the name, second the URL.
	path := writeCSV(t, dir, "misc.csv",
		"A,B\n"+
			"Acme,https://acme.example/jobs\n")

	sources, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Acme", sources[0].Name)
	assert.Equal(t, "misc", sources[0].Category)
}

func TestLoadFilesCrossFileDedup(t *testing.T) {
	dir := t.TempDir()
	first := writeCSV(t, dir, "Semiconductor_A.csv",
		"Company,Career Link\nChipCo,https://chipco.example/careers\n")
	second := writeCSV(t, dir, "Robotics_B.csv",
		"Company,Career Link\nCHIPCO,https://other.example\nBotWorks,https://botworks.example/careers\n")

	sources, err := LoadFiles([]string{first, second})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "ChipCo", sources[0].Name)
	assert.Equal(t, "Semiconductor", sources[0].Category)
	assert.Equal(t, "BotWorks", sources[1].Name)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/companies.csv")
	assert.Error(t, err)
}

func TestCategoryFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/Semiconductor_Companies_Careers_Updated.csv", "Semiconductor"},
		{"Robotics_List.csv", "Robotics"},
		{"companies.csv", "companies"},
		{"_leading.csv", "Other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categoryFromFilename(tt.path), tt.path)
	}
}
