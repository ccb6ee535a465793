package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

func sampleJobs() []*types.JobRecord {
	return []*types.JobRecord{
		{
			Title: "Process Engineer", ID: types.NativeID("4012"),
			Location: "Phoenix, AZ", URL: "https://boards.greenhouse.io/chipco/jobs/4012",
			Company: "ChipCo", Platform: "greenhouse", Category: "Semiconductor",
			RelevanceScore: 15.0, MatchedKeywords: []string{"process engineer"},
		},
		{
			Title: "Robotics Software Engineer", ID: types.URLFallbackID("https://botworks.example/jobs/1"),
			Location: "Boston, MA", URL: "https://botworks.example/jobs/1",
			Company: "BotWorks", Platform: "generic", Category: "Robotics",
			RelevanceScore: 12.0, VisaUnverified: true,
		},
		{
			Title: "Yield Analyst", ID: types.NativeID("88"),
			Location: "Austin, TX", URL: "https://jobs.lever.co/chipco/88",
			Company: "ChipCo", Platform: "lever", Category: "Semiconductor",
			RelevanceScore: 10.0,
		},
	}
}

func TestGroupJobsHierarchy(t *testing.T) {
	groups := groupJobs(sampleJobs())

	require.Contains(t, groups, "Semiconductor")
	require.Contains(t, groups, "Robotics")
	assert.Len(t, groups["Semiconductor"]["greenhouse"]["ChipCo"], 1)
	assert.Len(t, groups["Semiconductor"]["lever"]["ChipCo"], 1)
	assert.Len(t, groups["Robotics"]["generic"]["BotWorks"], 1)

	// Missing fields fall into the default buckets.
	bare := groupJobs([]*types.JobRecord{{Title: "X"}})
	assert.Len(t, bare["Other"]["generic"]["Unknown"], 1)
}

func TestSortedCategoriesListedFirst(t *testing.T) {
	g := grouping{
		"Aerospace":     nil,
		"Robotics":      nil,
		"Semiconductor": nil,
		"Automotive":    nil,
	}
	assert.Equal(t, []string{"Semiconductor", "Robotics", "Aerospace", "Automotive"}, sortedCategories(g))
}

func TestConsoleNotifierOutput(t *testing.T) {
	var buf bytes.Buffer
	n := &ConsoleNotifier{out: &buf}

	stats := &store.Stats{TotalJobsTracked: 42, UniqueCompanies: 7, TotalRuns: 3}
	require.NoError(t, n.Send(context.Background(), sampleJobs(), stats))

	out := buf.String()
	assert.Contains(t, out, "Found 3 NEW matching job(s)")
	assert.Contains(t, out, "SEMICONDUCTOR (2 jobs)")
	assert.Contains(t, out, "ROBOTICS (1 job)")
	assert.Contains(t, out, "🌿 Greenhouse (1 job)")
	assert.Contains(t, out, "Process Engineer")
	assert.Contains(t, out, "4012")
	// URL-fallback records show a dash, not the URL, in the ID column.
	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, "42 total tracked | 7 companies | Run #3")

	// Semiconductor section renders before Robotics.
	semi := bytes.Index(buf.Bytes(), []byte("SEMICONDUCTOR"))
	robo := bytes.Index(buf.Bytes(), []byte("ROBOTICS"))
	assert.Less(t, semi, robo)
}

func TestConsoleNotifierEmptyIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	n := &ConsoleNotifier{out: &buf}
	require.NoError(t, n.Send(context.Background(), nil, nil))
	assert.Zero(t, buf.Len())
}

func TestConsoleWeeklySummary(t *testing.T) {
	var buf bytes.Buffer
	n := &ConsoleNotifier{out: &buf}

	s := &store.WeeklySummary{
		WeekStart: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		NewJobs:   []store.TrackedJob{{Company: "ChipCo", Title: "Process Engineer"}},
		JobsByCompany: []store.StatusCount{
			{Name: "ChipCo", Count: 1},
		},
		TopJobs: []store.TrackedJob{
			{Company: "ChipCo", Title: "Process Engineer", Location: "Phoenix, AZ", RelevanceScore: 15},
		},
		ActiveApps: []store.Application{
			{Company: "BotWorks", Title: "Robotics SW Engineer", Status: "interview"},
		},
		RunStats: store.RunTotals{Runs: 5, TotalScraped: 240, TotalNew: 9, TotalErrors: 1},
	}
	require.NoError(t, n.SendWeeklySummary(context.Background(), s))

	out := buf.String()
	assert.Contains(t, out, "WEEKLY SUMMARY — August 24, 2026 to August 31, 2026")
	assert.Contains(t, out, "Runs this week: 5")
	assert.Contains(t, out, "[15] Process Engineer")
	assert.Contains(t, out, "🎯 Robotics SW Engineer @ BotWorks [interview]")
}

func TestConsoleWeeklySummaryNoApps(t *testing.T) {
	var buf bytes.Buffer
	n := &ConsoleNotifier{out: &buf}
	require.NoError(t, n.SendWeeklySummary(context.Background(), &store.WeeklySummary{}))
	assert.Contains(t, buf.String(), "No active applications tracked yet")
}

func TestDiscordNotifier(t *testing.T) {
	var received discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := fetch.NewClient(&fetch.Options{Timeout: 5 * time.Second})
	n := newDiscordNotifier(config.Discord{WebhookURL: server.URL + "/webhook"}, client)

	require.NoError(t, n.Send(context.Background(), sampleJobs(), nil))
	assert.Contains(t, received.Content, "3 new matches")
	require.Len(t, received.Embeds, 3)
	assert.Equal(t, "Process Engineer", received.Embeds[0].Title)
	assert.Equal(t, 0xf39c12, received.Embeds[0].Color)
	assert.Equal(t, "ChipCo", received.Embeds[0].Fields[0].Value)
}

func TestDiscordEmbedCap(t *testing.T) {
	var received discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var jobs []*types.JobRecord
	for i := 0; i < 14; i++ {
		jobs = append(jobs, &types.JobRecord{Title: "Role", Company: "Co"})
	}
	client := fetch.NewClient(&fetch.Options{Timeout: 5 * time.Second})
	n := newDiscordNotifier(config.Discord{WebhookURL: server.URL}, client)

	require.NoError(t, n.Send(context.Background(), jobs, nil))
	assert.Len(t, received.Embeds, 10)
	assert.Contains(t, received.Content, "14 new matches")
}

func TestTelegramEscape(t *testing.T) {
	assert.Equal(t, `Sr\. Engineer \(Remote\)`, tgEscape("Sr. Engineer (Remote)"))
	assert.Equal(t, `C\+\+ \| Rust`, tgEscape("C++ | Rust"))
	assert.Equal(t, "plain title", tgEscape("plain title"))
}

func TestNewSelectsChannel(t *testing.T) {
	client := fetch.NewClient(nil)

	cfg := config.Default()
	n, err := New(cfg, client)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleNotifier{}, n)

	cfg.Notification.Method = "discord"
	cfg.Notification.Discord.WebhookURL = "https://discord.test/hook"
	n, err = New(cfg, client)
	require.NoError(t, err)
	assert.IsType(t, &discordNotifier{}, n)

	cfg.Notification.Method = "discord"
	cfg.Notification.Discord.WebhookURL = ""
	_, err = New(cfg, client)
	assert.Error(t, err)

	cfg.Notification.Method = "telegram"
	_, err = New(cfg, client)
	assert.Error(t, err) // missing token and chat id

	cfg.Notification.Method = "email"
	_, err = New(cfg, client)
	assert.Error(t, err) // missing smtp settings
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, "#27ae60", scoreColor(22))
	assert.Equal(t, "#f39c12", scoreColor(12))
	assert.Equal(t, "#95a5a6", scoreColor(5))
	assert.Equal(t, 0x27ae60, scoreColorInt(20))
}
