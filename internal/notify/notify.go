// Package notify delivers new-match alerts and weekly digests through the
// configured channel: console, email, Telegram, or Discord.
package notify

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathan/jobscout/internal/config"
	"github.com/jonathan/jobscout/internal/fetch"
	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// Notifier sends job alerts through one delivery channel.
type Notifier interface {
	// Send delivers an alert for newly matched jobs. A nil or empty job
	// slice is a no-op, not an error.
	Send(ctx context.Context, jobs []*types.JobRecord, stats *store.Stats) error
	// SendWeeklySummary delivers the weekly digest.
	SendWeeklySummary(ctx context.Context, summary *store.WeeklySummary) error
}

// New builds the notifier selected by cfg.Notification.Method. Unknown
// methods fall back to console.
func New(cfg *config.Config, client *fetch.Client) (Notifier, error) {
	n := cfg.Notification
	switch n.Method {
	case "telegram":
		return newTelegramNotifier(n.Telegram)
	case "email":
		return newEmailNotifier(n.Email)
	case "discord":
		if n.Discord.WebhookURL == "" {
			return nil, fmt.Errorf("discord notifier requires webhook_url")
		}
		return newDiscordNotifier(n.Discord, client), nil
	default:
		return NewConsoleNotifier(), nil
	}
}

// platformLabel is the display name and icon for one source platform.
type platformLabel struct {
	icon  string
	label string
}

var platformLabels = map[string]platformLabel{
	"greenhouse":      {"🌿", "Greenhouse"},
	"lever":           {"🔧", "Lever"},
	"workday":         {"📘", "Workday"},
	"smartrecruiters": {"📋", "SmartRecruiters"},
	"ashby":           {"🔷", "Ashby"},
	"amazon":          {"📦", "Amazon"},
	"recruitee":       {"👥", "Recruitee"},
	"taleo":           {"📄", "Taleo"},
	"oraclecloud":     {"☁️", "Oracle HCM Cloud"},
	"jobvite":         {"📣", "Jobvite"},
	"icims":           {"🗂", "iCIMS"},
	"tesla":           {"⚡", "Tesla"},
	"generic":         {"🌐", "Other / Generic"},
}

// platformOrder fixes the display order inside each category.
var platformOrder = []string{
	"greenhouse", "lever", "ashby", "workday", "smartrecruiters",
	"oraclecloud", "amazon", "recruitee", "taleo", "jobvite", "icims",
	"tesla", "generic",
}

var categoryIcons = map[string]string{
	"Semiconductor": "💡",
	"Robotics":      "🤖",
}

// categoryOrder lists categories shown first; the rest sort alphabetically.
var categoryOrder = []string{"Semiconductor", "Robotics"}

// grouping is the three-level category -> platform -> company hierarchy
// every channel renders from.
type grouping map[string]map[string]map[string][]*types.JobRecord

func groupJobs(jobs []*types.JobRecord) grouping {
	g := make(grouping)
	for _, job := range jobs {
		category := job.Category
		if category == "" {
			category = "Other"
		}
		platform := job.Platform
		if platform == "" {
			platform = "generic"
		}
		company := job.Company
		if company == "" {
			company = "Unknown"
		}
		if g[category] == nil {
			g[category] = make(map[string]map[string][]*types.JobRecord)
		}
		if g[category][platform] == nil {
			g[category][platform] = make(map[string][]*types.JobRecord)
		}
		g[category][platform][company] = append(g[category][platform][company], job)
	}
	return g
}

// sortedCategories returns configured categories first, others alphabetical.
func sortedCategories(g grouping) []string {
	var ordered, others []string
	listed := make(map[string]bool)
	for _, c := range categoryOrder {
		listed[c] = true
		if _, ok := g[c]; ok {
			ordered = append(ordered, c)
		}
	}
	for c := range g {
		if !listed[c] {
			others = append(others, c)
		}
	}
	sort.Strings(others)
	return append(ordered, others...)
}

func sortedCompanies(companies map[string][]*types.JobRecord) []string {
	names := make([]string, 0, len(companies))
	for name := range companies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func countJobs(platforms map[string]map[string][]*types.JobRecord) int {
	total := 0
	for _, companies := range platforms {
		for _, jobs := range companies {
			total += len(jobs)
		}
	}
	return total
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// displayID returns the short native identifier for tables, or a dash for
// URL-fallback records.
func displayID(job *types.JobRecord) string {
	if native, ok := job.ID.Native(); ok {
		return native
	}
	return "—"
}
