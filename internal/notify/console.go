package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonathan/jobscout/internal/store"
	"github.com/jonathan/jobscout/internal/types"
)

// ConsoleNotifier prints grouped job tables to a writer, stdout by default.
type ConsoleNotifier struct {
	out io.Writer
}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

const consoleRule = 120

func (c *ConsoleNotifier) Send(_ context.Context, jobs []*types.JobRecord, stats *store.Stats) error {
	if len(jobs) == 0 {
		return nil
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", consoleRule))
	fmt.Fprintf(w, "  🤖 JOB SEARCH AGENT — %s\n", time.Now().Format("January 02, 2006 3:04 PM"))
	fmt.Fprintf(w, "  Found %d NEW matching job(s)\n", len(jobs))
	fmt.Fprintln(w, strings.Repeat("=", consoleRule))

	groups := groupJobs(jobs)
	for _, category := range sortedCategories(groups) {
		platforms := groups[category]
		total := countJobs(platforms)
		icon := categoryIcons[category]
		if icon == "" {
			icon = "🏭"
		}

		fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", consoleRule))
		fmt.Fprintf(w, "  %s %s (%d job%s)\n", icon, strings.ToUpper(category), total, plural(total))
		fmt.Fprintln(w, strings.Repeat("=", consoleRule))

		for _, platform := range platformOrder {
			companies, ok := platforms[platform]
			if !ok {
				continue
			}
			platTotal := 0
			for _, cjobs := range companies {
				platTotal += len(cjobs)
			}
			label, ok := platformLabels[platform]
			if !ok {
				label = platformLabel{"🌐", platform}
			}

			fmt.Fprintf(w, "\n    %s %s (%d job%s)\n", label.icon, label.label, platTotal, plural(platTotal))
			fmt.Fprintf(w, "    %s\n", strings.Repeat("─", 112))

			for _, company := range sortedCompanies(companies) {
				cjobs := companies[company]
				fmt.Fprintf(w, "\n      🏢 %s (%d job%s)\n", company, len(cjobs), plural(len(cjobs)))
				fmt.Fprintf(w, "      %-5s %-40s %-15s %-20s %-6s %-6s %s\n",
					"No.", "Title", "Job ID", "Location", "Score", "Visa", "Link")
				fmt.Fprintf(w, "      %s\n", strings.Repeat("─", 112))

				for i, job := range cjobs {
					visa := "✅"
					if job.VisaUnverified {
						visa = "⚠️"
					}
					link := types.Truncate(job.URL, 45)
					if link == "" {
						link = "—"
					}
					fmt.Fprintf(w, "      %-5d %-40s %-15s %-20s %-6v %-6s %s\n",
						i+1,
						types.Truncate(orNA(job.Title), 38),
						types.Truncate(displayID(job), 13),
						types.Truncate(orNA(job.Location), 18),
						job.RelevanceScore,
						visa,
						link)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", consoleRule))
	fmt.Fprintln(w, "  ⚠️  = Visa/sponsorship status unverified (description unavailable)")
	fmt.Fprintln(w, "  ✅  = Description fetched, visa keywords checked")
	if stats != nil {
		fmt.Fprintf(w, "\n  📈 Stats: %d total tracked | %d companies | Run #%d\n",
			stats.TotalJobsTracked, stats.UniqueCompanies, stats.TotalRuns)
	}
	fmt.Fprintln(w, strings.Repeat("=", consoleRule))
	fmt.Fprintln(w)
	return nil
}

func (c *ConsoleNotifier) SendWeeklySummary(_ context.Context, s *store.WeeklySummary) error {
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "  📅 WEEKLY SUMMARY — %s to %s\n",
		s.WeekStart.Format("January 02, 2006"), s.WeekEnd.Format("January 02, 2006"))
	fmt.Fprintln(w, strings.Repeat("=", 70))

	fmt.Fprintf(w, "\n  🔄 Runs this week: %d\n", s.RunStats.Runs)
	fmt.Fprintf(w, "  📊 Total scraped: %d jobs\n", s.RunStats.TotalScraped)
	fmt.Fprintf(w, "  🆕 New matches: %d\n", s.RunStats.TotalNew)
	fmt.Fprintf(w, "  ⚠️  Errors: %d\n", s.RunStats.TotalErrors)

	if len(s.JobsByCompany) > 0 {
		fmt.Fprintf(w, "\n  📋 New Jobs by Company (%d total):\n", len(s.NewJobs))
		for _, row := range limitCounts(s.JobsByCompany, 15) {
			fmt.Fprintf(w, "     %-35s %d new\n", row.Name, row.Count)
		}
	}

	if len(s.TopJobs) > 0 {
		fmt.Fprintf(w, "\n  ⭐ Top Scoring Active Jobs:\n")
		for _, j := range limitJobs(s.TopJobs, 10) {
			fmt.Fprintf(w, "     [%.0f] %s\n", j.RelevanceScore, j.Title)
			fmt.Fprintf(w, "          🏢 %s  📍 %s\n", j.Company, orNA(j.Location))
		}
	}

	if len(s.StaleJobs) > 0 {
		fmt.Fprintf(w, "\n  ⏰ Possibly Closed (%d jobs not seen this week):\n", len(s.StaleJobs))
		for _, j := range limitJobs(s.StaleJobs, 5) {
			fmt.Fprintf(w, "     %s @ %s (last seen: %s)\n",
				j.Title, j.Company, j.LastSeen.Format("2006-01-02"))
		}
	}

	if len(s.ActiveApps) > 0 {
		fmt.Fprintf(w, "\n  📝 Active Applications (%d):\n", len(s.ActiveApps))
		for _, a := range s.ActiveApps {
			fmt.Fprintf(w, "     %s %s @ %s [%s]\n", statusIcon(a.Status), a.Title, a.Company, a.Status)
		}
	} else {
		fmt.Fprintf(w, "\n  📝 No active applications tracked yet\n")
		fmt.Fprintf(w, "     Tip: use 'jobscout apply --company X --title Y' to track\n")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)
	return nil
}

func statusIcon(status string) string {
	icons := map[string]string{
		"applied":     "📤",
		"screening":   "📞",
		"interview":   "🎯",
		"final_round": "🔥",
		"offer":       "🎉",
		"accepted":    "✅",
	}
	if icon, ok := icons[status]; ok {
		return icon
	}
	return "📋"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func limitCounts(counts []store.StatusCount, n int) []store.StatusCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

func limitJobs(jobs []store.TrackedJob, n int) []store.TrackedJob {
	if len(jobs) > n {
		return jobs[:n]
	}
	return jobs
}
