package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunTotals aggregates run_log rows over a window.
type RunTotals struct {
	Runs         int `json:"runs"`
	TotalScraped int `json:"total_scraped"`
	TotalNew     int `json:"total_new"`
	TotalErrors  int `json:"total_errors"`
}

// WeeklySummary is everything that goes into the weekly digest.
type WeeklySummary struct {
	WeekStart     time.Time     `json:"week_start"`
	WeekEnd       time.Time     `json:"week_end"`
	NewJobs       []TrackedJob  `json:"new_jobs"`
	JobsByCompany []StatusCount `json:"jobs_by_company"`
	StaleJobs     []TrackedJob  `json:"stale_jobs"`
	TopJobs       []TrackedJob  `json:"top_jobs"`
	AppActivity   []StatusCount `json:"app_activity"`
	ActiveApps    []Application `json:"active_apps"`
	RunStats      RunTotals     `json:"run_stats"`
}

// GetWeeklySummary collects activity over the past weeksBack weeks:
// new jobs, per-company counts, jobs that disappeared, top active jobs,
// application activity, and run totals.
func (s *Store) GetWeeklySummary(ctx context.Context, weeksBack int) (*WeeklySummary, error) {
	if weeksBack < 1 {
		weeksBack = 1
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7*weeksBack)
	summary := &WeeklySummary{WeekStart: start, WeekEnd: end}

	var err error
	summary.NewJobs, err = s.trackedJobs(ctx,
		`SELECT company, title, location, url, department, relevance_score,
		        matched_keywords, first_seen, last_seen
		 FROM jobs WHERE first_seen >= $1 AND first_seen <= $2
		 ORDER BY relevance_score DESC`,
		start, end)
	if err != nil {
		return nil, err
	}

	if err := s.countInto(ctx, &summary.JobsByCompany,
		`SELECT company, COUNT(*) FROM jobs
		 WHERE first_seen >= $1 AND first_seen <= $2
		 GROUP BY company ORDER BY COUNT(*) DESC`,
		start, end); err != nil {
		return nil, err
	}

	// Seen before this window but not during it: likely filled or pulled.
	summary.StaleJobs, err = s.trackedJobs(ctx,
		`SELECT company, title, location, url, department, relevance_score,
		        matched_keywords, first_seen, last_seen
		 FROM jobs WHERE last_seen < $1 AND first_seen < $1
		 ORDER BY last_seen DESC LIMIT 20`,
		start)
	if err != nil {
		return nil, err
	}

	summary.TopJobs, err = s.trackedJobs(ctx,
		`SELECT company, title, location, url, department, relevance_score,
		        matched_keywords, first_seen, last_seen
		 FROM jobs WHERE last_seen >= $1
		 ORDER BY relevance_score DESC LIMIT 15`,
		start)
	if err != nil {
		return nil, err
	}

	if err := s.countInto(ctx, &summary.AppActivity,
		`SELECT status, COUNT(*) FROM applications
		 WHERE updated_date >= $1 GROUP BY status`,
		start); err != nil {
		return nil, err
	}

	summary.ActiveApps, err = s.activeApplications(ctx)
	if err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_jobs_found), 0),
		        COALESCE(SUM(new_matches), 0), COALESCE(SUM(errors), 0)
		 FROM run_log WHERE run_time >= $1 AND run_time <= $2`,
		start, end,
	).Scan(&summary.RunStats.Runs, &summary.RunStats.TotalScraped,
		&summary.RunStats.TotalNew, &summary.RunStats.TotalErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to total runs: %w", err)
	}

	return summary, nil
}

// LogWeeklySummary records that a digest went out.
func (s *Store) LogWeeklySummary(ctx context.Context, weekStart, weekEnd time.Time, newJobs, apps int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO weekly_summary_log (sent_date, week_start, week_end, total_new_jobs, total_applications)
		 VALUES (NOW(), $1, $2, $3, $4)`,
		weekStart, weekEnd, newJobs, apps,
	)
	if err != nil {
		return fmt.Errorf("failed to log weekly summary: %w", err)
	}
	return nil
}

// ShouldSendWeeklySummary reports whether at least 6 days have passed
// since the last digest (or none was ever sent).
func (s *Store) ShouldSendWeeklySummary(ctx context.Context) (bool, error) {
	var last time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT sent_date FROM weekly_summary_log ORDER BY sent_date DESC LIMIT 1`,
	).Scan(&last)
	if err != nil {
		if err == pgx.ErrNoRows {
			return true, nil
		}
		return false, fmt.Errorf("failed to check weekly summary log: %w", err)
	}
	return time.Since(last) >= 6*24*time.Hour, nil
}

func (s *Store) trackedJobs(ctx context.Context, query string, args ...any) ([]TrackedJob, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []TrackedJob
	for rows.Next() {
		var j TrackedJob
		var keywordsRaw []byte
		if err := rows.Scan(&j.Company, &j.Title, &j.Location, &j.URL, &j.Department,
			&j.RelevanceScore, &keywordsRaw, &j.FirstSeen, &j.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if len(keywordsRaw) > 0 {
			_ = json.Unmarshal(keywordsRaw, &j.MatchedKeywords)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (s *Store) activeApplications(ctx context.Context) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_key, company, title, location, url, status,
		        applied_date, updated_date, resume_version, notes,
		        interview_date, response_date, salary_range, contact_person
		 FROM applications
		 WHERE status NOT IN ('rejected', 'withdrawn', 'closed')
		 ORDER BY applied_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobKey, &a.Company, &a.Title, &a.Location,
			&a.URL, &a.Status, &a.AppliedDate, &a.UpdatedDate, &a.ResumeVersion,
			&a.Notes, &a.InterviewDate, &a.ResponseDate, &a.SalaryRange,
			&a.ContactPerson); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, nil
}
