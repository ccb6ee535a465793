// Package store provides PostgreSQL persistence for job history,
// run logs, weekly summaries, and application tracking.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jobscout/internal/types"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a connection pool and ensures the schema exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			job_key TEXT PRIMARY KEY,
			company TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			relevance_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			matched_keywords JSONB NOT NULL DEFAULT '[]',
			platform TEXT NOT NULL DEFAULT '',
			first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			notified BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS run_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			companies_scraped INTEGER NOT NULL DEFAULT 0,
			total_jobs_found INTEGER NOT NULL DEFAULT 0,
			new_matches INTEGER NOT NULL DEFAULT 0,
			errors INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_key TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'applied',
			applied_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resume_version TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			interview_date TEXT NOT NULL DEFAULT '',
			response_date TIMESTAMPTZ,
			salary_range TEXT NOT NULL DEFAULT '',
			contact_person TEXT NOT NULL DEFAULT '',
			UNIQUE (company, title, url)
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_summary_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			sent_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			week_start TIMESTAMPTZ NOT NULL,
			week_end TIMESTAMPTZ NOT NULL,
			total_new_jobs INTEGER NOT NULL DEFAULT 0,
			total_applications INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// FilterNew returns only jobs not seen in a previous run. Seen jobs get
// their last_seen stamp refreshed; unseen jobs are inserted and returned.
func (s *Store) FilterNew(ctx context.Context, jobs []*types.JobRecord) ([]*types.JobRecord, error) {
	now := time.Now().UTC()
	var newJobs []*types.JobRecord

	for _, job := range jobs {
		key := job.Key()

		var existing string
		err := s.pool.QueryRow(ctx,
			`SELECT job_key FROM jobs WHERE job_key = $1`, key,
		).Scan(&existing)
		switch {
		case err == nil:
			if _, err := s.pool.Exec(ctx,
				`UPDATE jobs SET last_seen = $1 WHERE job_key = $2`, now, key,
			); err != nil {
				return nil, fmt.Errorf("failed to refresh job %s: %w", key, err)
			}
		case err == pgx.ErrNoRows:
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO jobs
				 (job_key, company, title, location, url, department,
				  relevance_score, matched_keywords, platform, first_seen, last_seen, notified)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, FALSE)`,
				key, job.Company, job.Title, job.Location, job.URL, job.Department,
				job.RelevanceScore, keywordsJSON(job.MatchedKeywords), job.Platform, now,
			); err != nil {
				return nil, fmt.Errorf("failed to insert job %s: %w", key, err)
			}
			newJobs = append(newJobs, job)
		default:
			return nil, fmt.Errorf("failed to look up job %s: %w", key, err)
		}
	}

	log.Printf("[store] %d new jobs out of %d", len(newJobs), len(jobs))
	return newJobs, nil
}

// MarkNotified flags jobs whose notification went out.
func (s *Store) MarkNotified(ctx context.Context, jobs []*types.JobRecord) error {
	for _, job := range jobs {
		if _, err := s.pool.Exec(ctx,
			`UPDATE jobs SET notified = TRUE WHERE job_key = $1`, job.Key(),
		); err != nil {
			return fmt.Errorf("failed to mark job notified: %w", err)
		}
	}
	return nil
}

// LogRun records one scraping run.
func (s *Store) LogRun(ctx context.Context, companiesScraped, totalFound, newMatches, errors int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO run_log (run_time, companies_scraped, total_jobs_found, new_matches, errors)
		 VALUES (NOW(), $1, $2, $3, $4)`,
		companiesScraped, totalFound, newMatches, errors,
	)
	if err != nil {
		return fmt.Errorf("failed to log run: %w", err)
	}
	return nil
}

// Stats returns aggregate counts across all tables.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM jobs`, &stats.TotalJobsTracked},
		{`SELECT COUNT(*) FROM jobs WHERE notified`, &stats.JobsNotified},
		{`SELECT COUNT(DISTINCT company) FROM jobs`, &stats.UniqueCompanies},
		{`SELECT COUNT(*) FROM run_log`, &stats.TotalRuns},
		{`SELECT COUNT(*) FROM applications`, &stats.TotalApplications},
		{`SELECT COUNT(*) FROM applications WHERE status NOT IN ('rejected', 'withdrawn', 'closed')`,
			&stats.ActiveApplications},
	}
	for _, q := range queries {
		if err := s.pool.QueryRow(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to collect stats: %w", err)
		}
	}
	return &stats, nil
}
