package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NewApplication holds the fields accepted when tracking an application.
type NewApplication struct {
	Company       string
	Title         string
	URL           string
	Location      string
	ResumeVersion string
	Notes         string
	SalaryRange   string
	ContactPerson string
}

// AddApplication tracks a new application in status "applied". Returns
// uuid.Nil without error when the same company/title/url is already tracked.
func (s *Store) AddApplication(ctx context.Context, app NewApplication) (uuid.UUID, error) {
	jobKey := strings.ToLower(app.Company) + "|" + strings.ToLower(app.Title)

	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO applications
		 (job_key, company, title, location, url, status,
		  applied_date, updated_date, resume_version, notes, salary_range, contact_person)
		 VALUES ($1, $2, $3, $4, $5, 'applied', NOW(), NOW(), $6, $7, $8, $9)
		 ON CONFLICT (company, title, url) DO NOTHING
		 RETURNING id`,
		jobKey, app.Company, app.Title, app.Location, app.URL,
		app.ResumeVersion, app.Notes, app.SalaryRange, app.ContactPerson,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			log.Printf("[store] application already exists: %s @ %s", app.Title, app.Company)
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to add application: %w", err)
	}
	log.Printf("[store] application %s added: %s @ %s", id, app.Title, app.Company)
	return id, nil
}

// ApplicationUpdate holds optional field updates; nil means unchanged.
type ApplicationUpdate struct {
	Status        *string
	Notes         *string
	InterviewDate *string
	ResponseDate  *time.Time
	SalaryRange   *string
	ContactPerson *string
	ResumeVersion *string
}

// UpdateApplication applies the non-nil fields and bumps updated_date.
// Returns false when nothing was updated or the application is unknown.
func (s *Store) UpdateApplication(ctx context.Context, id uuid.UUID, update ApplicationUpdate) (bool, error) {
	sets := []string{}
	args := []any{}
	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Status != nil {
		if !ValidStatus(*update.Status) {
			return false, fmt.Errorf("invalid status %q, must be one of: %s",
				*update.Status, strings.Join(ApplicationStatuses, ", "))
		}
		addSet("status", *update.Status)
	}
	if update.Notes != nil {
		addSet("notes", *update.Notes)
	}
	if update.InterviewDate != nil {
		addSet("interview_date", *update.InterviewDate)
	}
	if update.ResponseDate != nil {
		addSet("response_date", *update.ResponseDate)
	}
	if update.SalaryRange != nil {
		addSet("salary_range", *update.SalaryRange)
	}
	if update.ContactPerson != nil {
		addSet("contact_person", *update.ContactPerson)
	}
	if update.ResumeVersion != nil {
		addSet("resume_version", *update.ResumeVersion)
	}
	if len(sets) == 0 {
		return false, nil
	}
	sets = append(sets, "updated_date = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE applications SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update application: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListApplications returns applications, optionally filtered by exact
// status and/or company substring, newest activity first.
func (s *Store) ListApplications(ctx context.Context, status, company string) ([]Application, error) {
	query := `SELECT id, job_key, company, title, location, url, status,
	                 applied_date, updated_date, resume_version, notes,
	                 interview_date, response_date, salary_range, contact_person
	          FROM applications WHERE 1=1`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if company != "" {
		args = append(args, "%"+company+"%")
		query += fmt.Sprintf(" AND company ILIKE $%d", len(args))
	}
	query += " ORDER BY updated_date DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
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

// StatusCount pairs a status or company with how many applications carry it.
type StatusCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ApplicationSummary is the pipeline view across all applications.
type ApplicationSummary struct {
	ByStatus          []StatusCount `json:"by_status"`
	ByCompany         []StatusCount `json:"by_company"`
	RecentActivity    []Application `json:"recent_activity"`
	TotalApplications int           `json:"total_applications"`
	ResponseRate      string        `json:"response_rate"`
	AvgDaysToResponse string        `json:"avg_days_to_response"`
}

// GetApplicationSummary aggregates the pipeline by status and company,
// with activity from the last 7 days and response statistics.
func (s *Store) GetApplicationSummary(ctx context.Context) (*ApplicationSummary, error) {
	summary := &ApplicationSummary{}

	if err := s.countInto(ctx, &summary.ByStatus,
		`SELECT status, COUNT(*) FROM applications GROUP BY status ORDER BY COUNT(*) DESC`); err != nil {
		return nil, err
	}
	if err := s.countInto(ctx, &summary.ByCompany,
		`SELECT company, COUNT(*) FROM applications GROUP BY company ORDER BY COUNT(*) DESC`); err != nil {
		return nil, err
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	recent, err := s.applicationsSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	summary.RecentActivity = recent

	var total, responded int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE status NOT IN ('applied', 'no_response')`,
	).Scan(&responded); err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	summary.TotalApplications = total
	summary.ResponseRate = formatResponseRate(responded, total)

	var avgDays *float64
	if err := s.pool.QueryRow(ctx,
		`SELECT AVG(EXTRACT(EPOCH FROM response_date - applied_date) / 86400)
		 FROM applications WHERE response_date IS NOT NULL`,
	).Scan(&avgDays); err != nil {
		return nil, fmt.Errorf("failed to average response time: %w", err)
	}
	summary.AvgDaysToResponse = formatAvgDays(avgDays)

	return summary, nil
}

func (s *Store) countInto(ctx context.Context, dest *[]StatusCount, query string, args ...any) error {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to aggregate applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		*dest = append(*dest, c)
	}
	return nil
}

func (s *Store) applicationsSince(ctx context.Context, since time.Time) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_key, company, title, location, url, status,
		        applied_date, updated_date, resume_version, notes,
		        interview_date, response_date, salary_range, contact_person
		 FROM applications WHERE updated_date >= $1
		 ORDER BY updated_date DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent applications: %w", err)
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

// DeleteApplication removes an application by ID.
func (s *Store) DeleteApplication(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func formatResponseRate(responded, total int) string {
	if total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", float64(responded)/float64(total)*100)
}

func formatAvgDays(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *avg)
}
