package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Stats holds aggregate database counts.
type Stats struct {
	TotalJobsTracked   int `json:"total_jobs_tracked"`
	JobsNotified       int `json:"jobs_notified"`
	UniqueCompanies    int `json:"unique_companies"`
	TotalRuns          int `json:"total_runs"`
	TotalApplications  int `json:"total_applications"`
	ActiveApplications int `json:"active_applications"`
}

// TrackedJob is a job row as stored, used by the weekly summary views.
type TrackedJob struct {
	Company         string    `json:"company"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	URL             string    `json:"url"`
	Department      string    `json:"department,omitempty"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchedKeywords []string  `json:"matched_keywords,omitempty"`
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
}

// Application is one tracked job application.
type Application struct {
	ID            uuid.UUID  `json:"id"`
	JobKey        string     `json:"job_key"`
	Company       string     `json:"company"`
	Title         string     `json:"title"`
	Location      string     `json:"location,omitempty"`
	URL           string     `json:"url,omitempty"`
	Status        string     `json:"status"`
	AppliedDate   time.Time  `json:"applied_date"`
	UpdatedDate   time.Time  `json:"updated_date"`
	ResumeVersion string     `json:"resume_version,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	InterviewDate string     `json:"interview_date,omitempty"`
	ResponseDate  *time.Time `json:"response_date,omitempty"`
	SalaryRange   string     `json:"salary_range,omitempty"`
	ContactPerson string     `json:"contact_person,omitempty"`
}

// ApplicationStatuses lists valid statuses in pipeline order.
var ApplicationStatuses = []string{
	"applied",
	"screening",
	"interview",
	"final_round",
	"offer",
	"accepted",
	"rejected",
	"withdrawn",
	"closed",
	"no_response",
}

// terminalStatuses are statuses that take an application out of the
// active pipeline.
var terminalStatuses = map[string]bool{
	"rejected":  true,
	"withdrawn": true,
	"closed":    true,
}

// ValidStatus reports whether s is a recognized application status.
func ValidStatus(s string) bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsActive reports whether the application is still in play.
func (a *Application) IsActive() bool {
	return !terminalStatuses[a.Status]
}

// HasResponse reports whether the employer has reacted at all.
func (a *Application) HasResponse() bool {
	return a.Status != "applied" && a.Status != "no_response"
}

// DaysToResponse returns the days between applying and the first
// recorded response, or -1 when no response date is set.
func (a *Application) DaysToResponse() float64 {
	if a.ResponseDate == nil {
		return -1
	}
	return a.ResponseDate.Sub(a.AppliedDate).Hours() / 24
}

func keywordsJSON(keywords []string) []byte {
	if keywords == nil {
		keywords = []string{}
	}
	data, _ := json.Marshal(keywords)
	return data
}
