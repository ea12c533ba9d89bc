package db

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses in pipeline order.
const (
	StatusApplied              = "Applied"
	StatusHRScreeningDone      = "HR Screening Done"
	StatusShortlisted          = "Shortlisted"
	StatusInterviewScheduled   = "Interview Scheduled"
	StatusInterviewRescheduled = "Interview Rescheduled"
	StatusSelected             = "Selected"
	StatusOfferReleased        = "Offer Released"
	StatusRejected             = "Rejected"
	StatusGhosted              = "Ghosted"
)

// Statuses lists every valid application status.
var Statuses = []string{
	StatusApplied,
	StatusHRScreeningDone,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusInterviewRescheduled,
	StatusSelected,
	StatusOfferReleased,
	StatusRejected,
	StatusGhosted,
}

// IsValidStatus reports whether s is one of Statuses.
func IsValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ATSScoreError is stored in place of a score when batch scoring failed.
const ATSScoreError = "Error"

// Application is a tracked job application joined with its company.
type Application struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CompanyID      uuid.UUID `json:"company_id"`
	CompanyName    string    `json:"company_name"`
	Industry       *string   `json:"industry,omitempty"`
	CompanySize    *string   `json:"company_size,omitempty"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description,omitempty"`
	JobURL         string    `json:"job_url,omitempty"`
	Location       string    `json:"location,omitempty"`
	Status         string    `json:"current_status"`
	ATSScore       *string   `json:"ats_score,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	AppliedAt      time.Time `json:"applied_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ApplicationInput carries the writable fields of an application.
type ApplicationInput struct {
	CompanyName    string
	Industry       string
	CompanySize    string
	JobTitle       string
	JobDescription string
	JobURL         string
	Location       string
	Status         string
	Notes          string
	AppliedAt      *time.Time
}

// ApplicationFilters narrows ListApplications.
type ApplicationFilters struct {
	Status string
	Limit  int
	Offset int
}

// StatusChange is one row of application_status_history.
type StatusChange struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	OldStatus     *string   `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// ApplicationStat is the projection analytics works from.
type ApplicationStat struct {
	ID          uuid.UUID
	CompanyName string
	JobTitle    string
	Status      string
	ATSScore    *string
	AppliedAt   time.Time
	Industry    string
	CompanySize string
	Location    string
}

// DigestPreference controls the scheduled summary email for one user.
type DigestPreference struct {
	UserID        uuid.UUID  `json:"user_id"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	Frequency     string     `json:"frequency"`
	ScheduledTime string     `json:"scheduled_time"` // HH:MM
	Active        bool       `json:"is_active"`
	LastSentAt    *time.Time `json:"last_sent_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Digest frequencies.
const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyBiWeekly  = "bi-weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)
