package types

import (
	"strings"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/google/uuid"
)

// ApplicationRequest is the body for creating or updating an application.
type ApplicationRequest struct {
	CompanyName    string     `json:"company_name" validate:"required,max=200"`
	Industry       string     `json:"industry" validate:"max=100"`
	CompanySize    string     `json:"company_size" validate:"max=50"`
	JobTitle       string     `json:"job_title" validate:"required,max=200"`
	JobDescription string     `json:"job_description" validate:"max=100000"`
	JobURL         string     `json:"job_url" validate:"omitempty,url"`
	Location       string     `json:"location" validate:"max=200"`
	Status         string     `json:"current_status" validate:"omitempty,app_status"`
	Notes          string     `json:"notes" validate:"max=10000"`
	AppliedAt      *time.Time `json:"applied_at"`
}

// Input converts the request to the repository input, trimming names.
func (r *ApplicationRequest) Input() db.ApplicationInput {
	return db.ApplicationInput{
		CompanyName:    strings.TrimSpace(r.CompanyName),
		Industry:       strings.TrimSpace(r.Industry),
		CompanySize:    strings.TrimSpace(r.CompanySize),
		JobTitle:       strings.TrimSpace(r.JobTitle),
		JobDescription: r.JobDescription,
		JobURL:         strings.TrimSpace(r.JobURL),
		Location:       strings.TrimSpace(r.Location),
		Status:         r.Status,
		Notes:          r.Notes,
		AppliedAt:      r.AppliedAt,
	}
}

// StatusUpdateRequest moves an application to a new status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,app_status"`
}

// ApplicationListResponse is a page of applications.
type ApplicationListResponse struct {
	Applications []db.Application `json:"applications"`
	Count        int              `json:"count"`
	Limit        int              `json:"limit"`
	Offset       int              `json:"offset"`
}

// ScoreTextRequest scores raw resume text against a job description. Empty
// texts are allowed and produce an insufficient-input result.
type ScoreTextRequest struct {
	Resume         string `json:"resume" validate:"max=200000"`
	JobDescription string `json:"job_description" validate:"max=200000"`
	JobTitle       string `json:"job_title" validate:"max=200"`
}

// ImportJobRequest imports a job posting from a URL.
type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url,startswith=http"`
}

// InterviewQuestionsRequest asks for tailored interview questions. When
// ApplicationID is set the job fields are read from that application, and a
// missing resume falls back to the stored one.
type InterviewQuestionsRequest struct {
	ApplicationID  *uuid.UUID `json:"application_id"`
	Resume         string     `json:"resume"`
	JobDescription string     `json:"job_description"`
	CompanyName    string     `json:"company_name" validate:"max=200"`
	JobTitle       string     `json:"job_title" validate:"max=200"`
}

// ProjectIdeasRequest asks for portfolio project suggestions.
type ProjectIdeasRequest struct {
	ApplicationID  *uuid.UUID `json:"application_id"`
	JobDescription string     `json:"job_description"`
	CompanyName    string     `json:"company_name" validate:"max=200"`
	JobTitle       string     `json:"job_title" validate:"max=200"`
}

// ChatRequest is one assistant chat turn.
type ChatRequest struct {
	Message      string        `json:"message" validate:"required,max=2000"`
	History      []llm.Message `json:"history" validate:"max=50,dive"`
	MessageCount int           `json:"message_count" validate:"min=0"`
}

// CleanResumeRequest repairs PDF-extracted resume text.
type CleanResumeRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}
