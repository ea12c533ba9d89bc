package server

import (
	"context"
	"net/http"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/assistant"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/server/middleware"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"github.com/google/uuid"
)

// chatContextApplications bounds how many applications are summarized for chat.
const chatContextApplications = 100

// jobContext holds the job fields an AI request works from.
type jobContext struct {
	description string
	company     string
	title       string
}

// resolveJob fills empty job fields from the referenced application.
func (s *Server) resolveJob(ctx context.Context, userID uuid.UUID, appID *uuid.UUID, job jobContext) (jobContext, error) {
	if appID == nil {
		return job, nil
	}
	app, err := s.store.GetApplication(ctx, userID, *appID)
	if err != nil {
		return job, err
	}
	if app == nil {
		return job, &ErrNotFound{Resource: "application", ID: appID.String()}
	}
	if job.description == "" {
		job.description = app.JobDescription
	}
	if job.company == "" {
		job.company = app.CompanyName
	}
	if job.title == "" {
		job.title = app.JobTitle
	}
	return job, nil
}

func (s *Server) requireAssistant() error {
	if s.assistant == nil {
		return &ErrUnavailable{Feature: "AI assistant"}
	}
	return nil
}

// handleInterviewQuestions generates interview questions for a job.
func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAssistant(); err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.InterviewQuestionsRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.resolveJob(r.Context(), userID, req.ApplicationID, jobContext{
		description: req.JobDescription,
		company:     req.CompanyName,
		title:       req.JobTitle,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resume := req.Resume
	if resume == "" {
		user, err := s.store.GetUser(r.Context(), userID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if user != nil {
			resume = user.ResumeText
		}
	}

	questions, err := s.assistant.InterviewQuestions(r.Context(), assistant.QuestionsRequest{
		Resume:         resume,
		JobDescription: job.description,
		CompanyName:    job.company,
		JobTitle:       job.title,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"questions": questions})
}

// handleProjectIdeas suggests portfolio projects for a job.
func (s *Server) handleProjectIdeas(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAssistant(); err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.ProjectIdeasRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.resolveJob(r.Context(), userID, req.ApplicationID, jobContext{
		description: req.JobDescription,
		company:     req.CompanyName,
		title:       req.JobTitle,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	projects, err := s.assistant.ProjectIdeas(r.Context(), assistant.ProjectsRequest{
		JobDescription: job.description,
		CompanyName:    job.company,
		JobTitle:       job.title,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleCleanResume repairs PDF-extracted resume text.
func (s *Server) handleCleanResume(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAssistant(); err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.CleanResumeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	text, err := s.assistant.CleanResumeText(r.Context(), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"text": text})
}

// handleChat answers an assistant message. Signed-in users get answers
// grounded in their applications and resume.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAssistant(); err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.ChatRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	chat := assistant.ChatRequest{
		Message:      req.Message,
		History:      req.History,
		MessageCount: req.MessageCount,
	}

	if userID, err := middleware.GetUserID(r); err == nil {
		user, err := s.store.GetUser(r.Context(), userID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if user != nil {
			chat.UserName = user.Name
			chat.Resume = user.ResumeText
		}
		apps, err := s.store.ListApplications(r.Context(), userID, db.ApplicationFilters{Limit: chatContextApplications})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		chat.Applications = apps
	}

	resp, err := s.assistant.Chat(r.Context(), chat)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
