package server

import (
	"net/http"
	"strings"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
)

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

// handleUpdateResume stores the resume text used for ATS scoring.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateResumeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	text := strings.TrimSpace(req.ResumeText)
	if text == "" {
		s.fail(w, r, &ErrValidation{Field: "resume_text", Message: "resume text is empty"})
		return
	}

	if err := s.store.UpdateResumeText(r.Context(), userID, text); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message":    "Resume updated",
		"has_resume": true,
	})
}

// ---------------------------------------------------------------------
// Digest Preference Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetDigest(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pref, err := s.store.GetDigestPreference(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if pref == nil {
		s.fail(w, r, &ErrNotFound{Resource: "digest preference"})
		return
	}
	s.jsonResponse(w, http.StatusOK, pref)
}

// handleUpdateDigest creates or replaces the caller's digest schedule.
// Schedules are active unless is_active is false.
func (s *Server) handleUpdateDigest(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.DigestPreferenceRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	pref, err := s.store.UpsertDigestPreference(r.Context(), db.DigestPreference{
		UserID:        userID,
		Frequency:     req.Frequency,
		ScheduledTime: req.ScheduledTime[:5],
		Active:        active,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pref)
}
