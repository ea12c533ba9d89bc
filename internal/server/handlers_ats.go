package server

import (
	"net/http"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/scoring"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"github.com/google/uuid"
)

// ApplicationScoreResponse is the result of scoring one stored application.
type ApplicationScoreResponse struct {
	ApplicationID uuid.UUID   `json:"application_id"`
	ATSScore      string      `json:"ats_score"`
	Result        *ats.Result `json:"result"`
}

// BatchScoreResponse summarizes a scoring run over all applications.
type BatchScoreResponse struct {
	Total   int               `json:"total"`
	Scored  int               `json:"scored"`
	Failed  int               `json:"failed"`
	Results []scoring.Outcome `json:"results"`
}

// handleScoreText scores raw resume and job description text without
// storing anything.
func (s *Server) handleScoreText(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreTextRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	result := s.scoring.ScoreText(r.Context(), req.Resume, req.JobDescription, req.JobTitle)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleScoreApplication scores one application against the stored resume.
func (s *Server) handleScoreApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.scoring.ScoreApplication(r.Context(), userID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ApplicationScoreResponse{
		ApplicationID: id,
		ATSScore:      scoring.FormatScore(result.FinalScore),
		Result:        result,
	})
}

// handleScoreAll scores every application of the caller.
func (s *Server) handleScoreAll(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	outcomes, err := s.scoring.ScoreAll(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := BatchScoreResponse{Total: len(outcomes), Results: outcomes}
	if resp.Results == nil {
		resp.Results = []scoring.Outcome{}
	}
	for _, o := range outcomes {
		if o.Failed() {
			resp.Failed++
		} else {
			resp.Scored++
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
