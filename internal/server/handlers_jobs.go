package server

import (
	"net/http"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
)

// handleValidateEmail checks an address format and its domain's MX records.
// An undeliverable address is a normal result, not a request error.
func (s *Server) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req types.ValidateEmailRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.addresses.ValidateAddress(r.Context(), req.Email))
}

// handleImportJob fetches a job posting and extracts the application fields.
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.fail(w, r, &ErrUnavailable{Feature: "job import"})
		return
	}

	var req types.ImportJobRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	posting, err := s.importer.Import(r.Context(), req.URL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
