package server

import (
	"net/http"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// handleListApplications lists the caller's applications, newest first.
// Query: status, limit (default 50, max 200), offset.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !db.IsValidStatus(status) {
		s.fail(w, r, &ErrValidation{Field: "status", Message: "unknown status"})
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	apps, err := s.store.ListApplications(r.Context(), userID, db.ApplicationFilters{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, types.ApplicationListResponse{
		Applications: apps,
		Count:        len(apps),
		Limit:        limit,
		Offset:       offset,
	})
}

// handleCreateApplication records a new application.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.ApplicationRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	app, err := s.store.CreateApplication(r.Context(), userID, req.Input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// ownedApplication loads the application named by the {id} path parameter.
func (s *Server) ownedApplication(r *http.Request) (uuid.UUID, *db.Application, error) {
	userID, err := currentUser(r)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		return uuid.Nil, nil, err
	}
	app, err := s.store.GetApplication(r.Context(), userID, id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if app == nil {
		return uuid.Nil, nil, &ErrNotFound{Resource: "application", ID: id.String()}
	}
	return userID, app, nil
}

// handleGetApplication returns one application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	_, app, err := s.ownedApplication(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateApplication rewrites an application. A changed status is
// applied through the status history.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, current, err := s.ownedApplication(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.ApplicationRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	app, err := s.store.UpdateApplication(r.Context(), userID, current.ID, req.Input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if app == nil {
		s.fail(w, r, &ErrNotFound{Resource: "application", ID: current.ID.String()})
		return
	}

	if req.Status != "" && req.Status != app.Status {
		app, err = s.store.UpdateApplicationStatus(r.Context(), userID, current.ID, req.Status)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if app == nil {
			s.fail(w, r, &ErrNotFound{Resource: "application", ID: current.ID.String()})
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// handleDeleteApplication removes an application and its history.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.store.DeleteApplication(r.Context(), userID, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateStatus moves an application to a new status.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	var req types.StatusUpdateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	app, err := s.store.UpdateApplicationStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if app == nil {
		s.fail(w, r, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleStatusHistory lists the status changes of one application, oldest first.
func (s *Server) handleStatusHistory(w http.ResponseWriter, r *http.Request) {
	userID, app, err := s.ownedApplication(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	history, err := s.store.ListStatusHistory(r.Context(), userID, app.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if history == nil {
		history = []db.StatusChange{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"application_id": app.ID,
		"history":        history,
	})
}
