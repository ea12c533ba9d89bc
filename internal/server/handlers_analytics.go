package server

import (
	"net/http"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/analytics"
)

// reports maps the /analytics/{report} names to their part of the full report.
var reports = map[string]func(analytics.Report) any{
	"funnel":           func(r analytics.Report) any { return r.ConversionFunnel },
	"stage-conversion": func(r analytics.Report) any { return r.StageConversionRates },
	"industry":         func(r analytics.Report) any { return r.ByIndustry },
	"company-size":     func(r analytics.Report) any { return r.ByCompanySize },
	"day-of-week":      func(r analytics.Report) any { return r.ByDayOfWeek },
	"location":         func(r analytics.Report) any { return r.ByLocation },
	"ats-correlation":  func(r analytics.Report) any { return r.ATSCorrelation },
	"heatmap":          func(r analytics.Report) any { return r.DailyHeatmap },
	"weekly":           func(r analytics.Report) any { return r.WeeklySummary },
	"monthly":          func(r analytics.Report) any { return r.MonthlySummary },
	"metadata":         func(r analytics.Report) any { return r.HeatmapMetadata },
	"time-to-hire":     func(r analytics.Report) any { return r.TimeToHire },
	"time-by-company":  func(r analytics.Report) any { return r.TimeByCompany },
}

func (s *Server) buildReport(r *http.Request) (analytics.Report, error) {
	userID, err := currentUser(r)
	if err != nil {
		return analytics.Report{}, err
	}
	stats, err := s.store.ListApplicationStats(r.Context(), userID)
	if err != nil {
		return analytics.Report{}, err
	}
	history, err := s.store.ListUserStatusHistory(r.Context(), userID)
	if err != nil {
		return analytics.Report{}, err
	}
	return analytics.Complete(stats, history, s.now()), nil
}

// handleAnalytics returns every dashboard report.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAnalyticsReport returns a single named report.
func (s *Server) handleAnalyticsReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("report")
	pick, ok := reports[name]
	if !ok {
		s.fail(w, r, &ErrNotFound{Resource: "report", ID: name})
		return
	}

	report, err := s.buildReport(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"report": name,
		"data":   pick(report),
	})
}
