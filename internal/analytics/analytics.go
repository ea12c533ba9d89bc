// Package analytics computes the dashboard reports over a user's applications.
// Every function is pure: callers load rows from the database and pass them in.
package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
)

// Window is how far back the time-series reports look.
const Window = 365 * 24 * time.Hour

const (
	notSpecified = "Not Specified"
	unknownSize  = "Unknown"
)

type statusSet map[string]bool

func newStatusSet(statuses ...string) statusSet {
	s := make(statusSet, len(statuses))
	for _, st := range statuses {
		s[st] = true
	}
	return s
}

var (
	// progressedStatuses count as a response from the employer.
	progressedStatuses = newStatusSet(
		db.StatusHRScreeningDone, db.StatusShortlisted, db.StatusInterviewScheduled,
		db.StatusInterviewRescheduled, db.StatusSelected, db.StatusOfferReleased,
	)
	shortlistedStatuses = newStatusSet(
		db.StatusShortlisted, db.StatusInterviewScheduled, db.StatusInterviewRescheduled,
		db.StatusSelected, db.StatusOfferReleased,
	)
	interviewedStatuses = newStatusSet(
		db.StatusInterviewScheduled, db.StatusInterviewRescheduled, db.StatusSelected, db.StatusOfferReleased,
	)
	selectedStatuses = newStatusSet(db.StatusSelected, db.StatusOfferReleased)
	schedulingStatus = newStatusSet(db.StatusInterviewScheduled, db.StatusInterviewRescheduled)
	closedStatuses   = newStatusSet(db.StatusRejected, db.StatusGhosted)
)

// Report bundles every dashboard report.
type Report struct {
	ConversionFunnel     []FunnelStage      `json:"conversion_funnel"`
	StageConversionRates StageRates         `json:"stage_conversion_rates"`
	TimeByCompany        []CompanyTiming    `json:"time_by_company"`
	TimeToHire           []TransitionTiming `json:"time_to_hire"`
	ByIndustry           []IndustryRate     `json:"by_industry"`
	ByCompanySize        []CompanySizeRate  `json:"by_company_size"`
	ByDayOfWeek          []DayOfWeekRate    `json:"by_day_of_week"`
	ByLocation           []LocationRate     `json:"by_location"`
	ATSCorrelation       []ScoreBucket      `json:"ats_correlation"`
	DailyHeatmap         []HeatmapDay       `json:"daily_heatmap"`
	WeeklySummary        []WeekSummary      `json:"weekly_summary"`
	MonthlySummary       []MonthSummary     `json:"monthly_summary"`
	HeatmapMetadata      HeatmapMetadata    `json:"heatmap_metadata"`
}

// Complete builds every report. now anchors the time windows.
func Complete(apps []db.ApplicationStat, history []db.StatusChange, now time.Time) Report {
	return Report{
		ConversionFunnel:     ConversionFunnel(apps),
		StageConversionRates: StageConversionRates(apps),
		TimeByCompany:        TimeByCompany(apps, history),
		TimeToHire:           TimeToHire(apps, history),
		ByIndustry:           ByIndustry(apps),
		ByCompanySize:        ByCompanySize(apps),
		ByDayOfWeek:          ByDayOfWeek(apps),
		ByLocation:           ByLocation(apps),
		ATSCorrelation:       ATSCorrelation(apps),
		DailyHeatmap:         DailyHeatmap(apps, now),
		WeeklySummary:        WeeklySummary(apps, now),
		MonthlySummary:       MonthlySummary(apps, now),
		HeatmapMetadata:      Metadata(apps, now),
	}
}

// percent returns part/whole*100 rounded to one decimal, or 0 for an empty whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParseScore reads a stored ATS score such as "72.50" or "75%". The error
// sentinel and other non-numeric values are rejected.
func ParseScore(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(strings.ReplaceAll(*raw, "%", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func recent(apps []db.ApplicationStat, now time.Time) []db.ApplicationStat {
	cutoff := now.Add(-Window)
	out := make([]db.ApplicationStat, 0, len(apps))
	for _, a := range apps {
		if !a.AppliedAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
