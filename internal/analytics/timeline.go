package analytics

import (
	"sort"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
)

const dateLayout = "2006-01-02"

// HeatmapDay is one day of application activity.
type HeatmapDay struct {
	Date             string `json:"date"`
	ApplicationCount int    `json:"application_count"`
	InterviewsCount  int    `json:"interviews_count"`
	OffersCount      int    `json:"offers_count"`
	IntensityLevel   int    `json:"intensity_level"`
}

// Intensity maps a daily application count onto the 0-4 heatmap scale.
func Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// DailyHeatmap returns per-day activity over the last year, oldest first.
// Days without applications are omitted.
func DailyHeatmap(apps []db.ApplicationStat, now time.Time) []HeatmapDay {
	days := map[string]*HeatmapDay{}
	for _, a := range recent(apps, now) {
		key := a.AppliedAt.UTC().Format(dateLayout)
		d, ok := days[key]
		if !ok {
			d = &HeatmapDay{Date: key}
			days[key] = d
		}
		d.ApplicationCount++
		if schedulingStatus[a.Status] {
			d.InterviewsCount++
		}
		if a.Status == db.StatusOfferReleased {
			d.OffersCount++
		}
	}

	out := make([]HeatmapDay, 0, len(days))
	for _, d := range days {
		d.IntensityLevel = Intensity(d.ApplicationCount)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeekSummary aggregates the applications of one Monday-based week.
type WeekSummary struct {
	WeekStart          string   `json:"week_start"`
	WeeklyApplications int      `json:"weekly_applications"`
	WeeklyProgress     int      `json:"weekly_progress"`
	AvgATSScore        *float64 `json:"avg_ats_score"`
}

// WeekStart returns the Monday of t's week as YYYY-MM-DD in UTC.
func WeekStart(t time.Time) string {
	t = t.UTC()
	return t.AddDate(0, 0, -mondayIndex(t)).Format(dateLayout)
}

// WeeklySummary returns weekly totals over the last year, oldest first.
func WeeklySummary(apps []db.ApplicationStat, now time.Time) []WeekSummary {
	type acc struct {
		count, progress int
		scores          []float64
	}
	weeks := map[string]*acc{}
	for _, a := range recent(apps, now) {
		key := WeekStart(a.AppliedAt)
		w, ok := weeks[key]
		if !ok {
			w = &acc{}
			weeks[key] = w
		}
		w.count++
		if interviewedStatuses[a.Status] {
			w.progress++
		}
		if score, ok := ParseScore(a.ATSScore); ok {
			w.scores = append(w.scores, score)
		}
	}

	out := make([]WeekSummary, 0, len(weeks))
	for key, w := range weeks {
		s := WeekSummary{WeekStart: key, WeeklyApplications: w.count, WeeklyProgress: w.progress}
		if len(w.scores) > 0 {
			avg := round1(mean(w.scores))
			s.AvgATSScore = &avg
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart < out[j].WeekStart })
	return out
}

// MonthSummary aggregates one calendar month with the change from the
// previous active month.
type MonthSummary struct {
	MonthName        string   `json:"month_name"`
	Month            string   `json:"month"`
	Applications     int      `json:"applications"`
	Offers           int      `json:"offers"`
	Rejections       int      `json:"rejections"`
	SuccessRate      float64  `json:"success_rate"`
	AppChange        *int     `json:"app_change"`
	AppChangePercent *float64 `json:"app_change_percent"`
}

// MonthlySummary returns monthly totals over the last year, most recent first.
func MonthlySummary(apps []db.ApplicationStat, now time.Time) []MonthSummary {
	months := map[string]*MonthSummary{}
	for _, a := range recent(apps, now) {
		applied := a.AppliedAt.UTC()
		key := applied.Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &MonthSummary{Month: key, MonthName: applied.Format("Jan 2006")}
			months[key] = m
		}
		m.Applications++
		if a.Status == db.StatusOfferReleased {
			m.Offers++
		}
		if closedStatuses[a.Status] {
			m.Rejections++
		}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthSummary, 0, len(keys))
	prev := -1
	for _, k := range keys {
		m := months[k]
		m.SuccessRate = percent(m.Offers, m.Applications)
		if prev >= 0 {
			change := m.Applications - prev
			m.AppChange = &change
			if prev > 0 {
				pct := round1(float64(change) / float64(prev) * 100)
				m.AppChangePercent = &pct
			}
		}
		prev = m.Applications
		out = append(out, *m)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// HeatmapMetadata describes the heatmap's date range and density.
type HeatmapMetadata struct {
	FirstApplicationDate *string `json:"first_application_date"`
	LastApplicationDate  *string `json:"last_application_date"`
	TotalActiveDays      int     `json:"total_active_days"`
	TotalApplications    int     `json:"total_applications"`
	AvgAppsPerActiveDay  float64 `json:"avg_apps_per_active_day"`
}

// Metadata summarizes the last year of activity.
func Metadata(apps []db.ApplicationStat, now time.Time) HeatmapMetadata {
	window := recent(apps, now)
	if len(window) == 0 {
		return HeatmapMetadata{}
	}

	active := map[string]bool{}
	first, last := "", ""
	for _, a := range window {
		d := a.AppliedAt.UTC().Format(dateLayout)
		active[d] = true
		if first == "" || d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}

	return HeatmapMetadata{
		FirstApplicationDate: &first,
		LastApplicationDate:  &last,
		TotalActiveDays:      len(active),
		TotalApplications:    len(window),
		AvgAppsPerActiveDay:  round1(float64(len(window)) / float64(len(active))),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
