package analytics

import (
	"sort"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
)

// funnelOrder positions each status in the funnel. Unknown statuses sort last.
var funnelOrder = map[string]int{
	db.StatusApplied:              1,
	db.StatusHRScreeningDone:      2,
	db.StatusShortlisted:          3,
	db.StatusInterviewScheduled:   4,
	db.StatusInterviewRescheduled: 4,
	db.StatusSelected:             5,
	db.StatusOfferReleased:        6,
	db.StatusRejected:             7,
	db.StatusGhosted:              8,
}

func funnelRank(status string) int {
	if r, ok := funnelOrder[status]; ok {
		return r
	}
	return 9
}

// FunnelStage is one status row of the conversion funnel.
type FunnelStage struct {
	Status          string  `json:"status"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
	CumulativeCount int     `json:"cumulative_count"`
}

// ConversionFunnel counts applications per current status in pipeline order.
func ConversionFunnel(apps []db.ApplicationStat) []FunnelStage {
	if len(apps) == 0 {
		return []FunnelStage{}
	}

	counts := map[string]int{}
	var statuses []string
	for _, a := range apps {
		if _, seen := counts[a.Status]; !seen {
			statuses = append(statuses, a.Status)
		}
		counts[a.Status]++
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return funnelRank(statuses[i]) < funnelRank(statuses[j])
	})

	stages := make([]FunnelStage, 0, len(statuses))
	cumulative := 0
	for _, status := range statuses {
		count := counts[status]
		cumulative += count
		stages = append(stages, FunnelStage{
			Status:          status,
			Count:           count,
			Percentage:      percent(count, len(apps)),
			CumulativeCount: cumulative,
		})
	}
	return stages
}

// StageRates summarizes how far applications progressed.
type StageRates struct {
	Applied            int     `json:"applied"`
	Progressed         int     `json:"progressed"`
	Shortlisted        int     `json:"shortlisted"`
	Interviewed        int     `json:"interviewed"`
	Selected           int     `json:"selected"`
	Offers             int     `json:"offers"`
	ResponseRate       float64 `json:"response_rate"`
	ShortlistRate      float64 `json:"shortlist_rate"`
	InterviewRate      float64 `json:"interview_rate"`
	SelectionRate      float64 `json:"selection_rate"`
	OfferRate          float64 `json:"offer_rate"`
	OverallSuccessRate float64 `json:"overall_success_rate"`
}

// StageConversionRates computes stage counts and rates. Selection and offer
// rates are relative to interviewed applications, the rest to all applications.
func StageConversionRates(apps []db.ApplicationStat) StageRates {
	r := StageRates{Applied: len(apps)}
	for _, a := range apps {
		if progressedStatuses[a.Status] {
			r.Progressed++
		}
		if shortlistedStatuses[a.Status] {
			r.Shortlisted++
		}
		if interviewedStatuses[a.Status] {
			r.Interviewed++
		}
		if selectedStatuses[a.Status] {
			r.Selected++
		}
		if a.Status == db.StatusOfferReleased {
			r.Offers++
		}
	}

	r.ResponseRate = percent(r.Progressed, r.Applied)
	r.ShortlistRate = percent(r.Shortlisted, r.Applied)
	r.InterviewRate = percent(r.Interviewed, r.Applied)
	r.SelectionRate = percent(r.Selected, r.Interviewed)
	r.OfferRate = percent(r.Offers, r.Interviewed)
	r.OverallSuccessRate = percent(r.Offers, r.Applied)
	return r
}
