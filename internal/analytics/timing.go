package analytics

import (
	"math"
	"sort"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/google/uuid"
)

// Transition names, in report order.
const (
	TransitionHRScreen  = "Applied → HR Screen"
	TransitionShortlist = "Applied → Shortlist"
	TransitionInterview = "Applied → Interview"
	TransitionOffer     = "Applied → Offer"
)

var transitions = []string{TransitionHRScreen, TransitionShortlist, TransitionInterview, TransitionOffer}

func transitionFor(status string) (string, bool) {
	switch status {
	case db.StatusHRScreeningDone:
		return TransitionHRScreen, true
	case db.StatusShortlisted:
		return TransitionShortlist, true
	case db.StatusInterviewScheduled, db.StatusInterviewRescheduled:
		return TransitionInterview, true
	case db.StatusOfferReleased:
		return TransitionOffer, true
	}
	return "", false
}

// TransitionTiming describes how long applications took to reach a stage.
type TransitionTiming struct {
	Transition string  `json:"transition"`
	AvgDays    float64 `json:"avg_days"`
	MedianDays float64 `json:"median_days"`
	MinDays    int     `json:"min_days"`
	MaxDays    int     `json:"max_days"`
	SampleSize int     `json:"sample_size"`
}

// daysBetween counts whole days, rounding toward negative infinity.
func daysBetween(app db.ApplicationStat, change db.StatusChange) int {
	return int(math.Floor(change.ChangedAt.Sub(app.AppliedAt).Hours() / 24))
}

func indexByID(apps []db.ApplicationStat) map[uuid.UUID]db.ApplicationStat {
	byID := make(map[uuid.UUID]db.ApplicationStat, len(apps))
	for _, a := range apps {
		byID[a.ID] = a
	}
	return byID
}

// TimeToHire reports the days from applying to each stage, across all
// applications. Transitions without samples are omitted.
func TimeToHire(apps []db.ApplicationStat, history []db.StatusChange) []TransitionTiming {
	byID := indexByID(apps)
	samples := map[string][]int{}
	for _, h := range history {
		app, ok := byID[h.ApplicationID]
		if !ok || app.AppliedAt.IsZero() {
			continue
		}
		name, ok := transitionFor(h.NewStatus)
		if !ok {
			continue
		}
		samples[name] = append(samples[name], daysBetween(app, h))
	}

	out := []TransitionTiming{}
	for _, name := range transitions {
		days := samples[name]
		if len(days) == 0 {
			continue
		}
		sort.Ints(days)
		out = append(out, TransitionTiming{
			Transition: name,
			AvgDays:    round1(meanInts(days)),
			MedianDays: round1(median(days)),
			MinDays:    days[0],
			MaxDays:    days[len(days)-1],
			SampleSize: len(days),
		})
	}
	return out
}

// CompanyTiming is the average stage timing for one company.
type CompanyTiming struct {
	CompanyName        string   `json:"company_name"`
	TotalApplications  int      `json:"total_applications"`
	AvgDaysToHRScreen  *float64 `json:"avg_days_to_hr_screen"`
	AvgDaysToShortlist *float64 `json:"avg_days_to_shortlist"`
	AvgDaysToInterview *float64 `json:"avg_days_to_interview"`
	AvgDaysToSelection *float64 `json:"avg_days_to_selection"`
	AvgDaysToOffer     *float64 `json:"avg_days_to_offer"`
	OffersReceived     int      `json:"offers_received"`
	RejectedOrGhosted  int      `json:"rejected_or_ghosted"`
}

type companySamples struct {
	total     int
	hrScreen  []int
	shortlist []int
	interview []int
	selection []int
	offer     []int
	offers    int
	closed    int
}

// TimeByCompany reports per-company stage timing, fastest to offer first.
// Companies without any offer sort last.
func TimeByCompany(apps []db.ApplicationStat, history []db.StatusChange) []CompanyTiming {
	var names []string
	companies := map[string]*companySamples{}
	appCompany := make(map[uuid.UUID]string, len(apps))
	for _, a := range apps {
		name := orDefault(a.CompanyName, "Unknown")
		c, ok := companies[name]
		if !ok {
			c = &companySamples{}
			companies[name] = c
			names = append(names, name)
		}
		c.total++
		appCompany[a.ID] = name
	}

	byID := indexByID(apps)
	for _, h := range history {
		app, ok := byID[h.ApplicationID]
		if !ok || app.AppliedAt.IsZero() {
			continue
		}
		c := companies[appCompany[h.ApplicationID]]
		days := daysBetween(app, h)
		switch h.NewStatus {
		case db.StatusHRScreeningDone:
			c.hrScreen = append(c.hrScreen, days)
		case db.StatusShortlisted:
			c.shortlist = append(c.shortlist, days)
		case db.StatusInterviewScheduled, db.StatusInterviewRescheduled:
			c.interview = append(c.interview, days)
		case db.StatusSelected:
			c.selection = append(c.selection, days)
		case db.StatusOfferReleased:
			c.offer = append(c.offer, days)
			c.offers++
		case db.StatusRejected, db.StatusGhosted:
			c.closed++
		}
	}

	out := make([]CompanyTiming, 0, len(names))
	for _, name := range names {
		c := companies[name]
		out = append(out, CompanyTiming{
			CompanyName:        name,
			TotalApplications:  c.total,
			AvgDaysToHRScreen:  avgOrNil(c.hrScreen),
			AvgDaysToShortlist: avgOrNil(c.shortlist),
			AvgDaysToInterview: avgOrNil(c.interview),
			AvgDaysToSelection: avgOrNil(c.selection),
			AvgDaysToOffer:     avgOrNil(c.offer),
			OffersReceived:     c.offers,
			RejectedOrGhosted:  c.closed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AvgDaysToOffer, out[j].AvgDaysToOffer
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})
	return out
}

func avgOrNil(days []int) *float64 {
	if len(days) == 0 {
		return nil
	}
	v := round1(meanInts(days))
	return &v
}

func meanInts(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// median expects sorted input.
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
