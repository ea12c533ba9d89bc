package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
)

// maxLocations caps the location report.
const maxLocations = 10

type outcomeCounts struct {
	total      int
	responses  int
	interviews int
	offers     int
}

func (c *outcomeCounts) add(status string) {
	c.total++
	if progressedStatuses[status] {
		c.responses++
	}
	if interviewedStatuses[status] {
		c.interviews++
	}
	if status == db.StatusOfferReleased {
		c.offers++
	}
}

// groupOutcomes tallies outcomes per key, keeping first-seen key order.
func groupOutcomes(apps []db.ApplicationStat, key func(db.ApplicationStat) string) ([]string, map[string]*outcomeCounts) {
	var keys []string
	groups := map[string]*outcomeCounts{}
	for _, a := range apps {
		k := key(a)
		c, ok := groups[k]
		if !ok {
			c = &outcomeCounts{}
			groups[k] = c
			keys = append(keys, k)
		}
		c.add(a.Status)
	}
	return keys, groups
}

// IndustryRate is the success rate for one industry.
type IndustryRate struct {
	Industry             string  `json:"industry"`
	TotalApps            int     `json:"total_apps"`
	Responses            int     `json:"responses"`
	Interviews           int     `json:"interviews"`
	Offers               int     `json:"offers"`
	ResponseRate         float64 `json:"response_rate"`
	InterviewRate        float64 `json:"interview_rate"`
	OfferRate            float64 `json:"offer_rate"`
	InterviewToOfferRate float64 `json:"interview_to_offer_rate"`
}

// ByIndustry groups applications by company industry, best offer rate first.
func ByIndustry(apps []db.ApplicationStat) []IndustryRate {
	keys, groups := groupOutcomes(apps, func(a db.ApplicationStat) string {
		return orDefault(a.Industry, notSpecified)
	})

	out := make([]IndustryRate, 0, len(keys))
	for _, k := range keys {
		c := groups[k]
		out = append(out, IndustryRate{
			Industry:             k,
			TotalApps:            c.total,
			Responses:            c.responses,
			Interviews:           c.interviews,
			Offers:               c.offers,
			ResponseRate:         percent(c.responses, c.total),
			InterviewRate:        percent(c.interviews, c.total),
			OfferRate:            percent(c.offers, c.total),
			InterviewToOfferRate: percent(c.offers, c.interviews),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OfferRate != out[j].OfferRate {
			return out[i].OfferRate > out[j].OfferRate
		}
		return out[i].TotalApps > out[j].TotalApps
	})
	return out
}

// CompanySizes lists the recognized company size bands in display order.
var CompanySizes = []string{
	"Startup (1-50)",
	"Small (51-200)",
	"Medium (201-1000)",
	"Large (1001-5000)",
	"Enterprise (5000+)",
	unknownSize,
}

func sizeRank(size string) int {
	for i, s := range CompanySizes {
		if s == size {
			return i
		}
	}
	return len(CompanySizes) - 1
}

// CompanySizeRate is the success rate for one company size band.
type CompanySizeRate struct {
	CompanySize   string  `json:"company_size"`
	TotalApps     int     `json:"total_apps"`
	Interviews    int     `json:"interviews"`
	Offers        int     `json:"offers"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
}

// ByCompanySize groups applications by company size band.
func ByCompanySize(apps []db.ApplicationStat) []CompanySizeRate {
	keys, groups := groupOutcomes(apps, func(a db.ApplicationStat) string {
		return orDefault(a.CompanySize, unknownSize)
	})

	out := make([]CompanySizeRate, 0, len(keys))
	for _, k := range keys {
		c := groups[k]
		out = append(out, CompanySizeRate{
			CompanySize:   k,
			TotalApps:     c.total,
			Interviews:    c.interviews,
			Offers:        c.offers,
			InterviewRate: percent(c.interviews, c.total),
			OfferRate:     percent(c.offers, c.total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sizeRank(out[i].CompanySize) < sizeRank(out[j].CompanySize)
	})
	return out
}

// DayOfWeekRate is the success rate for applications sent on one weekday.
type DayOfWeekRate struct {
	DayOfWeek     string  `json:"day_of_week"`
	DayNum        int     `json:"day_num"`
	Applications  int     `json:"applications"`
	Responses     int     `json:"responses"`
	Interviews    int     `json:"interviews"`
	Offers        int     `json:"offers"`
	ResponseRate  float64 `json:"response_rate"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// mondayIndex maps a weekday onto 0 for Monday through 6 for Sunday.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ByDayOfWeek always returns seven rows, Monday first.
func ByDayOfWeek(apps []db.ApplicationStat) []DayOfWeekRate {
	if len(apps) == 0 {
		return []DayOfWeekRate{}
	}

	counts := make([]outcomeCounts, len(weekdays))
	for _, a := range apps {
		if a.AppliedAt.IsZero() {
			continue
		}
		counts[mondayIndex(a.AppliedAt)].add(a.Status)
	}

	out := make([]DayOfWeekRate, len(weekdays))
	for i, day := range weekdays {
		c := counts[i]
		out[i] = DayOfWeekRate{
			DayOfWeek:     day,
			DayNum:        i + 1,
			Applications:  c.total,
			Responses:     c.responses,
			Interviews:    c.interviews,
			Offers:        c.offers,
			ResponseRate:  percent(c.responses, c.total),
			InterviewRate: percent(c.interviews, c.total),
			OfferRate:     percent(c.offers, c.total),
		}
	}
	return out
}

// LocationRate is the success rate for one job location.
type LocationRate struct {
	Location      string  `json:"location"`
	TotalApps     int     `json:"total_apps"`
	Interviews    int     `json:"interviews"`
	Offers        int     `json:"offers"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
}

// ByLocation returns the top locations by offer rate, then volume.
func ByLocation(apps []db.ApplicationStat) []LocationRate {
	keys, groups := groupOutcomes(apps, func(a db.ApplicationStat) string {
		return orDefault(a.Location, notSpecified)
	})

	out := make([]LocationRate, 0, len(keys))
	for _, k := range keys {
		c := groups[k]
		out = append(out, LocationRate{
			Location:      k,
			TotalApps:     c.total,
			Interviews:    c.interviews,
			Offers:        c.offers,
			InterviewRate: percent(c.interviews, c.total),
			OfferRate:     percent(c.offers, c.total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OfferRate != out[j].OfferRate {
			return out[i].OfferRate > out[j].OfferRate
		}
		return out[i].TotalApps > out[j].TotalApps
	})
	if len(out) > maxLocations {
		out = out[:maxLocations]
	}
	return out
}

// ScoreBucket relates an ATS score band to outcomes.
type ScoreBucket struct {
	ScoreRange    string  `json:"score_range"`
	TotalApps     int     `json:"total_apps"`
	Interviews    int     `json:"interviews"`
	Offers        int     `json:"offers"`
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`
}

var scoreBands = []struct {
	label string
	min   float64
}{
	{"80-100 (Excellent)", 80},
	{"60-79 (Good)", 60},
	{"40-59 (Average)", 40},
	{"20-39 (Below Average)", 20},
	{"0-19 (Poor)", math.Inf(-1)},
}

// ATSCorrelation buckets scored applications by ATS score band. Applications
// without a numeric score are skipped. Empty bands are omitted.
func ATSCorrelation(apps []db.ApplicationStat) []ScoreBucket {
	counts := make([]outcomeCounts, len(scoreBands))
	for _, a := range apps {
		score, ok := ParseScore(a.ATSScore)
		if !ok {
			continue
		}
		for i, band := range scoreBands {
			if score >= band.min {
				counts[i].add(a.Status)
				break
			}
		}
	}

	out := []ScoreBucket{}
	for i, band := range scoreBands {
		c := counts[i]
		if c.total == 0 {
			continue
		}
		out = append(out, ScoreBucket{
			ScoreRange:    band.label,
			TotalApps:     c.total,
			Interviews:    c.interviews,
			Offers:        c.offers,
			InterviewRate: percent(c.interviews, c.total),
			OfferRate:     percent(c.offers, c.total),
		})
	}
	return out
}
