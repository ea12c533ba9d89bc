package analytics

import (
	"testing"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func at(date string, hour int) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

type fixture struct {
	acme, beta, gamma, delta, epsilon db.ApplicationStat
}

func newFixture() fixture {
	return fixture{
		acme: db.ApplicationStat{ID: uuid.New(), CompanyName: "Acme", Status: db.StatusApplied,
			ATSScore: strPtr("85.00"), AppliedAt: at("2026-06-01", 10),
			Industry: "Tech", CompanySize: "Startup (1-50)", Location: "Remote"},
		beta: db.ApplicationStat{ID: uuid.New(), CompanyName: "Beta", Status: db.StatusInterviewScheduled,
			ATSScore: strPtr("65%"), AppliedAt: at("2026-06-01", 15),
			Industry: "Tech", CompanySize: "Large (1001-5000)", Location: "NYC"},
		gamma: db.ApplicationStat{ID: uuid.New(), CompanyName: "Gamma", Status: db.StatusOfferReleased,
			ATSScore: strPtr("72.50"), AppliedAt: at("2026-06-03", 9),
			Industry: "Finance"},
		delta: db.ApplicationStat{ID: uuid.New(), CompanyName: "Delta", Status: db.StatusRejected,
			ATSScore: strPtr(db.ATSScoreError), AppliedAt: at("2026-05-20", 8),
			CompanySize: "Small (51-200)", Location: "Remote"},
		epsilon: db.ApplicationStat{ID: uuid.New(), CompanyName: "Epsilon", Status: db.StatusHRScreeningDone,
			AppliedAt: at("2025-01-01", 8), Industry: "Finance", Location: "NYC"},
	}
}

func (f fixture) apps() []db.ApplicationStat {
	return []db.ApplicationStat{f.acme, f.beta, f.gamma, f.delta, f.epsilon}
}

func (f fixture) history() []db.StatusChange {
	return []db.StatusChange{
		{ApplicationID: f.acme.ID, NewStatus: db.StatusApplied, ChangedAt: f.acme.AppliedAt},
		{ApplicationID: f.beta.ID, OldStatus: strPtr(db.StatusApplied), NewStatus: db.StatusInterviewScheduled, ChangedAt: at("2026-06-05", 15)},
		{ApplicationID: f.gamma.ID, OldStatus: strPtr(db.StatusApplied), NewStatus: db.StatusHRScreeningDone, ChangedAt: at("2026-06-04", 9)},
		{ApplicationID: f.gamma.ID, OldStatus: strPtr(db.StatusHRScreeningDone), NewStatus: db.StatusOfferReleased, ChangedAt: at("2026-06-13", 9)},
		{ApplicationID: f.delta.ID, OldStatus: strPtr(db.StatusApplied), NewStatus: db.StatusRejected, ChangedAt: at("2026-05-25", 8)},
		{ApplicationID: uuid.New(), NewStatus: db.StatusOfferReleased, ChangedAt: testNow},
	}
}

func TestConversionFunnel(t *testing.T) {
	got := ConversionFunnel(newFixture().apps())

	want := []FunnelStage{
		{Status: db.StatusApplied, Count: 1, Percentage: 20, CumulativeCount: 1},
		{Status: db.StatusHRScreeningDone, Count: 1, Percentage: 20, CumulativeCount: 2},
		{Status: db.StatusInterviewScheduled, Count: 1, Percentage: 20, CumulativeCount: 3},
		{Status: db.StatusOfferReleased, Count: 1, Percentage: 20, CumulativeCount: 4},
		{Status: db.StatusRejected, Count: 1, Percentage: 20, CumulativeCount: 5},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, ConversionFunnel(nil))
}

func TestConversionFunnel_UnknownStatusLast(t *testing.T) {
	got := ConversionFunnel([]db.ApplicationStat{
		{Status: "Withdrawn"},
		{Status: db.StatusGhosted},
		{Status: db.StatusApplied},
	})
	require.Len(t, got, 3)
	assert.Equal(t, db.StatusApplied, got[0].Status)
	assert.Equal(t, db.StatusGhosted, got[1].Status)
	assert.Equal(t, "Withdrawn", got[2].Status)
	assert.Equal(t, 33.3, got[0].Percentage)
}

func TestStageConversionRates(t *testing.T) {
	got := StageConversionRates(newFixture().apps())

	assert.Equal(t, StageRates{
		Applied:            5,
		Progressed:         3,
		Shortlisted:        2,
		Interviewed:        2,
		Selected:           1,
		Offers:             1,
		ResponseRate:       60,
		ShortlistRate:      40,
		InterviewRate:      40,
		SelectionRate:      50,
		OfferRate:          50,
		OverallSuccessRate: 20,
	}, got)

	assert.Equal(t, StageRates{}, StageConversionRates(nil))
}

func TestByIndustry(t *testing.T) {
	got := ByIndustry(newFixture().apps())
	require.Len(t, got, 3)

	assert.Equal(t, IndustryRate{
		Industry: "Finance", TotalApps: 2, Responses: 2, Interviews: 1, Offers: 1,
		ResponseRate: 100, InterviewRate: 50, OfferRate: 50, InterviewToOfferRate: 100,
	}, got[0])
	assert.Equal(t, "Tech", got[1].Industry)
	assert.Equal(t, notSpecified, got[2].Industry)
	assert.Equal(t, 1, got[2].TotalApps)
}

func TestByCompanySize(t *testing.T) {
	got := ByCompanySize(newFixture().apps())

	var sizes []string
	for _, r := range got {
		sizes = append(sizes, r.CompanySize)
	}
	assert.Equal(t, []string{"Startup (1-50)", "Small (51-200)", "Large (1001-5000)", "Unknown"}, sizes)

	unknown := got[3]
	assert.Equal(t, 2, unknown.TotalApps)
	assert.Equal(t, 50.0, unknown.OfferRate)
}

func TestByDayOfWeek(t *testing.T) {
	got := ByDayOfWeek(newFixture().apps())
	require.Len(t, got, 7)

	assert.Equal(t, "Monday", got[0].DayOfWeek)
	assert.Equal(t, 1, got[0].DayNum)
	assert.Equal(t, 2, got[0].Applications)
	assert.Equal(t, 50.0, got[0].InterviewRate)

	wed := got[2]
	assert.Equal(t, "Wednesday", wed.DayOfWeek)
	assert.Equal(t, 3, wed.Applications)
	assert.Equal(t, 66.7, wed.ResponseRate)
	assert.Equal(t, 33.3, wed.OfferRate)

	assert.Equal(t, "Sunday", got[6].DayOfWeek)
	assert.Zero(t, got[6].Applications)
	assert.Zero(t, got[6].ResponseRate)

	assert.Empty(t, ByDayOfWeek(nil))
}

func TestByLocation(t *testing.T) {
	got := ByLocation(newFixture().apps())
	require.Len(t, got, 3)
	assert.Equal(t, notSpecified, got[0].Location)
	assert.Equal(t, 100.0, got[0].OfferRate)
	assert.Equal(t, "Remote", got[1].Location)
	assert.Equal(t, "NYC", got[2].Location)
}

func TestByLocation_TopTen(t *testing.T) {
	var apps []db.ApplicationStat
	for i := 0; i < 15; i++ {
		apps = append(apps, db.ApplicationStat{Location: string(rune('A' + i)), Status: db.StatusApplied})
	}
	assert.Len(t, ByLocation(apps), maxLocations)
}

func TestATSCorrelation(t *testing.T) {
	got := ATSCorrelation(newFixture().apps())

	assert.Equal(t, []ScoreBucket{
		{ScoreRange: "80-100 (Excellent)", TotalApps: 1},
		{ScoreRange: "60-79 (Good)", TotalApps: 2, Interviews: 2, Offers: 1, InterviewRate: 100, OfferRate: 50},
	}, got)

	assert.Empty(t, ATSCorrelation(nil))
}

func TestATSCorrelation_Boundaries(t *testing.T) {
	scores := []string{"80", "79.99", "60", "40", "39.5", "20", "19", "0"}
	var apps []db.ApplicationStat
	for _, s := range scores {
		apps = append(apps, db.ApplicationStat{ATSScore: strPtr(s), Status: db.StatusApplied})
	}

	got := ATSCorrelation(apps)
	totals := map[string]int{}
	for _, b := range got {
		totals[b.ScoreRange] = b.TotalApps
	}
	assert.Equal(t, map[string]int{
		"80-100 (Excellent)":    1,
		"60-79 (Good)":          2,
		"40-59 (Average)":       1,
		"20-39 (Below Average)": 2,
		"0-19 (Poor)":           2,
	}, totals)
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want float64
		ok   bool
	}{
		{name: "formatted", raw: strPtr("72.50"), want: 72.5, ok: true},
		{name: "percent", raw: strPtr(" 75% "), want: 75, ok: true},
		{name: "sentinel", raw: strPtr(db.ATSScoreError), ok: false},
		{name: "empty", raw: strPtr(""), ok: false},
		{name: "nan", raw: strPtr("NaN"), ok: false},
		{name: "nil", raw: nil, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScore(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntensity(t *testing.T) {
	for count, want := range map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 3, 7: 4, 30: 4} {
		assert.Equal(t, want, Intensity(count), "count %d", count)
	}
}

func TestDailyHeatmap(t *testing.T) {
	got := DailyHeatmap(newFixture().apps(), testNow)

	assert.Equal(t, []HeatmapDay{
		{Date: "2026-05-20", ApplicationCount: 1, IntensityLevel: 1},
		{Date: "2026-06-01", ApplicationCount: 2, InterviewsCount: 1, IntensityLevel: 1},
		{Date: "2026-06-03", ApplicationCount: 1, OffersCount: 1, IntensityLevel: 1},
	}, got)
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, "2026-06-01", WeekStart(at("2026-06-01", 0)))
	assert.Equal(t, "2026-06-01", WeekStart(at("2026-06-03", 23)))
	assert.Equal(t, "2026-06-01", WeekStart(at("2026-06-07", 12)))
	assert.Equal(t, "2026-06-15", WeekStart(testNow))
}

func TestWeeklySummary(t *testing.T) {
	got := WeeklySummary(newFixture().apps(), testNow)
	require.Len(t, got, 2)

	assert.Equal(t, "2026-05-18", got[0].WeekStart)
	assert.Equal(t, 1, got[0].WeeklyApplications)
	assert.Nil(t, got[0].AvgATSScore)

	assert.Equal(t, "2026-06-01", got[1].WeekStart)
	assert.Equal(t, 3, got[1].WeeklyApplications)
	assert.Equal(t, 2, got[1].WeeklyProgress)
	require.NotNil(t, got[1].AvgATSScore)
	assert.Equal(t, 74.2, *got[1].AvgATSScore)
}

func TestMonthlySummary(t *testing.T) {
	got := MonthlySummary(newFixture().apps(), testNow)
	require.Len(t, got, 2)

	june := got[0]
	assert.Equal(t, "Jun 2026", june.MonthName)
	assert.Equal(t, "2026-06", june.Month)
	assert.Equal(t, 3, june.Applications)
	assert.Equal(t, 1, june.Offers)
	assert.Equal(t, 33.3, june.SuccessRate)
	require.NotNil(t, june.AppChange)
	assert.Equal(t, 2, *june.AppChange)
	require.NotNil(t, june.AppChangePercent)
	assert.Equal(t, 200.0, *june.AppChangePercent)

	may := got[1]
	assert.Equal(t, "May 2026", may.MonthName)
	assert.Equal(t, 1, may.Rejections)
	assert.Nil(t, may.AppChange)
	assert.Nil(t, may.AppChangePercent)
}

func TestMetadata(t *testing.T) {
	got := Metadata(newFixture().apps(), testNow)

	require.NotNil(t, got.FirstApplicationDate)
	require.NotNil(t, got.LastApplicationDate)
	assert.Equal(t, "2026-05-20", *got.FirstApplicationDate)
	assert.Equal(t, "2026-06-03", *got.LastApplicationDate)
	assert.Equal(t, 3, got.TotalActiveDays)
	assert.Equal(t, 4, got.TotalApplications)
	assert.Equal(t, 1.3, got.AvgAppsPerActiveDay)

	assert.Equal(t, HeatmapMetadata{}, Metadata(nil, testNow))
}

func TestTimeToHire(t *testing.T) {
	f := newFixture()
	got := TimeToHire(f.apps(), f.history())

	assert.Equal(t, []TransitionTiming{
		{Transition: TransitionHRScreen, AvgDays: 1, MedianDays: 1, MinDays: 1, MaxDays: 1, SampleSize: 1},
		{Transition: TransitionInterview, AvgDays: 4, MedianDays: 4, MinDays: 4, MaxDays: 4, SampleSize: 1},
		{Transition: TransitionOffer, AvgDays: 10, MedianDays: 10, MinDays: 10, MaxDays: 10, SampleSize: 1},
	}, got)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]int{1, 2, 3}))
	assert.Equal(t, 2.5, median([]int{1, 2, 3, 10}))
}

func TestTimeByCompany(t *testing.T) {
	f := newFixture()
	got := TimeByCompany(f.apps(), f.history())
	require.Len(t, got, 5)

	assert.Equal(t, "Gamma", got[0].CompanyName)
	require.NotNil(t, got[0].AvgDaysToOffer)
	assert.Equal(t, 10.0, *got[0].AvgDaysToOffer)
	assert.Equal(t, 1, got[0].OffersReceived)

	var names []string
	for _, c := range got[1:] {
		names = append(names, c.CompanyName)
		assert.Nil(t, c.AvgDaysToOffer)
	}
	assert.Equal(t, []string{"Acme", "Beta", "Delta", "Epsilon"}, names)

	beta := got[2]
	require.NotNil(t, beta.AvgDaysToInterview)
	assert.Equal(t, 4.0, *beta.AvgDaysToInterview)
	assert.Equal(t, 1, got[3].RejectedOrGhosted)
}

func TestComplete(t *testing.T) {
	f := newFixture()
	report := Complete(f.apps(), f.history(), testNow)

	assert.Len(t, report.ConversionFunnel, 5)
	assert.Equal(t, 5, report.StageConversionRates.Applied)
	assert.Len(t, report.ByDayOfWeek, 7)
	assert.Len(t, report.MonthlySummary, 2)
	assert.Equal(t, 4, report.HeatmapMetadata.TotalApplications)
	assert.Len(t, report.TimeToHire, 3)
}
