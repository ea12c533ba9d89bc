// Package digest sends the scheduled application summary emails.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/analytics"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence the runner needs.
type Store interface {
	ListActiveDigestPreferences(ctx context.Context) ([]db.DigestPreference, error)
	ListApplicationStats(ctx context.Context, userID uuid.UUID) ([]db.ApplicationStat, error)
	ListApplications(ctx context.Context, userID uuid.UUID, filters db.ApplicationFilters) ([]db.Application, error)
	MarkDigestSent(ctx context.Context, userID uuid.UUID) error
}

// resendSlack is the tolerance applied when checking the frequency interval.
const resendSlack = time.Hour

// Summary reports one run.
type Summary struct {
	Checked int      `json:"checked"`
	Due     int      `json:"due"`
	Sent    int      `json:"sent"`
	Failed  []string `json:"failed,omitempty"`
}

// Runner matches preferences against the clock and sends digests.
type Runner struct {
	store    Store
	composer *email.Composer
	sender   email.Sender
	logger   *zap.Logger
}

// NewRunner builds a Runner. A nil logger is replaced with a no-op logger.
func NewRunner(store Store, composer *email.Composer, sender email.Sender, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, composer: composer, sender: sender, logger: logger}
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into hour and minute.
func ParseClock(s string) (int, int, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
}

func interval(frequency string, from time.Time) time.Time {
	switch frequency {
	case db.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case db.FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	case db.FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case db.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// IsDue reports whether pref should be sent at the minute of at. A preference
// is due when its scheduled clock time matches and its frequency interval has
// elapsed since the last send.
func IsDue(pref db.DigestPreference, at time.Time) bool {
	if !pref.Active {
		return false
	}
	hour, minute, err := ParseClock(pref.ScheduledTime)
	if err != nil || hour != at.Hour() || minute != at.Minute() {
		return false
	}
	if pref.LastSentAt == nil {
		return true
	}
	return !interval(pref.Frequency, *pref.LastSentAt).After(at.Add(resendSlack))
}

// Due filters prefs down to the ones due at the minute of at.
func Due(prefs []db.DigestPreference, at time.Time) []db.DigestPreference {
	var due []db.DigestPreference
	for _, p := range prefs {
		if IsDue(p, at) {
			due = append(due, p)
		}
	}
	return due
}

// Run sends every digest due at the minute of at. A failure for one user is
// logged and recorded without stopping the others.
func (r *Runner) Run(ctx context.Context, at time.Time) (*Summary, error) {
	prefs, err := r.store.ListActiveDigestPreferences(ctx)
	if err != nil {
		return nil, err
	}

	due := Due(prefs, at)
	summary := &Summary{Checked: len(prefs), Due: len(due)}
	r.logger.Info("digest check",
		zap.String("at", at.Format("15:04")),
		zap.Int("active", len(prefs)),
		zap.Int("due", len(due)))

	for _, pref := range due {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.Send(ctx, pref); err != nil {
			r.logger.Error("digest failed", zap.String("user_id", pref.UserID.String()), zap.Error(err))
			summary.Failed = append(summary.Failed, pref.Email)
			continue
		}
		summary.Sent++
	}
	return summary, nil
}

// Send builds and delivers one user's digest, then records the send.
func (r *Runner) Send(ctx context.Context, pref db.DigestPreference) error {
	if r.sender == nil {
		return email.ErrNoSender
	}

	stats, err := r.store.ListApplicationStats(ctx, pref.UserID)
	if err != nil {
		return err
	}
	recent, err := r.store.ListApplications(ctx, pref.UserID, db.ApplicationFilters{Limit: email.MaxDigestApplications})
	if err != nil {
		return err
	}

	data := email.DigestData{
		Name:      pref.Name,
		Frequency: pref.Frequency,
		Total:     len(stats),
		Recent:    recent,
	}
	for _, stage := range analytics.ConversionFunnel(stats) {
		switch stage.Status {
		case db.StatusHRScreeningDone:
			data.HRScreening = stage.Count
		case db.StatusSelected:
			data.Selected = stage.Count
		case db.StatusOfferReleased:
			data.Offers = stage.Count
		}
	}

	msg, err := r.composer.Digest(pref.Email, data)
	if err != nil {
		return err
	}
	id, err := r.sender.Send(ctx, msg)
	if err != nil {
		return err
	}
	r.logger.Info("digest sent",
		zap.String("user_id", pref.UserID.String()),
		zap.String("frequency", pref.Frequency),
		zap.String("message_id", id))

	return r.store.MarkDigestSent(ctx, pref.UserID)
}
