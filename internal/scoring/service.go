// Package scoring runs the ATS engine against stored applications, with an
// optional Redis cache in front of it.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// batchPageSize is how many applications ScoreAll loads per query.
const batchPageSize = 100

var (
	// ErrApplicationNotFound is returned when the application does not exist
	// or belongs to another user.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrNoResume is returned when the user has not stored any resume text.
	ErrNoResume = errors.New("no resume text on file")
)

// Scorer computes one ATS result. *ats.Engine satisfies it.
type Scorer interface {
	Score(in ats.Input) *ats.Result
}

// Cache is the result cache consulted before scoring. *cache.ScoreCache satisfies it.
type Cache interface {
	Get(ctx context.Context, in ats.Input) (*ats.Result, error)
	Set(ctx context.Context, in ats.Input, result *ats.Result) error
}

// Store is the subset of the database the service needs.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID, filters db.ApplicationFilters) ([]db.Application, error)
	SaveATSScore(ctx context.Context, userID, id uuid.UUID, score string) error
}

// Outcome is the result of scoring one application in a batch.
type Outcome struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CompanyName   string    `json:"company_name"`
	JobTitle      string    `json:"job_title"`
	Score         string    `json:"ats_score"`
	Error         string    `json:"error,omitempty"`
}

// Failed reports whether the item was stored with the error sentinel.
func (o Outcome) Failed() bool {
	return o.Score == db.ATSScoreError
}

// Service scores free text and stored applications.
type Service struct {
	scorer      Scorer
	cache       Cache
	store       Store
	metrics     *observability.Metrics
	logger      *zap.Logger
	concurrency int
}

// Option customizes a Service.
type Option func(*Service)

// WithCache puts a result cache in front of the scorer.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithStore enables the application-scoped operations.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithMetrics records scores and cache lookups.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithConcurrency bounds the number of applications scored at once by ScoreAll.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a scoring service over scorer.
func NewService(scorer Scorer, opts ...Option) *Service {
	s := &Service{
		scorer:      scorer,
		logger:      zap.NewNop(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreText scores raw texts, serving from the cache when possible. Cache
// failures are logged and never fail the request.
func (s *Service) ScoreText(ctx context.Context, resume, jobDescription, title string) *ats.Result {
	in := ats.Input{ResumeText: resume, JobDescriptionText: jobDescription, JobTitle: title}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, in)
		switch {
		case err != nil:
			s.metrics.ObserveCache("error")
			s.logger.Warn("score cache lookup failed", zap.Error(err))
		case cached != nil:
			s.metrics.ObserveCache("hit")
			return cached
		default:
			s.metrics.ObserveCache("miss")
		}
	}

	start := time.Now()
	result := s.scorer.Score(in)
	s.metrics.ObserveScore("engine", result.FinalScore, time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, in, result); err != nil {
			s.logger.Warn("score cache store failed", zap.Error(err))
		}
	}
	return result
}

// ScoreApplication scores one stored application against the user's resume
// and persists the formatted score.
func (s *Service) ScoreApplication(ctx context.Context, userID, appID uuid.UUID) (*ats.Result, error) {
	if s.store == nil {
		return nil, errors.New("scoring service has no store")
	}
	resume, err := s.resumeText(ctx, userID)
	if err != nil {
		return nil, err
	}

	app, err := s.store.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	result := s.ScoreText(ctx, resume, app.JobDescription, app.JobTitle)
	if err := s.store.SaveATSScore(ctx, userID, appID, FormatScore(result.FinalScore)); err != nil {
		return nil, err
	}

	s.logger.Info("scored application",
		zap.String("user_id", userID.String()),
		zap.String("application_id", appID.String()),
		zap.Float64("final_score", result.FinalScore),
	)
	return result, nil
}

// ScoreAll scores every application of the user. A failing item is stored with
// the error sentinel and does not stop the batch. Outcomes keep the order of
// the listing.
func (s *Service) ScoreAll(ctx context.Context, userID uuid.UUID) ([]Outcome, error) {
	if s.store == nil {
		return nil, errors.New("scoring service has no store")
	}
	resume, err := s.resumeText(ctx, userID)
	if err != nil {
		return nil, err
	}

	apps, err := s.listAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(apps))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range apps {
		app := apps[i]
		i := i
		g.Go(func() error {
			outcomes[i] = s.scoreItem(gCtx, userID, resume, app)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	s.logger.Info("batch scoring finished",
		zap.String("user_id", userID.String()),
		zap.Int("total", len(outcomes)),
		zap.Int("failed", failed),
	)
	return outcomes, nil
}

func (s *Service) scoreItem(ctx context.Context, userID uuid.UUID, resume string, app db.Application) (out Outcome) {
	out = Outcome{ApplicationID: app.ID, CompanyName: app.CompanyName, JobTitle: app.JobTitle}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while scoring application",
				zap.String("application_id", app.ID.String()),
				zap.Any("panic", r),
			)
			out.Score = db.ATSScoreError
			out.Error = fmt.Sprintf("panic: %v", r)
			s.saveFailure(ctx, userID, app.ID)
		}
	}()

	result := s.ScoreText(ctx, resume, app.JobDescription, app.JobTitle)
	out.Score = FormatScore(result.FinalScore)

	if err := s.store.SaveATSScore(ctx, userID, app.ID, out.Score); err != nil {
		s.logger.Error("failed to save ATS score",
			zap.String("application_id", app.ID.String()),
			zap.Error(err),
		)
		out.Score = db.ATSScoreError
		out.Error = err.Error()
		s.metrics.ObserveBatchFailure()
	}
	return out
}

func (s *Service) saveFailure(ctx context.Context, userID, appID uuid.UUID) {
	s.metrics.ObserveBatchFailure()
	if err := s.store.SaveATSScore(ctx, userID, appID, db.ATSScoreError); err != nil {
		s.logger.Error("failed to save error sentinel",
			zap.String("application_id", appID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) resumeText(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || user.ResumeText == "" {
		return "", ErrNoResume
	}
	return user.ResumeText, nil
}

func (s *Service) listAll(ctx context.Context, userID uuid.UUID) ([]db.Application, error) {
	var all []db.Application
	for offset := 0; ; offset += batchPageSize {
		page, err := s.store.ListApplications(ctx, userID, db.ApplicationFilters{Limit: batchPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < batchPageSize {
			return all, nil
		}
	}
}

// FormatScore renders a final score the way it is stored on an application.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
