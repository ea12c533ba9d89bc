package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/assistant"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/config"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/llm"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/observability"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/scoring"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/server/ratelimit"
	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing"

// fakeSender records delivered messages.
type fakeSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", &email.SendError{To: msg.To, Err: f.err}
	}
	f.sent = append(f.sent, msg)
	return "msg-" + msg.To, nil
}

func (f *fakeSender) messages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

// fakeLLM replies with a canned response.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(context.Context, llm.Request, llm.ModelTier) (string, error) {
	return f.response, f.err
}
func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

// noMX resolves every domain to a single mail exchanger.
type noMX struct{}

func (noMX) LookupMX(context.Context, string) ([]*net.MX, error) {
	return []*net.MX{{Host: "mx.example.com.", Pref: 10}}, nil
}

type testEnv struct {
	server *Server
	store  *memStore
	sender *fakeSender
	now    time.Time
}

// newTestEnv builds a server over an in-memory store. edit adjusts the
// dependencies before construction.
func newTestEnv(t *testing.T, edit func(*Deps)) *testEnv {
	t.Helper()

	jwtConfig, err := config.NewJWTConfig(testSecret, 1)
	require.NoError(t, err)
	passwords, err := config.NewPasswordConfig(10, "")
	require.NoError(t, err)
	engine, err := ats.New(ats.DefaultOptions())
	require.NoError(t, err)
	otp, err := email.NewOTPIssuer(testSecret, 10*time.Minute)
	require.NoError(t, err)

	store := newMemStore()
	sender := &fakeSender{}
	deps := Deps{
		Store:     store,
		JWT:       jwtConfig,
		Passwords: passwords,
		Scoring:   scoring.NewService(engine, scoring.WithStore(store)),
		Composer:  email.NewComposer("https://vault.example.com"),
		Sender:    sender,
		Addresses: email.NewValidator(noMX{}),
		OTP:       otp,
		Metrics:   observability.NewMetrics(),
	}
	if edit != nil {
		edit(&deps)
	}

	srv, err := New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, deps)
	require.NoError(t, err)
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	srv.now = func() time.Time { return now }
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: store, sender: sender, now: now}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// register creates an account and returns its id and session token.
func (e *testEnv) register(t *testing.T, name, address string) (uuid.UUID, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": address, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresCoreDependencies(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	env.store.pingErr = errors.New("connection refused")
	w = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode[map[string]string](t, w)["status"])
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodOptions, "/applications", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/health", "", nil)

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="GET /health"`)
}

func TestAuth_RegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	id, token := env.register(t, "Dana", "Dana@Example.com")
	assert.NotEqual(t, uuid.Nil, id)
	assert.NotEmpty(t, token)

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Dana", "email": "dana@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dana@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode[map[string]string](t, w)["error"])

	env.server.notifier.wait()
	sent := env.sender.messages()
	require.Len(t, sent, 2)
	for _, msg := range sent {
		assert.Equal(t, "dana@example.com", msg.To)
	}
}

func TestAuth_UnknownUserSameMessage(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode[map[string]string](t, w)["error"])
}

func TestAuth_InvalidBodies(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"register invalid json", "/auth/register", "not json"},
		{"register empty body", "/auth/register", ""},
		{"register short password", "/auth/register", map[string]string{"name": "A", "email": "a@example.com", "password": "short"}},
		{"register bad email", "/auth/register", map[string]string{"name": "A", "email": "nope", "password": "password123"}},
		{"login missing password", "/auth/login", map[string]string{"email": "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[map[string]string](t, w)["error"], "validation error")
		})
	}
}

func TestAuth_UpdatePassword(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPut, "/auth/password", "", map[string]string{
		"current_password": "password123", "new_password": "password456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

	w = env.do(t, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "not-my-password", "new_password": "password456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "password123", "new_password": "password456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dana@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes_RejectBadTokens(t *testing.T) {
	env := newTestEnv(t, nil)

	otp, err := email.NewOTPIssuer(testSecret, time.Minute)
	require.NoError(t, err)
	_, otpToken, err := otp.Issue("dana@example.com")
	require.NoError(t, err)

	tokens := map[string]string{
		"missing":   "",
		"garbage":   "not-a-jwt",
		"otp token": otpToken.Token,
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/applications", token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", decode[map[string]string](t, w)["error"])
		})
	}
}

func TestMe_ResumeAndProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	me := decode[types.User](t, env.do(t, http.MethodGet, "/me", token, nil))
	assert.Equal(t, "Dana", me.Name)
	assert.False(t, me.HasResume)
	assert.True(t, me.PasswordSet)

	w := env.do(t, http.MethodPut, "/me/resume", token, map[string]string{"resume_text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/me/resume", token, map[string]string{"resume_text": "Go developer with PostgreSQL"})
	require.Equal(t, http.StatusOK, w.Code)

	me = decode[types.User](t, env.do(t, http.MethodGet, "/me", token, nil))
	assert.True(t, me.HasResume)
}

func TestDigestPreference(t *testing.T) {
	env := newTestEnv(t, nil)
	userID, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodGet, "/me/digest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/me/digest", token, map[string]string{"frequency": "hourly", "scheduled_time": "09:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/me/digest", token, map[string]string{"frequency": "weekly", "scheduled_time": "25:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/me/digest", token, map[string]string{"frequency": "weekly", "scheduled_time": "08:30:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pref := decode[db.DigestPreference](t, w)
	assert.Equal(t, userID, pref.UserID)
	assert.Equal(t, "08:30", pref.ScheduledTime)
	assert.True(t, pref.Active)

	w = env.do(t, http.MethodPut, "/me/digest", token, map[string]any{"frequency": "daily", "scheduled_time": "18:00", "is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	pref = decode[db.DigestPreference](t, env.do(t, http.MethodGet, "/me/digest", token, nil))
	assert.Equal(t, db.FrequencyDaily, pref.Frequency)
	assert.False(t, pref.Active)
}

func TestApplications_CRUD(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPost, "/applications", token, map[string]string{"company_name": "Acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/applications", token, map[string]string{
		"company_name": "Acme", "job_title": "Backend Engineer", "current_status": "Sleeping",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/applications", token, map[string]string{
		"company_name":    "  Acme  ",
		"job_title":       "Backend Engineer",
		"job_description": "Go and PostgreSQL",
		"industry":        "Fintech",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[db.Application](t, w)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, db.StatusApplied, app.Status)

	path := "/applications/" + app.ID.String()

	got := decode[db.Application](t, env.do(t, http.MethodGet, path, token, nil))
	assert.Equal(t, app.ID, got.ID)

	w = env.do(t, http.MethodPut, path, token, map[string]string{
		"company_name": "Acme", "job_title": "Staff Engineer", "current_status": db.StatusShortlisted,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[db.Application](t, w)
	assert.Equal(t, "Staff Engineer", updated.JobTitle)
	assert.Equal(t, db.StatusShortlisted, updated.Status)

	w = env.do(t, http.MethodPut, path+"/status", token, map[string]string{"status": db.StatusInterviewScheduled})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path+"/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[struct {
		History []db.StatusChange `json:"history"`
	}](t, w).History
	require.Len(t, history, 3)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, db.StatusInterviewScheduled, history[2].NewStatus)

	list := decode[types.ApplicationListResponse](t, env.do(t, http.MethodGet, "/applications?status=Interview+Scheduled", token, nil))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, defaultPageSize, list.Limit)

	w = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplications_ListParams(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	tests := []struct {
		query string
		code  int
		limit int
	}{
		{"?status=Unknown", http.StatusBadRequest, 0},
		{"?limit=-1", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
		{"?limit=0", http.StatusOK, maxPageSize},
		{"?limit=500", http.StatusOK, maxPageSize},
		{"?limit=10&offset=5", http.StatusOK, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/applications"+tt.query, token, nil)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				list := decode[types.ApplicationListResponse](t, w)
				assert.Equal(t, tt.limit, list.Limit)
				assert.NotNil(t, list.Applications)
			}
		})
	}
}

func TestApplications_IsolatedPerUser(t *testing.T) {
	env := newTestEnv(t, nil)
	_, owner := env.register(t, "Owner", "owner@example.com")
	_, other := env.register(t, "Other", "other@example.com")

	app := decode[db.Application](t, env.do(t, http.MethodPost, "/applications", owner, map[string]string{
		"company_name": "Acme", "job_title": "Engineer",
	}))
	path := "/applications/" + app.ID.String()

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, path, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, path+"/status", other, map[string]string{"status": db.StatusRejected}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/applications/not-a-uuid", owner, nil).Code)
}

func TestATS_ScoreText(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/ats/score", "", map[string]string{
		"resume":          "Senior Go engineer. Built services with Go, PostgreSQL, Docker and Kubernetes. 6 years of experience.",
		"job_description": "We need a Go engineer with PostgreSQL and Kubernetes. 5+ years of experience.",
		"job_title":       "Go Engineer",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[ats.Result](t, w)
	assert.Greater(t, result.FinalScore, 0.0)
	assert.LessOrEqual(t, result.FinalScore, 100.0)
}

func TestATS_ScoreApplications(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	app := decode[db.Application](t, env.do(t, http.MethodPost, "/applications", token, map[string]string{
		"company_name": "Acme", "job_title": "Go Engineer", "job_description": "Go, PostgreSQL and Redis",
	}))
	path := "/applications/" + app.ID.String() + "/ats-score"

	w := env.do(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.do(t, http.MethodPut, "/me/resume", token, map[string]string{"resume_text": "Go developer using PostgreSQL and Redis"})

	w = env.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	scored := decode[ApplicationScoreResponse](t, w)
	assert.Equal(t, app.ID, scored.ApplicationID)
	assert.Equal(t, scoring.FormatScore(scored.Result.FinalScore), scored.ATSScore)

	w = env.do(t, http.MethodPost, "/applications/"+uuid.NewString()+"/ats-score", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/applications/ats-score", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	batch := decode[BatchScoreResponse](t, w)
	assert.Equal(t, 1, batch.Total)
	assert.Equal(t, 1, batch.Scored)
	assert.Zero(t, batch.Failed)
}

func TestAnalytics(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	for _, company := range []string{"Acme", "Globex"} {
		w := env.do(t, http.MethodPost, "/applications", token, map[string]string{
			"company_name": company, "job_title": "Engineer", "industry": "Software",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "conversion_funnel")
	assert.Contains(t, w.Body.String(), "heatmap_metadata")

	w = env.do(t, http.MethodGet, "/analytics/industry", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Software")

	w = env.do(t, http.MethodGet, "/analytics/unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAI_UnavailableWithoutAssistant(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPost, "/ai/clean-resume", token, map[string]string{"text": "raw"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "AI assistant is not configured", decode[map[string]string](t, w)["error"])

	w = env.do(t, http.MethodPost, "/jobs/import", token, map[string]string{"url": "https://example.com/job"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAI_CleanResume(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Assistant = assistant.New(&fakeLLM{response: "  Cleaned resume  "}, nil)
	})
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPost, "/ai/clean-resume", token, map[string]string{"text": "R e s u m e"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Cleaned resume", decode[map[string]string](t, w)["text"])
}

func TestAI_InterviewQuestions_RequiresResume(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Assistant = assistant.New(&fakeLLM{response: "[]"}, nil)
	})
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPost, "/ai/interview-questions", token, map[string]string{"job_description": "Go role"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/ai/interview-questions", token, map[string]string{"application_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAI_Chat(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Assistant = assistant.New(&fakeLLM{err: errors.New("quota exceeded")}, nil)
	})
	_, token := env.register(t, "Dana", "dana@example.com")

	w := env.do(t, http.MethodPost, "/ai/chat", "", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	guest := decode[assistant.ChatResponse](t, w)
	assert.Equal(t, assistant.QueryGreeting, guest.QueryType)
	assert.NotContains(t, guest.Response, "Dana")

	w = env.do(t, http.MethodPost, "/ai/chat", token, map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[assistant.ChatResponse](t, w).Response, "**Dana**")

	w = env.do(t, http.MethodPost, "/ai/chat", token, map[string]string{"message": "How many applications do I have?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, assistant.QueryErrorFallback, decode[assistant.ChatResponse](t, w).QueryType)

	w = env.do(t, http.MethodPost, "/ai/chat", "bad-token", map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/ai/chat", "", map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEmail(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/email/validate", "", map[string]string{"email": "dana@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[email.Validation](t, w).Valid)

	w = env.do(t, http.MethodPost, "/email/validate", "", map[string]string{"email": "not-an-address"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[email.Validation](t, w).Valid)
}

func TestOTP_ResetPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "Dana", "dana@example.com")
	env.server.notifier.wait()
	before := len(env.sender.messages())

	w := env.do(t, http.MethodPost, "/auth/otp/send", "", map[string]string{"email": "Dana@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sendResp := decode[types.SendOTPResponse](t, w)
	assert.NotEmpty(t, sendResp.Token)

	sent := env.sender.messages()
	require.Len(t, sent, before+1)
	assert.Equal(t, "dana@example.com", sent[len(sent)-1].To)

	w = env.do(t, http.MethodPost, "/auth/otp/send", "", map[string]string{"email": "ghost@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sendResp.Message, decode[types.SendOTPResponse](t, w).Message)
	assert.Len(t, env.sender.messages(), before+1)

	otp, err := email.NewOTPIssuer(testSecret, 10*time.Minute)
	require.NoError(t, err)
	token, err := otp.Sign("dana@example.com", "123456")
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/auth/otp/verify", "", map[string]string{
		"email": "dana@example.com", "otp": "654321", "token": token.Token,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/auth/otp/verify", "", map[string]string{
		"email": "dana@example.com", "otp": "123456", "token": token.Token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["valid"])

	w = env.do(t, http.MethodPost, "/auth/otp/verify", "", map[string]string{
		"email": "dana@example.com", "otp": "123456", "token": token.Token, "new_password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[types.LoginResponse](t, w).Token)

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "dana@example.com", "password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOTP_Unavailable(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.Sender = nil
	})

	w := env.do(t, http.MethodPost, "/auth/otp/send", "", map[string]string{"email": "dana@example.com"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOTP_DeliveryFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "Dana", "dana@example.com")
	env.server.notifier.wait()
	env.sender.mu.Lock()
	env.sender.err = errors.New("throttled")
	env.sender.mu.Unlock()

	w := env.do(t, http.MethodPost, "/auth/otp/send", "", map[string]string{"email": "dana@example.com"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRateLimit_Enforced(t *testing.T) {
	env := newTestEnv(t, nil)
	env.server.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "rate_limit_exceeded"))
}
