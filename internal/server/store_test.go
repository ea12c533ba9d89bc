package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	apps    map[uuid.UUID]*db.Application
	history []db.StatusChange
	digests map[uuid.UUID]*db.DigestPreference
	pingErr error
	clock   time.Time
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]*db.User),
		apps:    make(map[uuid.UUID]*db.Application),
		digests: make(map[uuid.UUID]*db.DigestPreference),
		clock:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so list order is stable.
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memStore) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.PasswordHash = hash
		u.PasswordSet = true
	}
	return nil
}

func (m *memStore) UpdateResumeText(_ context.Context, userID uuid.UUID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.ResumeText = text
	}
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (m *memStore) CreateApplication(_ context.Context, userID uuid.UUID, in db.ApplicationInput) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	status := in.Status
	if status == "" {
		status = db.StatusApplied
	}
	applied := now
	if in.AppliedAt != nil {
		applied = *in.AppliedAt
	}
	app := &db.Application{
		ID:             uuid.New(),
		UserID:         userID,
		CompanyID:      uuid.New(),
		CompanyName:    in.CompanyName,
		Industry:       nonEmpty(in.Industry),
		CompanySize:    nonEmpty(in.CompanySize),
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		JobURL:         in.JobURL,
		Location:       in.Location,
		Status:         status,
		Notes:          in.Notes,
		AppliedAt:      applied,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.apps[app.ID] = app
	m.history = append(m.history, db.StatusChange{ID: uuid.New(), ApplicationID: app.ID, NewStatus: status, ChangedAt: now})
	cp := *app
	return &cp, nil
}

func (m *memStore) owned(userID, id uuid.UUID) *db.Application {
	app, ok := m.apps[id]
	if !ok || app.UserID != userID {
		return nil
	}
	return app
}

func (m *memStore) GetApplication(_ context.Context, userID, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.owned(userID, id)
	if app == nil {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *memStore) ListApplications(_ context.Context, userID uuid.UUID, f db.ApplicationFilters) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Application
	for _, app := range m.apps {
		if app.UserID != userID || (f.Status != "" && app.Status != f.Status) {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateApplication(_ context.Context, userID, id uuid.UUID, in db.ApplicationInput) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.owned(userID, id)
	if app == nil {
		return nil, nil
	}
	app.CompanyName = in.CompanyName
	app.Industry = nonEmpty(in.Industry)
	app.CompanySize = nonEmpty(in.CompanySize)
	app.JobTitle = in.JobTitle
	app.JobDescription = in.JobDescription
	app.JobURL = in.JobURL
	app.Location = in.Location
	app.Notes = in.Notes
	if in.AppliedAt != nil {
		app.AppliedAt = *in.AppliedAt
	}
	app.UpdatedAt = m.tick()
	cp := *app
	return &cp, nil
}

func (m *memStore) DeleteApplication(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned(userID, id) == nil {
		return false, nil
	}
	delete(m.apps, id)
	return true, nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, userID, id uuid.UUID, status string) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app := m.owned(userID, id)
	if app == nil {
		return nil, nil
	}
	if app.Status != status {
		old := app.Status
		now := m.tick()
		m.history = append(m.history, db.StatusChange{ID: uuid.New(), ApplicationID: id, OldStatus: &old, NewStatus: status, ChangedAt: now})
		app.Status = status
		app.UpdatedAt = now
	}
	cp := *app
	return &cp, nil
}

func (m *memStore) ListStatusHistory(_ context.Context, userID, id uuid.UUID) ([]db.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owned(userID, id) == nil {
		return nil, nil
	}
	var out []db.StatusChange
	for _, c := range m.history {
		if c.ApplicationID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListUserStatusHistory(_ context.Context, userID uuid.UUID) ([]db.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.StatusChange
	for _, c := range m.history {
		if m.owned(userID, c.ApplicationID) != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListApplicationStats(_ context.Context, userID uuid.UUID) ([]db.ApplicationStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.ApplicationStat
	for _, app := range m.apps {
		if app.UserID != userID {
			continue
		}
		stat := db.ApplicationStat{
			ID:          app.ID,
			CompanyName: app.CompanyName,
			JobTitle:    app.JobTitle,
			Status:      app.Status,
			ATSScore:    app.ATSScore,
			AppliedAt:   app.AppliedAt,
			Location:    app.Location,
		}
		if app.Industry != nil {
			stat.Industry = *app.Industry
		}
		if app.CompanySize != nil {
			stat.CompanySize = *app.CompanySize
		}
		out = append(out, stat)
	}
	return out, nil
}

func (m *memStore) SaveATSScore(_ context.Context, userID, id uuid.UUID, score string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app := m.owned(userID, id); app != nil {
		app.ATSScore = &score
	}
	return nil
}

func (m *memStore) UpsertDigestPreference(_ context.Context, pref db.DigestPreference) (*db.DigestPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pref.UpdatedAt = m.tick()
	m.digests[pref.UserID] = &pref
	cp := pref
	return &cp, nil
}

func (m *memStore) GetDigestPreference(_ context.Context, userID uuid.UUID) (*db.DigestPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pref, ok := m.digests[userID]
	if !ok {
		return nil, nil
	}
	cp := *pref
	return &cp, nil
}
