package server

import (
	"context"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/google/uuid"
)

// Store is the database surface the handlers use. *db.DB satisfies it.
type Store interface {
	DBClient

	Ping(ctx context.Context) error
	UpdateResumeText(ctx context.Context, userID uuid.UUID, resumeText string) error

	CreateApplication(ctx context.Context, userID uuid.UUID, in db.ApplicationInput) (*db.Application, error)
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID, filters db.ApplicationFilters) ([]db.Application, error)
	UpdateApplication(ctx context.Context, userID, id uuid.UUID, in db.ApplicationInput) (*db.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error)
	UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, status string) (*db.Application, error)
	ListStatusHistory(ctx context.Context, userID, id uuid.UUID) ([]db.StatusChange, error)
	ListUserStatusHistory(ctx context.Context, userID uuid.UUID) ([]db.StatusChange, error)
	ListApplicationStats(ctx context.Context, userID uuid.UUID) ([]db.ApplicationStat, error)

	UpsertDigestPreference(ctx context.Context, pref db.DigestPreference) (*db.DigestPreference, error)
	GetDigestPreference(ctx context.Context, userID uuid.UUID) (*db.DigestPreference, error)
}
