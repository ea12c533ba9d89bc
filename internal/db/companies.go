package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, name_normalized, industry, company_size, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Industry, &c.CompanySize, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOrCreateCompany finds an existing company by normalized name or
// creates a new one. Non-empty industry and size fill in missing values on an
// existing record.
func (db *DB) FindOrCreateCompany(ctx context.Context, name, industry, size string) (*Company, error) {
	return findOrCreateCompany(ctx, db.pool, name, industry, size)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findOrCreateCompany(ctx context.Context, q queryRower, name, industry, size string) (*Company, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	c, err := scanCompany(q.QueryRow(ctx,
		`INSERT INTO companies (name, name_normalized, industry, company_size)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name_normalized) DO UPDATE SET
		     industry = COALESCE(companies.industry, EXCLUDED.industry),
		     company_size = COALESCE(companies.company_size, EXCLUDED.company_size),
		     updated_at = NOW()
		 RETURNING `+companyColumns,
		name, normalized, nullIfEmpty(industry), nullIfEmpty(size),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find or create company: %w", err)
	}
	return c, nil
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}
