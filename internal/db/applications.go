package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationSelect = `SELECT a.id, a.user_id, a.company_id, c.name, c.industry, c.company_size,
	a.job_title, a.job_description, a.job_url, a.location, a.current_status, a.ats_score,
	a.notes, a.applied_at, a.created_at, a.updated_at
	FROM applications a JOIN companies c ON c.id = a.company_id`

func scanApplication(row rowScanner) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyID, &a.CompanyName, &a.Industry, &a.CompanySize,
		&a.JobTitle, &a.JobDescription, &a.JobURL, &a.Location, &a.Status, &a.ATSScore,
		&a.Notes, &a.AppliedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts an application, creating its company on demand,
// and records the initial status in the history table.
func (db *DB) CreateApplication(ctx context.Context, userID uuid.UUID, in ApplicationInput) (*Application, error) {
	if in.Status == "" {
		in.Status = StatusApplied
	}
	if !IsValidStatus(in.Status) {
		return nil, fmt.Errorf("invalid status: %q", in.Status)
	}
	appliedAt := time.Now().UTC()
	if in.AppliedAt != nil {
		appliedAt = *in.AppliedAt
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	company, err := findOrCreateCompany(ctx, tx, in.CompanyName, in.Industry, in.CompanySize)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO applications (user_id, company_id, job_title, job_description, job_url, location, current_status, notes, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		userID, company.ID, in.JobTitle, in.JobDescription, in.JobURL, in.Location, in.Status, in.Notes, appliedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO application_status_history (application_id, old_status, new_status, changed_at)
		 VALUES ($1, NULL, $2, $3)`,
		id, in.Status, appliedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to record initial status: %w", err)
	}

	app, err := scanApplication(tx.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to load created application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application owned by userID
func (db *DB) GetApplication(ctx context.Context, userID, id uuid.UUID) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		applicationSelect+` WHERE a.id = $1 AND a.user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplications returns a user's applications, newest first
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, filters ApplicationFilters) ([]Application, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := applicationSelect + ` WHERE a.user_id = $1`
	args := []any{userID}
	argNum := 2

	if filters.Status != "" {
		query += fmt.Sprintf(" AND a.current_status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY a.applied_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplication rewrites the editable fields. Status changes go through
// UpdateApplicationStatus so that history is kept.
func (db *DB) UpdateApplication(ctx context.Context, userID, id uuid.UUID, in ApplicationInput) (*Application, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	company, err := findOrCreateCompany(ctx, tx, in.CompanyName, in.Industry, in.CompanySize)
	if err != nil {
		return nil, err
	}

	query := `UPDATE applications SET company_id = $1, job_title = $2, job_description = $3,
		job_url = $4, location = $5, notes = $6, updated_at = NOW()`
	args := []any{company.ID, in.JobTitle, in.JobDescription, in.JobURL, in.Location, in.Notes}
	if in.AppliedAt != nil {
		query += `, applied_at = $7 WHERE id = $8 AND user_id = $9`
		args = append(args, *in.AppliedAt, id, userID)
	} else {
		query += ` WHERE id = $7 AND user_id = $8`
		args = append(args, id, userID)
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}

	app, err := scanApplication(tx.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to load updated application: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit application update: %w", err)
	}
	return app, nil
}

// DeleteApplication removes an application and its history. It reports
// whether a row was deleted.
func (db *DB) DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// UpdateApplicationStatus changes the status and writes a history row in the
// same transaction. Returns (nil, nil) when the application does not exist.
func (db *DB) UpdateApplicationStatus(ctx context.Context, userID, id uuid.UUID, status string) (*Application, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %q", status)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var old string
	err = tx.QueryRow(ctx,
		`SELECT current_status FROM applications WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}

	if old != status {
		if _, err := tx.Exec(ctx,
			`UPDATE applications SET current_status = $1, updated_at = NOW() WHERE id = $2`,
			status, id,
		); err != nil {
			return nil, fmt.Errorf("failed to update status: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO application_status_history (application_id, old_status, new_status)
			 VALUES ($1, $2, $3)`,
			id, old, status,
		); err != nil {
			return nil, fmt.Errorf("failed to record status change: %w", err)
		}
	}

	app, err := scanApplication(tx.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status change: %w", err)
	}
	return app, nil
}

// ListStatusHistory returns an application's status changes, oldest first
func (db *DB) ListStatusHistory(ctx context.Context, userID, id uuid.UUID) ([]StatusChange, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT h.id, h.application_id, h.old_status, h.new_status, h.changed_at
		 FROM application_status_history h
		 JOIN applications a ON a.id = h.application_id
		 WHERE h.application_id = $1 AND a.user_id = $2
		 ORDER BY h.changed_at ASC`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return collectStatusChanges(rows)
}

// ListUserStatusHistory returns every status change across a user's applications
func (db *DB) ListUserStatusHistory(ctx context.Context, userID uuid.UUID) ([]StatusChange, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT h.id, h.application_id, h.old_status, h.new_status, h.changed_at
		 FROM application_status_history h
		 JOIN applications a ON a.id = h.application_id
		 WHERE a.user_id = $1
		 ORDER BY h.changed_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	return collectStatusChanges(rows)
}

func collectStatusChanges(rows pgx.Rows) ([]StatusChange, error) {
	defer rows.Close()

	changes := []StatusChange{}
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.ID, &c.ApplicationID, &c.OldStatus, &c.NewStatus, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}
	return changes, nil
}

// SaveATSScore stores a formatted score (or the Error sentinel).
func (db *DB) SaveATSScore(ctx context.Context, userID, id uuid.UUID, score string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET ats_score = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		score, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to save ATS score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// ListApplicationStats returns the analytics projection of a user's applications.
func (db *DB) ListApplicationStats(ctx context.Context, userID uuid.UUID) ([]ApplicationStat, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT a.id, c.name, a.job_title, a.current_status, a.ats_score, a.applied_at,
		        COALESCE(c.industry, ''), COALESCE(c.company_size, ''), a.location
		 FROM applications a JOIN companies c ON c.id = a.company_id
		 WHERE a.user_id = $1
		 ORDER BY a.applied_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list application stats: %w", err)
	}
	defer rows.Close()

	stats := []ApplicationStat{}
	for rows.Next() {
		var s ApplicationStat
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.JobTitle, &s.Status, &s.ATSScore, &s.AppliedAt,
			&s.Industry, &s.CompanySize, &s.Location); err != nil {
			return nil, fmt.Errorf("failed to scan application stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list application stats: %w", err)
	}
	return stats, nil
}
