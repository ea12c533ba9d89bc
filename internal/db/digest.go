package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertDigestPreference creates or replaces a user's digest settings.
func (db *DB) UpsertDigestPreference(ctx context.Context, pref DigestPreference) (*DigestPreference, error) {
	out := pref
	err := db.pool.QueryRow(ctx,
		`INSERT INTO email_digest_preferences (user_id, frequency, scheduled_time, is_active)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
		     frequency = EXCLUDED.frequency,
		     scheduled_time = EXCLUDED.scheduled_time,
		     is_active = EXCLUDED.is_active,
		     updated_at = NOW()
		 RETURNING last_sent_at, updated_at`,
		pref.UserID, pref.Frequency, pref.ScheduledTime, pref.Active,
	).Scan(&out.LastSentAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save digest preference: %w", err)
	}
	return &out, nil
}

// GetDigestPreference returns a user's digest settings, or nil when unset.
func (db *DB) GetDigestPreference(ctx context.Context, userID uuid.UUID) (*DigestPreference, error) {
	var p DigestPreference
	err := db.pool.QueryRow(ctx,
		`SELECT p.user_id, u.email, u.name, p.frequency, p.scheduled_time, p.is_active, p.last_sent_at, p.updated_at
		 FROM email_digest_preferences p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Email, &p.Name, &p.Frequency, &p.ScheduledTime, &p.Active, &p.LastSentAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get digest preference: %w", err)
	}
	return &p, nil
}

// ListActiveDigestPreferences returns every active preference joined with
// the owner's email and name.
func (db *DB) ListActiveDigestPreferences(ctx context.Context) ([]DigestPreference, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT p.user_id, u.email, u.name, p.frequency, p.scheduled_time, p.is_active, p.last_sent_at, p.updated_at
		 FROM email_digest_preferences p JOIN users u ON u.id = p.user_id
		 WHERE p.is_active
		 ORDER BY p.scheduled_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest preferences: %w", err)
	}
	defer rows.Close()

	prefs := []DigestPreference{}
	for rows.Next() {
		var p DigestPreference
		if err := rows.Scan(&p.UserID, &p.Email, &p.Name, &p.Frequency, &p.ScheduledTime, &p.Active, &p.LastSentAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list digest preferences: %w", err)
	}
	return prefs, nil
}

// MarkDigestSent records the send time for a user's digest.
func (db *DB) MarkDigestSent(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE email_digest_preferences SET last_sent_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark digest sent: %w", err)
	}
	return nil
}
