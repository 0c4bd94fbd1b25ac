package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/phoenix/internal/bot"
)

// CooldownRepository persists per-user command cooldowns.
type CooldownRepository struct {
	db *pgxpool.Pool
}

var _ bot.CooldownStore = (*CooldownRepository)(nil)

// NewCooldownRepository creates a CooldownRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCooldownRepository(db *pgxpool.Pool) *CooldownRepository {
	return &CooldownRepository{db: db}
}

// Get returns when the cooldown of kind expires for userID.
//
// Postcondition: ok is false when no cooldown was ever set.
func (r *CooldownRepository) Get(ctx context.Context, userID string, kind bot.CooldownKind) (time.Time, bool, error) {
	var expiresAt time.Time
	err := r.db.QueryRow(ctx,
		`SELECT expires_at FROM cooldowns WHERE user_id = $1 AND kind = $2`,
		userID, string(kind),
	).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("querying cooldown: %w", err)
	}
	return expiresAt, true, nil
}

// Set records a cooldown expiring at expiresAt, replacing any previous one.
func (r *CooldownRepository) Set(ctx context.Context, userID string, kind bot.CooldownKind, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cooldowns (user_id, kind, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, kind) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		userID, string(kind), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("setting cooldown: %w", err)
	}
	return nil
}

// DeleteAll clears every cooldown.
func (r *CooldownRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cooldowns`); err != nil {
		return fmt.Errorf("clearing cooldowns: %w", err)
	}
	return nil
}
